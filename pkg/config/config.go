package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	ETL          ETLConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.ETL.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SALESETL_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"SALESETL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SALESETL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SALESETL_DB_DSN"`
	Driver string `envconfig:"SALESETL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SALESETL_DB_HOST"`
	LegacyPort     int    `envconfig:"SALESETL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SALESETL_DB_USER"`
	LegacyPassword string `envconfig:"SALESETL_DB_PASSWORD"`
	LegacyName     string `envconfig:"SALESETL_DB_NAME"`
	LegacySSLMode  string `envconfig:"SALESETL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SALESETL_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SALESETL_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SALESETL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SALESETL_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	WaitAttempts int           `envconfig:"SALESETL_DB_WAIT_ATTEMPTS" default:"10"`
	WaitDelay    time.Duration `envconfig:"SALESETL_DB_WAIT_DELAY" default:"2s"`
}

// ETLConfig carries the per-run pipeline inputs.
type ETLConfig struct {
	SalesCSV     string `envconfig:"SALESETL_SALES_CSV" default:"data/sales.csv"`
	CustomersCSV string `envconfig:"SALESETL_CUSTOMERS_CSV" default:"data/customers.csv"`
	RankingTopN  int    `envconfig:"SALESETL_RANKING_TOP_N" default:"5"`

	// SnapshotDate pins the reference date for customer tenure
	// (YYYY-MM-DD). Empty means the current date at run time.
	SnapshotDate string `envconfig:"SALESETL_SNAPSHOT_DATE"`
}

// Snapshot resolves the configured snapshot date, normalized to midnight UTC.
func (e ETLConfig) Snapshot(now time.Time) (time.Time, error) {
	if e.SnapshotDate == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", e.SnapshotDate, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", EnvSnapshotDate, e.SnapshotDate, err)
	}
	return parsed, nil
}

func (e ETLConfig) validate() error {
	if e.RankingTopN < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", EnvRankingTopN, e.RankingTopN)
	}
	if _, err := e.Snapshot(time.Now()); err != nil {
		return err
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SALESETL_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

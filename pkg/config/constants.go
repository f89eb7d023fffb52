package config

// EnvPrefix is passed to envconfig; the struct tags already carry the full
// variable names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "SALESETL_APP_ENV"
	EnvDBDSN        = "SALESETL_DB_DSN"
	EnvDBHost       = "SALESETL_DB_HOST"
	EnvDBUser       = "SALESETL_DB_USER"
	EnvDBName       = "SALESETL_DB_NAME"
	EnvSalesCSV     = "SALESETL_SALES_CSV"
	EnvCustomersCSV = "SALESETL_CUSTOMERS_CSV"
	EnvRankingTopN  = "SALESETL_RANKING_TOP_N"
	EnvSnapshotDate = "SALESETL_SNAPSHOT_DATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

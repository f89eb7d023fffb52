package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/salesetl/pkg/config"
	"github.com/angelmondragon/salesetl/pkg/db"
	pkgerrors "github.com/angelmondragon/salesetl/pkg/errors"
	"github.com/angelmondragon/salesetl/pkg/logger"
)

var testSchemas = []string{
	`CREATE TABLE sales (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL,
  customer_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  order_date DATE NOT NULL,
  category TEXT NOT NULL,
  month TEXT NOT NULL
);`,
	`CREATE TABLE customers (
  customer_id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  email TEXT,
  registration_date DATE,
  region TEXT NOT NULL,
  customer_days INTEGER
);`,
	`CREATE TABLE sales_summary (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  category TEXT NOT NULL,
  total_sales NUMERIC NOT NULL,
  total_quantity INTEGER NOT NULL,
  average_order_value NUMERIC NOT NULL,
  period_date DATE NOT NULL
);`,
	`CREATE TABLE product_ranking (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  total_sold INTEGER NOT NULL,
  total_revenue NUMERIC NOT NULL,
  rank_position INTEGER NOT NULL
);`,
}

func setupPipeline(t *testing.T, salesCSV, customersCSV string) (*Service, *gorm.DB) {
	t.Helper()

	dir := t.TempDir()
	salesPath := filepath.Join(dir, "sales.csv")
	customersPath := filepath.Join(dir, "customers.csv")
	require.NoError(t, os.WriteFile(salesPath, []byte(salesCSV), 0o644))
	require.NoError(t, os.WriteFile(customersPath, []byte(customersCSV), 0o644))

	conn, err := gorm.Open(sqlite.Open("file:pipeline_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	for _, schema := range testSchemas {
		require.NoError(t, conn.Exec(schema).Error)
	}

	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.DB.WaitAttempts = 1
	cfg.ETL.SalesCSV = salesPath
	cfg.ETL.CustomersCSV = customersPath
	cfg.ETL.RankingTopN = 5
	cfg.ETL.SnapshotDate = "2024-02-01"

	logg := logger.New(logger.Options{ServiceName: "pipeline-test"})
	service, err := NewService(ServiceParams{
		Config: cfg,
		Logger: logg,
		DB:     db.NewWithConn(conn),
	})
	require.NoError(t, err)
	return service, conn
}

const sampleSalesCSV = "order_id,customer_id,product_id,product_name,quantity,unit_price,order_date,category\n" +
	"1,C001,P001,Laptop,2,499.99,2024-01-15,Tech\n" +
	"1,C001,P001,Laptop,2,499.99,2024-01-15,Tech\n" +
	"2,C002,P002,Novel,1,19.90,2024-02-01,\n" +
	"3,,P003,Mouse,1,9.99,2024-02-02,Tech\n"

const sampleCustomersCSV = "customer_id,customer_name,email,registration_date,region\n" +
	"C001,Alice,alice@example.com,2024-01-01,North\n" +
	"C002,Bob,bad-email,2023-06-15,\n" +
	",Ghost,ghost@example.com,2024-01-01,South\n"

func TestRunEndToEnd(t *testing.T) {
	service, conn := setupPipeline(t, sampleSalesCSV, sampleCustomersCSV)

	require.NoError(t, service.Run(context.Background()))

	var salesCount int64
	require.NoError(t, conn.Table("sales").Count(&salesCount).Error)
	assert.Equal(t, int64(2), salesCount, "duplicate and missing-customer rows removed")

	var customerCount int64
	require.NoError(t, conn.Table("customers").Count(&customerCount).Error)
	assert.Equal(t, int64(2), customerCount, "row without customer_id dropped")

	var region string
	require.NoError(t, conn.Table("customers").
		Where("customer_id = ?", "C002").
		Select("region").Scan(&region).Error)
	assert.Equal(t, "Unknown", region)

	var summaryCount int64
	require.NoError(t, conn.Table("sales_summary").Count(&summaryCount).Error)
	assert.Equal(t, int64(2), summaryCount, "Tech/2024-01 and Unknown/2024-02")

	var topProduct string
	require.NoError(t, conn.Table("product_ranking").
		Where("rank_position = ?", 1).
		Select("product_id").Scan(&topProduct).Error)
	assert.Equal(t, "P001", topProduct)
}

func TestRunRerunReplacesDestination(t *testing.T) {
	service, conn := setupPipeline(t, sampleSalesCSV, sampleCustomersCSV)
	ctx := context.Background()

	require.NoError(t, service.Run(ctx))
	require.NoError(t, service.Run(ctx))

	var salesCount int64
	require.NoError(t, conn.Table("sales").Count(&salesCount).Error)
	assert.Equal(t, int64(2), salesCount, "rerun must not append")
}

func TestRunMissingSourceIsStructural(t *testing.T) {
	service, _ := setupPipeline(t, sampleSalesCSV, sampleCustomersCSV)
	service.cfg.ETL.SalesCSV = filepath.Join(t.TempDir(), "missing.csv")

	err := service.Run(context.Background())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStructural, typed.Code())
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "pipeline-test"})

	_, err := NewService(ServiceParams{Logger: logg})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Config: &config.Config{}})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Config: &config.Config{}, Logger: logg})
	require.Error(t, err)
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary aggregates cleaned sales per (category, month).
type SalesSummary struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Category          string          `gorm:"column:category;not null"`
	TotalSales        decimal.Decimal `gorm:"column:total_sales;type:numeric(14,2);not null"`
	TotalQuantity     int             `gorm:"column:total_quantity;not null"`
	AverageOrderValue decimal.Decimal `gorm:"column:average_order_value;type:numeric(14,2);not null"`
	PeriodDate        time.Time       `gorm:"column:period_date;type:date;not null"`

	// Month keeps the YYYY-MM group key for reporting; PeriodDate is the
	// persisted representation.
	Month string `gorm:"-"`
}

func (SalesSummary) TableName() string { return "sales_summary" }

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is one cleaned sales line item. Uniqueness on
// (order_id, product_id, quantity, unit_price) is enforced by the cleaner
// before rows reach the sink.
type Sale struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     int64           `gorm:"column:order_id;not null"`
	CustomerID  string          `gorm:"column:customer_id;not null"`
	ProductID   string          `gorm:"column:product_id;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(14,2);not null"`
	OrderDate   time.Time       `gorm:"column:order_date;type:date;not null"`
	Category    string          `gorm:"column:category;not null"`
	Month       string          `gorm:"column:month;not null"`
}

func (Sale) TableName() string { return "sales" }

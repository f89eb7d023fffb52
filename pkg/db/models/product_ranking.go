package models

import "github.com/shopspring/decimal"

// ProductRanking is one row of the top-N products by volume.
type ProductRanking struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID    string          `gorm:"column:product_id;not null"`
	ProductName  string          `gorm:"column:product_name;not null"`
	TotalSold    int             `gorm:"column:total_sold;not null"`
	TotalRevenue decimal.Decimal `gorm:"column:total_revenue;type:numeric(14,2);not null"`
	RankPosition int             `gorm:"column:rank_position;not null"`
}

func (ProductRanking) TableName() string { return "product_ranking" }

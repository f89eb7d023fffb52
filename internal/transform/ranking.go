package transform

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/salesetl/pkg/db/models"
)

// DefaultTopN bounds the product ranking when no override is configured.
const DefaultTopN = 5

type rankingKey struct {
	productID   string
	productName string
}

// BuildProductRanking groups cleaned sales per product and returns the topN
// products ordered by total_sold descending with total_revenue as tie-break.
// rank_position runs 1..k in the final order.
func BuildProductRanking(sales []models.Sale, topN int) []models.ProductRanking {
	if topN < 1 {
		topN = DefaultTopN
	}

	type acc struct {
		totalSold    int
		totalRevenue decimal.Decimal
	}
	groups := make(map[rankingKey]*acc)
	for _, sale := range sales {
		key := rankingKey{productID: sale.ProductID, productName: sale.ProductName}
		entry, ok := groups[key]
		if !ok {
			entry = &acc{}
			groups[key] = entry
		}
		entry.totalSold += sale.Quantity
		entry.totalRevenue = entry.totalRevenue.Add(sale.TotalPrice)
	}

	ranking := make([]models.ProductRanking, 0, len(groups))
	for key, entry := range groups {
		ranking = append(ranking, models.ProductRanking{
			ProductID:    key.productID,
			ProductName:  key.productName,
			TotalSold:    entry.totalSold,
			TotalRevenue: entry.totalRevenue,
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalSold != ranking[j].TotalSold {
			return ranking[i].TotalSold > ranking[j].TotalSold
		}
		if cmp := ranking[i].TotalRevenue.Cmp(ranking[j].TotalRevenue); cmp != 0 {
			return cmp > 0
		}
		return ranking[i].ProductID < ranking[j].ProductID
	})

	if len(ranking) > topN {
		ranking = ranking[:topN]
	}
	for i := range ranking {
		ranking[i].RankPosition = i + 1
	}
	return ranking
}

package transform

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/salesetl/pkg/db/models"
)

type summaryKey struct {
	category string
	month    string
}

type summaryAcc struct {
	totalSales    decimal.Decimal
	totalQuantity int
	orders        map[int64]struct{}
	periodDate    time.Time
}

// BuildSalesSummary aggregates cleaned sales into one row per
// (category, month). average_order_value divides total_sales by the number of
// distinct orders in the group, falling back to zero for an empty group.
func BuildSalesSummary(sales []models.Sale) []models.SalesSummary {
	groups := make(map[summaryKey]*summaryAcc)
	for _, sale := range sales {
		key := summaryKey{category: sale.Category, month: sale.Month}
		acc, ok := groups[key]
		if !ok {
			acc = &summaryAcc{
				orders: make(map[int64]struct{}),
				periodDate: time.Date(sale.OrderDate.Year(), sale.OrderDate.Month(), 1,
					0, 0, 0, 0, time.UTC),
			}
			groups[key] = acc
		}
		acc.totalSales = acc.totalSales.Add(sale.TotalPrice)
		acc.totalQuantity += sale.Quantity
		acc.orders[sale.OrderID] = struct{}{}
	}

	summaries := make([]models.SalesSummary, 0, len(groups))
	for key, acc := range groups {
		avg := decimal.Zero
		if len(acc.orders) > 0 {
			avg = acc.totalSales.Div(decimal.NewFromInt(int64(len(acc.orders))))
		}
		summaries = append(summaries, models.SalesSummary{
			Category:          key.category,
			Month:             key.month,
			TotalSales:        acc.totalSales,
			TotalQuantity:     acc.totalQuantity,
			AverageOrderValue: avg,
			PeriodDate:        acc.periodDate,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Category != summaries[j].Category {
			return summaries[i].Category < summaries[j].Category
		}
		return summaries[i].Month < summaries[j].Month
	})
	return summaries
}

package transform

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/salesetl/pkg/db/models"
)

// RegionCheck is one row of the average-check-by-region report. The report is
// logged for operators, never persisted.
type RegionCheck struct {
	Region      string
	AvgCheck    decimal.Decimal
	OrdersCount int
}

type orderKey struct {
	orderID    int64
	customerID string
}

// BuildAvgCheckByRegion collapses sales to one total per (order_id,
// customer_id), joins the customer's region (missing customers fall back to
// "Unknown"), and averages the order totals per region. Output is sorted by
// avg_check descending.
func BuildAvgCheckByRegion(sales []models.Sale, customers []models.Customer) []RegionCheck {
	orderTotals := make(map[orderKey]decimal.Decimal)
	for _, sale := range sales {
		key := orderKey{orderID: sale.OrderID, customerID: sale.CustomerID}
		orderTotals[key] = orderTotals[key].Add(sale.TotalPrice)
	}

	regionByCustomer := make(map[string]string, len(customers))
	for _, customer := range customers {
		regionByCustomer[customer.CustomerID] = customer.Region
	}

	type acc struct {
		sum    decimal.Decimal
		orders int
		ids    map[int64]struct{}
	}
	groups := make(map[string]*acc)
	for key, total := range orderTotals {
		region, ok := regionByCustomer[key.customerID]
		if !ok || region == "" {
			region = defaultRegion
		}
		entry, exists := groups[region]
		if !exists {
			entry = &acc{ids: make(map[int64]struct{})}
			groups[region] = entry
		}
		entry.sum = entry.sum.Add(total)
		entry.orders++
		entry.ids[key.orderID] = struct{}{}
	}

	report := make([]RegionCheck, 0, len(groups))
	for region, entry := range groups {
		report = append(report, RegionCheck{
			Region:      region,
			AvgCheck:    entry.sum.Div(decimal.NewFromInt(int64(entry.orders))),
			OrdersCount: len(entry.ids),
		})
	}

	sort.Slice(report, func(i, j int) bool {
		if cmp := report[i].AvgCheck.Cmp(report[j].AvgCheck); cmp != 0 {
			return cmp > 0
		}
		return report[i].Region < report[j].Region
	})
	return report
}

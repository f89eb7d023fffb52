package transform

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/salesetl/internal/extract"
	"github.com/angelmondragon/salesetl/pkg/db/models"
)

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func i64Ptr(v int64) *int64 { return &v }

func decPtr(t *testing.T, v string) *decimal.Decimal {
	t.Helper()
	parsed, err := decimal.NewFromString(v)
	require.NoError(t, err)
	return &parsed
}

func rawSale(t *testing.T, orderID int64, customerID, productID string, qty int, price, date, category string) extract.RawSale {
	t.Helper()
	raw := extract.RawSale{
		OrderID:     i64Ptr(orderID),
		CustomerID:  strPtr(customerID),
		ProductID:   strPtr(productID),
		ProductName: strPtr("Product " + productID),
		Quantity:    intPtr(qty),
		UnitPrice:   decPtr(t, price),
		OrderDate:   strPtr(date),
	}
	if category != "" {
		raw.Category = strPtr(category)
	}
	return raw
}

func rawFromSales(sales []models.Sale) []extract.RawSale {
	raws := make([]extract.RawSale, 0, len(sales))
	for _, sale := range sales {
		sale := sale
		date := sale.OrderDate.Format("2006-01-02")
		raws = append(raws, extract.RawSale{
			OrderID:     &sale.OrderID,
			CustomerID:  &sale.CustomerID,
			ProductID:   &sale.ProductID,
			ProductName: &sale.ProductName,
			Quantity:    &sale.Quantity,
			UnitPrice:   &sale.UnitPrice,
			OrderDate:   &date,
			Category:    &sale.Category,
		})
	}
	return raws
}

func TestCleanSalesComputesDerivedFields(t *testing.T) {
	rows := []extract.RawSale{
		rawSale(t, 1, "C001", "P001", 3, "499.99", "2024-01-15", "Tech"),
	}

	cleaned, stats := CleanSales(rows)
	require.Len(t, cleaned, 1)
	assert.Equal(t, 1, stats.Out)

	sale := cleaned[0]
	assert.True(t, sale.TotalPrice.Equal(*decPtr(t, "1499.97")), "total_price = quantity x unit_price exactly")
	assert.Equal(t, "2024-01", sale.Month)
	assert.Equal(t, "Tech", sale.Category)
}

func TestCleanSalesTotalPriceExactForAllSurvivors(t *testing.T) {
	rows := []extract.RawSale{
		rawSale(t, 1, "C001", "P001", 3, "0.10", "2024-01-15", "Tech"),
		rawSale(t, 2, "C002", "P002", 7, "19.99", "2024-02-02", "Books"),
		rawSale(t, 3, "C003", "P003", 1000, "0.01", "2024-03-01", ""),
	}

	cleaned, _ := CleanSales(rows)
	require.Len(t, cleaned, 3)
	for _, sale := range cleaned {
		want := sale.UnitPrice.Mul(decimal.NewFromInt(int64(sale.Quantity)))
		assert.True(t, sale.TotalPrice.Equal(want), "row %d total mismatch", sale.OrderID)
	}
}

func TestCleanSalesDeduplicationKeepsFirstOccurrence(t *testing.T) {
	first := rawSale(t, 1, "C001", "P001", 2, "10.00", "2024-01-15", "Tech")
	// Same dedup key, different customer and date: still a duplicate.
	second := rawSale(t, 1, "C999", "P001", 2, "10.00", "2024-03-20", "Books")
	distinct := rawSale(t, 1, "C001", "P001", 3, "10.00", "2024-01-15", "Tech")

	cleaned, stats := CleanSales([]extract.RawSale{first, second, distinct})
	require.Len(t, cleaned, 2)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, "C001", cleaned[0].CustomerID, "first occurrence by input order wins")
	assert.Equal(t, 3, cleaned[1].Quantity)
}

func TestCleanSalesDropsRowsMissingCriticalFields(t *testing.T) {
	missingOrderID := rawSale(t, 1, "C001", "P001", 2, "10.00", "2024-01-15", "Tech")
	missingOrderID.OrderID = nil
	missingCustomer := rawSale(t, 2, "C002", "P002", 2, "10.00", "2024-01-15", "Tech")
	missingCustomer.CustomerID = nil
	badDate := rawSale(t, 3, "C003", "P003", 2, "10.00", "not-a-date", "Tech")
	missingQty := rawSale(t, 4, "C004", "P004", 2, "10.00", "2024-01-15", "Tech")
	missingQty.Quantity = nil
	missingPrice := rawSale(t, 5, "C005", "P005", 2, "10.00", "2024-01-15", "Tech")
	missingPrice.UnitPrice = nil
	keeper := rawSale(t, 6, "C006", "P006", 2, "10.00", "2024-01-15", "Tech")

	cleaned, stats := CleanSales([]extract.RawSale{
		missingOrderID, missingCustomer, badDate, missingQty, missingPrice, keeper,
	})
	require.Len(t, cleaned, 1)
	assert.Equal(t, int64(6), cleaned[0].OrderID)
	assert.Equal(t, 5, stats.MissingDropped)
	assert.Equal(t, 1, stats.InvalidOrderDates)
}

func TestCleanSalesDefaultsCategory(t *testing.T) {
	withCategory := rawSale(t, 1, "C001", "P001", 1, "5.00", "2024-01-15", "Books")
	withoutCategory := rawSale(t, 2, "C002", "P002", 1, "5.00", "2024-01-15", "")

	cleaned, stats := CleanSales([]extract.RawSale{withCategory, withoutCategory})
	require.Len(t, cleaned, 2)
	assert.Equal(t, "Books", cleaned[0].Category)
	assert.Equal(t, "Unknown", cleaned[1].Category)
	assert.Equal(t, 1, stats.CategoryDefaulted)
}

func TestCleanSalesIsIdempotent(t *testing.T) {
	rows := []extract.RawSale{
		rawSale(t, 1, "C001", "P001", 2, "10.00", "2024-01-15", "Tech"),
		rawSale(t, 1, "C001", "P001", 2, "10.00", "2024-01-15", "Tech"),
		rawSale(t, 2, "C002", "P002", 1, "7.50", "2024-02-01", ""),
	}

	once, _ := CleanSales(rows)
	twice, stats := CleanSales(rawFromSales(once))

	assert.Equal(t, 0, stats.Duplicates)
	assert.Equal(t, 0, stats.MissingDropped)
	assert.Equal(t, 0, stats.CategoryDefaulted)
	require.Equal(t, len(once), len(twice))
	for i := range once {
		assert.Equal(t, once[i].OrderID, twice[i].OrderID)
		assert.Equal(t, once[i].Category, twice[i].Category)
		assert.True(t, once[i].TotalPrice.Equal(twice[i].TotalPrice))
		assert.Equal(t, once[i].Month, twice[i].Month)
	}
}

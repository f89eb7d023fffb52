package transform

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/salesetl/internal/extract"
	"github.com/angelmondragon/salesetl/pkg/db/models"
)

// dateLayouts are tried in order when parsing source dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// SalesCleanStats counts the rows affected by each cleaning step.
type SalesCleanStats struct {
	In                int
	InvalidOrderDates int
	Duplicates        int
	MissingDropped    int
	CategoryDefaulted int
	Out               int
}

const defaultCategory = "Unknown"

// CleanSales normalizes and filters raw sales rows. Every returned row has
// all critical fields populated, total_price and month computed, and is
// unique on (order_id, product_id, quantity, unit_price) with the first
// occurrence by input order winning. Data-quality issues never produce an
// error; they are resolved by dropping or defaulting and counted in stats.
func CleanSales(rows []extract.RawSale) ([]models.Sale, SalesCleanStats) {
	stats := SalesCleanStats{In: len(rows)}

	type working struct {
		raw       extract.RawSale
		orderDate *time.Time
	}

	parsed := make([]working, 0, len(rows))
	for _, raw := range rows {
		orderDate := parseDate(raw.OrderDate)
		if raw.OrderDate != nil && orderDate == nil {
			stats.InvalidOrderDates++
		}
		parsed = append(parsed, working{raw: raw, orderDate: orderDate})
	}

	seen := make(map[string]struct{}, len(parsed))
	cleaned := make([]models.Sale, 0, len(parsed))
	for _, row := range parsed {
		key := dedupKey(row.raw)
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		raw := row.raw
		if raw.OrderID == nil || raw.CustomerID == nil || row.orderDate == nil ||
			raw.Quantity == nil || raw.UnitPrice == nil {
			stats.MissingDropped++
			continue
		}

		category := defaultCategory
		if raw.Category != nil {
			category = *raw.Category
		} else {
			stats.CategoryDefaulted++
		}

		sale := models.Sale{
			OrderID:     *raw.OrderID,
			CustomerID:  *raw.CustomerID,
			ProductID:   deref(raw.ProductID),
			ProductName: deref(raw.ProductName),
			Quantity:    *raw.Quantity,
			UnitPrice:   *raw.UnitPrice,
			TotalPrice:  raw.UnitPrice.Mul(intDecimal(*raw.Quantity)),
			OrderDate:   *row.orderDate,
			Category:    category,
			Month:       row.orderDate.Format("2006-01"),
		}
		cleaned = append(cleaned, sale)
	}

	stats.Out = len(cleaned)
	return cleaned, stats
}

// dedupKey builds the duplicate-detection key over the raw values of
// (order_id, product_id, quantity, unit_price). Missing cells compare equal
// to each other, mirroring the upstream system; such rows are removed by the
// missing-field filter anyway.
func dedupKey(raw extract.RawSale) string {
	parts := make([]string, 0, 4)
	if raw.OrderID != nil {
		parts = append(parts, fmt.Sprintf("%d", *raw.OrderID))
	} else {
		parts = append(parts, "\x00")
	}
	if raw.ProductID != nil {
		parts = append(parts, *raw.ProductID)
	} else {
		parts = append(parts, "\x00")
	}
	if raw.Quantity != nil {
		parts = append(parts, fmt.Sprintf("%d", *raw.Quantity))
	} else {
		parts = append(parts, "\x00")
	}
	if raw.UnitPrice != nil {
		parts = append(parts, raw.UnitPrice.String())
	} else {
		parts = append(parts, "\x00")
	}
	return strings.Join(parts, "|")
}

func parseDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &parsed
		}
	}
	return nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// Package transform holds the pure cleaning and aggregation rules of the
// pipeline. Functions here never touch I/O and never fail on data quality:
// bad rows are dropped or defaulted and surfaced through stats counters.
package transform

import "github.com/shopspring/decimal"

func intDecimal(value int) decimal.Decimal {
	return decimal.NewFromInt(int64(value))
}

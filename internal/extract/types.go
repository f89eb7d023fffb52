package extract

import "github.com/shopspring/decimal"

// RawSale is one sales row as read from the source file. Nil means the cell
// was empty or failed numeric parsing; the cleaner decides what to do with it.
// OrderDate stays raw text because date parsing is a cleaning step.
type RawSale struct {
	OrderID     *int64
	CustomerID  *string
	ProductID   *string
	ProductName *string
	Quantity    *int
	UnitPrice   *decimal.Decimal
	OrderDate   *string
	Category    *string
}

// RawCustomer is one customer row as read from the source file.
type RawCustomer struct {
	CustomerID       *string
	CustomerName     *string
	Email            *string
	RegistrationDate *string
	Region           *string
}

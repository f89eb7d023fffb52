package extract

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/salesetl/pkg/errors"
)

// SalesRequiredColumns must all be present in the sales source header.
var SalesRequiredColumns = []string{
	"order_id",
	"customer_id",
	"product_id",
	"product_name",
	"quantity",
	"unit_price",
	"order_date",
	"category",
}

// CustomersRequiredColumns must all be present in the customers source header.
var CustomersRequiredColumns = []string{
	"customer_id",
	"customer_name",
	"email",
	"registration_date",
	"region",
}

// ReadSales reads the sales source file. A missing file, unparseable CSV, or
// missing required column is a structural error; cell-level problems are not.
func ReadSales(path string) ([]RawSale, error) {
	header, records, err := readCSV(path, SalesRequiredColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]RawSale, 0, len(records))
	for _, record := range records {
		cell := cellReader(header, record)
		rows = append(rows, RawSale{
			OrderID:     parseInt64(cell("order_id")),
			CustomerID:  cell("customer_id"),
			ProductID:   cell("product_id"),
			ProductName: cell("product_name"),
			Quantity:    parseInt(cell("quantity")),
			UnitPrice:   parseDecimal(cell("unit_price")),
			OrderDate:   cell("order_date"),
			Category:    cell("category"),
		})
	}
	return rows, nil
}

// ReadCustomers reads the customers source file.
func ReadCustomers(path string) ([]RawCustomer, error) {
	header, records, err := readCSV(path, CustomersRequiredColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]RawCustomer, 0, len(records))
	for _, record := range records {
		cell := cellReader(header, record)
		rows = append(rows, RawCustomer{
			CustomerID:       cell("customer_id"),
			CustomerName:     cell("customer_name"),
			Email:            cell("email"),
			RegistrationDate: cell("registration_date"),
			Region:           cell("region"),
		})
	}
	return rows, nil
}

func readCSV(path string, requiredColumns []string) (map[string]int, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeStructural, err, "opening source file "+path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeStructural, err, "reading csv "+path)
	}
	if len(records) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeStructural, "source file "+path+" is empty")
	}

	header := make(map[string]int, len(records[0]))
	for idx, name := range records[0] {
		header[strings.TrimSpace(name)] = idx
	}

	missing := []string{}
	for _, col := range requiredColumns {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, nil, pkgerrors.Newf(pkgerrors.CodeStructural,
			"source file %s missing required columns: %s", path, strings.Join(missing, ", ")).
			WithDetails(missing)
	}

	return header, records[1:], nil
}

// cellReader returns the named cell as a pointer, nil when the cell is empty.
func cellReader(header map[string]int, record []string) func(string) *string {
	return func(column string) *string {
		idx, ok := header[column]
		if !ok || idx >= len(record) {
			return nil
		}
		value := record[idx]
		if strings.TrimSpace(value) == "" {
			return nil
		}
		return &value
	}
}

func parseInt64(raw *string) *int64 {
	if raw == nil {
		return nil
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(*raw), 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseInt(raw *string) *int {
	parsed := parseInt64(raw)
	if parsed == nil {
		return nil
	}
	value := int(*parsed)
	return &value
}

func parseDecimal(raw *string) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	parsed, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return nil
	}
	return &parsed
}

package xlsx

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ImportSummary reports how a bulk import went. Skipped rows are the
// only diagnostic returned; one bad row never aborts the batch.
type ImportSummary struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

// CategoryRow is one parsed row of a category import. The code column
// is ignored on import; rows are matched by name.
type CategoryRow struct {
	Name string
}

type SupplierRow struct {
	Name          string
	MarginPercent float64
}

type ClientRow struct {
	Name    string
	Phone   string
	Address string
}

type ProductRow struct {
	Name            string
	PurchasePrice   float64
	SalePriceUSD    float64
	StockQty        int64
	InitialQty      int64
	AlertQty        int64
	ExpiryAlertDays int64
	ExpiryDate      *time.Time
	SupplierName    string
	CategoryName    string
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloatCell(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return strconv.ParseFloat(s, 64)
}

func parseIntCell(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	// excelize renders integer cells as bare numbers, but a float
	// format can sneak in ("10.0")
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), nil
	}
	return strconv.ParseInt(s, 10, 64)
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01-02-06",
	"2006-01-02 15:04:05",
}

func parseDateCell(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}

// ParseCategoryRow reads [code, name].
func ParseCategoryRow(row []string) (*CategoryRow, error) {
	name := cell(row, 1)
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	return &CategoryRow{Name: name}, nil
}

// ParseSupplierRow reads [code, name, margin]. A blank margin column is
// an error; a supplier without a margin cannot price products.
func ParseSupplierRow(row []string) (*SupplierRow, error) {
	name := cell(row, 1)
	if name == "" {
		return nil, fmt.Errorf("supplier name is required")
	}
	marginCell := cell(row, 2)
	if marginCell == "" {
		return nil, fmt.Errorf("supplier %q has no margin", name)
	}
	margin, err := parseFloatCell(marginCell)
	if err != nil {
		return nil, fmt.Errorf("supplier %q has invalid margin %q", name, marginCell)
	}
	if margin < 0 {
		return nil, fmt.Errorf("supplier %q has negative margin", name)
	}
	return &SupplierRow{Name: name, MarginPercent: margin}, nil
}

// ParseClientRow reads [code, name, phone, address].
func ParseClientRow(row []string) (*ClientRow, error) {
	name := cell(row, 1)
	if name == "" {
		return nil, fmt.Errorf("client name is required")
	}
	return &ClientRow{
		Name:    name,
		Phone:   cell(row, 2),
		Address: cell(row, 3),
	}, nil
}

// ParseProductRow reads the 11 product columns. Supplier and category
// are carried as names for the caller to resolve by lookup-or-create.
func ParseProductRow(row []string) (*ProductRow, error) {
	name := cell(row, 1)
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}

	p := &ProductRow{
		Name:         name,
		SupplierName: cell(row, 9),
		CategoryName: cell(row, 10),
	}
	if p.SupplierName == "" {
		return nil, fmt.Errorf("product %q has no supplier", name)
	}
	if p.CategoryName == "" {
		return nil, fmt.Errorf("product %q has no category", name)
	}

	var err error
	if p.PurchasePrice, err = parseFloatCell(cell(row, 2)); err != nil {
		return nil, fmt.Errorf("product %q has invalid purchase price: %v", name, err)
	}
	if usd := cell(row, 3); usd != "" {
		if p.SalePriceUSD, err = parseFloatCell(usd); err != nil {
			return nil, fmt.Errorf("product %q has invalid USD price: %v", name, err)
		}
	}
	if p.StockQty, err = parseIntCell(cell(row, 4)); err != nil {
		return nil, fmt.Errorf("product %q has invalid stock quantity: %v", name, err)
	}
	if p.InitialQty, err = parseIntCell(cell(row, 5)); err != nil {
		return nil, fmt.Errorf("product %q has invalid initial quantity: %v", name, err)
	}
	if p.AlertQty, err = parseIntCell(cell(row, 6)); err != nil {
		return nil, fmt.Errorf("product %q has invalid alert quantity: %v", name, err)
	}
	if p.ExpiryAlertDays, err = parseIntCell(cell(row, 7)); err != nil {
		return nil, fmt.Errorf("product %q has invalid expiry alert days: %v", name, err)
	}
	if p.ExpiryDate, err = parseDateCell(cell(row, 8)); err != nil {
		return nil, fmt.Errorf("product %q: %v", name, err)
	}
	return p, nil
}

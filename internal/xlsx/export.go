// Package xlsx builds Excel workbooks for entity exports and parses
// rows from uploaded workbooks for bulk imports. Parsing is tolerant:
// a malformed row yields an error for the caller to count, never an
// aborted batch.
package xlsx

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/FBNTech/ndosiphar/internal/models"
)

const dateLayout = "2006-01-02"

func writeRow(f *excelize.File, sheet string, rowIdx int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func newWorkbook(sheet string, header []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values); err != nil {
		return nil, fmt.Errorf("write header failed: %w", err)
	}
	return f, nil
}

func BuildCategoriesWorkbook(categories []models.Category) (*excelize.File, error) {
	f, err := newWorkbook("Categories", []string{"Code", "Name"})
	if err != nil {
		return nil, err
	}
	for i, c := range categories {
		if err := writeRow(f, "Categories", i+2, []interface{}{c.ID, c.Name}); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func BuildSuppliersWorkbook(suppliers []models.Supplier) (*excelize.File, error) {
	f, err := newWorkbook("Suppliers", []string{"Code", "Name", "Margin %"})
	if err != nil {
		return nil, err
	}
	for i, s := range suppliers {
		if err := writeRow(f, "Suppliers", i+2, []interface{}{s.ID, s.Name, s.MarginPercent}); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func BuildClientsWorkbook(clients []models.Client) (*excelize.File, error) {
	f, err := newWorkbook("Clients", []string{"Code", "Name", "Phone", "Address"})
	if err != nil {
		return nil, err
	}
	for i, c := range clients {
		if err := writeRow(f, "Clients", i+2, []interface{}{c.ID, c.Name, c.Phone, c.Address}); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func BuildProductsWorkbook(products []*models.Product) (*excelize.File, error) {
	f, err := newWorkbook("Products", []string{
		"Code", "Name", "Purchase Price", "Sale Price USD", "Stock Qty",
		"Initial Qty", "Alert Qty", "Expiry Alert Days", "Expiry Date",
		"Supplier", "Category",
	})
	if err != nil {
		return nil, err
	}
	for i, p := range products {
		expiry := ""
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.Format(dateLayout)
		}
		err := writeRow(f, "Products", i+2, []interface{}{
			p.ID, p.Name, p.PurchasePrice, p.SalePriceUSD, p.StockQty,
			p.InitialQty, p.AlertQty, p.ExpiryAlertDays, expiry,
			p.SupplierName, p.CategoryName,
		})
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// BuildSalesWorkbook writes sale headers on one sheet and every line
// item on a second, keyed by sale code.
func BuildSalesWorkbook(sales []*models.Sale) (*excelize.File, error) {
	f, err := newWorkbook("Sales", []string{
		"Code", "Date", "Client", "Seller", "Payment Mode", "Total", "Paid", "Settled",
	})
	if err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Lines"); err != nil {
		return nil, err
	}
	lineHeader := []interface{}{"Sale Code", "Product", "Quantity", "Unit Price", "Line Amount"}
	if err := writeRow(f, "Lines", 1, lineHeader); err != nil {
		return nil, err
	}

	lineIdx := 2
	for i, s := range sales {
		err := writeRow(f, "Sales", i+2, []interface{}{
			s.Reference, s.CreatedAt.Format(dateLayout), s.ClientName, s.SellerName,
			s.PaymentMode, s.Total, s.PaidAmount, strconv.FormatBool(s.IsSettled),
		})
		if err != nil {
			return nil, err
		}
		for _, ln := range s.Lines {
			err := writeRow(f, "Lines", lineIdx, []interface{}{
				s.Reference, ln.ProductName, ln.Quantity, ln.UnitPrice, ln.LineAmount,
			})
			if err != nil {
				return nil, err
			}
			lineIdx++
		}
	}
	return f, nil
}

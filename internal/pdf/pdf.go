// Package pdf renders sale invoices and date-range sales reports.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/FBNTech/ndosiphar/internal/models"
)

const dateLayout = "2006-01-02"

func header(doc *gofpdf.Fpdf, title string) {
	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, models.APPName)
	doc.Ln(8)
	doc.SetFont("Helvetica", "", 12)
	doc.Cell(0, 10, title)
	doc.Ln(12)
}

func lineTable(doc *gofpdf.Fpdf, lines []models.SaleLine) {
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(80, 8, "Product", "1", 0, "L", false, 0, "")
	doc.CellFormat(25, 8, "Qty", "1", 0, "R", false, 0, "")
	doc.CellFormat(40, 8, "Unit Price", "1", 0, "R", false, 0, "")
	doc.CellFormat(40, 8, "Amount", "1", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, ln := range lines {
		doc.CellFormat(80, 8, ln.ProductName, "1", 0, "L", false, 0, "")
		doc.CellFormat(25, 8, fmt.Sprintf("%d", ln.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(40, 8, fmt.Sprintf("%.2f", ln.UnitPrice), "1", 0, "R", false, 0, "")
		doc.CellFormat(40, 8, fmt.Sprintf("%.2f", ln.LineAmount), "1", 1, "R", false, 0, "")
	}
}

// BuildInvoice renders one sale as a PDF invoice.
func BuildInvoice(sale *models.Sale) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	header(doc, fmt.Sprintf("Invoice %s", sale.Reference))

	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, fmt.Sprintf("Date: %s", sale.CreatedAt.Format(dateLayout)))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Client: %s", sale.ClientName))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Seller: %s", sale.SellerName))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Payment: %s", sale.PaymentMode))
	doc.Ln(10)

	lineTable(doc, sale.Lines)

	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 11)
	doc.Cell(0, 8, fmt.Sprintf("Total: %.2f", sale.Total))
	doc.Ln(6)
	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, fmt.Sprintf("Paid: %.2f", sale.PaidAmount))
	if !sale.IsSettled {
		doc.Ln(6)
		doc.Cell(0, 6, fmt.Sprintf("Outstanding: %.2f", sale.Outstanding()))
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice failed: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildSalesReport renders all sales in [from, to] as one document,
// one block per sale, with a grand total at the end.
func BuildSalesReport(sales []*models.Sale, from, to time.Time) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	header(doc, fmt.Sprintf("Sales Report %s to %s", from.Format(dateLayout), to.Format(dateLayout)))

	var grandTotal float64
	doc.SetFont("Helvetica", "", 10)
	for _, s := range sales {
		doc.SetFont("Helvetica", "B", 10)
		doc.Cell(0, 7, fmt.Sprintf("Sale %s  %s  %s  (%s)", s.Reference, s.CreatedAt.Format(dateLayout), s.ClientName, s.SellerName))
		doc.Ln(8)
		lineTable(doc, s.Lines)
		doc.SetFont("Helvetica", "", 10)
		doc.Cell(0, 7, fmt.Sprintf("Sale total: %.2f  paid: %.2f", s.Total, s.PaidAmount))
		doc.Ln(10)
		grandTotal += s.Total
	}

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 8, fmt.Sprintf("Grand total (%d sales): %.2f", len(sales), grandTotal))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report failed: %w", err)
	}
	return buf.Bytes(), nil
}

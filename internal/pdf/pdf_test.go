package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/FBNTech/ndosiphar/internal/models"
)

func testSale() *models.Sale {
	return &models.Sale{
		ID:          42,
		Reference:   "0801QK3F",
		ClientName:  "Walk-in",
		SellerName:  "Amina",
		PaymentMode: models.PAYMENT_CREDIT,
		Total:       5000,
		PaidAmount:  3000,
		CreatedAt:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Lines: []models.SaleLine{
			{ProductName: "Paracetamol", Quantity: 4, UnitPrice: 120, LineAmount: 480},
		},
	}
}

func TestBuildInvoiceProducesPDF(t *testing.T) {
	out, err := BuildInvoice(testSale())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with PDF magic, got %q", out[:8])
	}
}

func TestBuildSalesReportProducesPDF(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	out, err := BuildSalesReport([]*models.Sale{testSale()}, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with PDF magic, got %q", out[:8])
	}
}

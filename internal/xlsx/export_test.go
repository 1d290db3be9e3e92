package xlsx

import (
	"testing"

	"github.com/FBNTech/ndosiphar/internal/models"
)

func TestBuildSuppliersWorkbook(t *testing.T) {
	suppliers := []models.Supplier{
		{ID: 1, Name: "Pharma Dist", MarginPercent: 20},
		{ID: 2, Name: "Medico", MarginPercent: 12.5},
	}

	f, err := BuildSuppliersWorkbook(suppliers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Suppliers")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3 (header + 2)", len(rows))
	}
	if rows[0][1] != "Name" {
		t.Errorf("header = %q, want Name", rows[0][1])
	}
	if rows[1][1] != "Pharma Dist" {
		t.Errorf("first supplier = %q, want Pharma Dist", rows[1][1])
	}
}

func TestBuildSalesWorkbookHasLinesSheet(t *testing.T) {
	sales := []*models.Sale{
		{
			ID: 7, Reference: "0801QK3F", ClientName: "Walk-in", SellerName: "Amina",
			PaymentMode: models.PAYMENT_CASH, Total: 480, PaidAmount: 480, IsSettled: true,
			Lines: []models.SaleLine{
				{ProductName: "Paracetamol", Quantity: 4, UnitPrice: 120, LineAmount: 480},
			},
		},
	}

	f, err := BuildSalesWorkbook(sales)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	header, err := f.GetRows("Sales")
	if err != nil {
		t.Fatalf("read sales sheet: %v", err)
	}
	if header[1][0] != "0801QK3F" {
		t.Errorf("sale code = %q, want the sale reference", header[1][0])
	}

	lines, err := f.GetRows("Lines")
	if err != nil {
		t.Fatalf("read lines sheet: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("line row count = %d, want 2", len(lines))
	}
	if lines[1][0] != "0801QK3F" {
		t.Errorf("line sale code = %q, want the sale reference", lines[1][0])
	}
	if lines[1][1] != "Paracetamol" {
		t.Errorf("line product = %q, want Paracetamol", lines[1][1])
	}
}

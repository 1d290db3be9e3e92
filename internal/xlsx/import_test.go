package xlsx

import (
	"testing"
	"time"
)

func TestParseSupplierRowBlankMarginSkipped(t *testing.T) {
	_, err := ParseSupplierRow([]string{"1", "Pharma Dist", ""})
	if err == nil {
		t.Fatal("expected error for blank margin, got none")
	}
}

func TestParseSupplierRow(t *testing.T) {
	tests := []struct {
		name    string
		row     []string
		margin  float64
		wantErr bool
	}{
		{"valid", []string{"1", "Pharma Dist", "20"}, 20, false},
		{"decimal margin", []string{"2", "Medico", "12.5"}, 12.5, false},
		{"missing name", []string{"3", "", "10"}, 0, true},
		{"garbage margin", []string{"4", "Medico", "abc"}, 0, true},
		{"negative margin", []string{"5", "Medico", "-5"}, 0, true},
		{"short row", []string{"6", "Medico"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSupplierRow(tt.row)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.MarginPercent != tt.margin {
				t.Errorf("margin = %v, want %v", got.MarginPercent, tt.margin)
			}
		})
	}
}

func TestParseProductRow(t *testing.T) {
	row := []string{"1", "Paracetamol", "100", "", "10", "10", "5", "30", "2026-12-31", "Pharma Dist", "Painkillers"}
	p, err := ParseProductRow(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PurchasePrice != 100 {
		t.Errorf("purchase price = %v, want 100", p.PurchasePrice)
	}
	if p.StockQty != 10 || p.InitialQty != 10 {
		t.Errorf("quantities = %d/%d, want 10/10", p.StockQty, p.InitialQty)
	}
	if p.ExpiryDate == nil || p.ExpiryDate.Format("2006-01-02") != "2026-12-31" {
		t.Errorf("expiry date = %v, want 2026-12-31", p.ExpiryDate)
	}
	if p.SupplierName != "Pharma Dist" || p.CategoryName != "Painkillers" {
		t.Errorf("supplier/category = %q/%q", p.SupplierName, p.CategoryName)
	}
}

func TestParseProductRowMissingSupplier(t *testing.T) {
	row := []string{"1", "Paracetamol", "100", "", "10", "10", "5", "30", "", "", "Painkillers"}
	if _, err := ParseProductRow(row); err == nil {
		t.Fatal("expected error for missing supplier, got none")
	}
}

func TestParseDateCellFormats(t *testing.T) {
	want := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2026-12-31", "31/12/2026"} {
		got, err := parseDateCell(s)
		if err != nil {
			t.Fatalf("parseDateCell(%q): %v", s, err)
		}
		if !got.Equal(want) {
			t.Errorf("parseDateCell(%q) = %v, want %v", s, got, want)
		}
	}

	if got, err := parseDateCell(""); err != nil || got != nil {
		t.Errorf("blank date should parse to nil, got %v, %v", got, err)
	}
	if _, err := parseDateCell("not a date"); err == nil {
		t.Error("expected error for unparseable date")
	}
}

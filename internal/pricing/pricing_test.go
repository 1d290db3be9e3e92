package pricing

import (
	"testing"

	"github.com/FBNTech/ndosiphar/internal/models"
)

func TestMarginPrice(t *testing.T) {
	tests := []struct {
		name     string
		purchase float64
		margin   float64
		want     float64
	}{
		{"twenty percent markup", 100, 20, 120},
		{"zero margin", 100, 0, 100},
		{"fractional result rounds to 2dp", 33.33, 10, 36.66},
		{"large wholesale price", 12500, 15, 14375},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarginPrice(tt.purchase, tt.margin)
			if got != tt.want {
				t.Errorf("MarginPrice(%v, %v) = %v, want %v", tt.purchase, tt.margin, got, tt.want)
			}
		})
	}
}

func TestSalePriceUsesMarginWithoutUSDPrice(t *testing.T) {
	p := &models.Product{PurchasePrice: 100, MarginPercent: 20}
	rate := &models.ExchangeRate{CurrencyCode: "USD", FCAmount: 2850}

	if got := SalePrice(p, rate); got != 120 {
		t.Errorf("SalePrice = %v, want 120", got)
	}
	if got := SalePrice(p, nil); got != 120 {
		t.Errorf("SalePrice without rate = %v, want 120", got)
	}
}

func TestSalePriceUSDDerivation(t *testing.T) {
	p := &models.Product{PurchasePrice: 100, MarginPercent: 20, SalePriceUSD: 1.5}
	rate := &models.ExchangeRate{CurrencyCode: "USD", FCAmount: 2850}

	if got := SalePrice(p, rate); got != 4275 {
		t.Errorf("SalePrice = %v, want 4275", got)
	}

	// without a usable rate the margin derivation applies
	if got := SalePrice(p, nil); got != 120 {
		t.Errorf("SalePrice without rate = %v, want 120", got)
	}
	if got := SalePrice(p, &models.ExchangeRate{CurrencyCode: "USD"}); got != 120 {
		t.Errorf("SalePrice with zero rate = %v, want 120", got)
	}
}

// computing the price twice without intervening changes yields the same value
func TestSalePriceIdempotent(t *testing.T) {
	p := &models.Product{PurchasePrice: 733.37, MarginPercent: 17.5}
	first := SalePrice(p, nil)
	second := SalePrice(p, nil)
	if first != second {
		t.Errorf("SalePrice not stable: %v then %v", first, second)
	}
}

func TestLineAmount(t *testing.T) {
	// Paracetamol scenario: purchase 100, margin 20% => 120; qty 4 => 480
	p := &models.Product{PurchasePrice: 100, MarginPercent: 20}
	unit := SalePrice(p, nil)
	if got := LineAmount(4, unit); got != 480 {
		t.Errorf("LineAmount(4, %v) = %v, want 480", unit, got)
	}

	// no float drift on repeated cents
	if got := LineAmount(3, 0.1); got != 0.3 {
		t.Errorf("LineAmount(3, 0.1) = %v, want 0.3", got)
	}
}

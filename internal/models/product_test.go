package models

import (
	"errors"
	"testing"
)

func TestProductDeductBoundary(t *testing.T) {
	t.Run("full stock is allowed and leaves zero", func(t *testing.T) {
		p := Product{Name: "Paracetamol", StockQty: 10}
		if err := p.Deduct(10); err != nil {
			t.Fatalf("Deduct(10) on stock 10: %v", err)
		}
		if p.StockQty != 0 {
			t.Errorf("stock after full deduction = %d, want 0", p.StockQty)
		}
	})

	t.Run("one past stock is rejected without mutation", func(t *testing.T) {
		p := Product{Name: "Paracetamol", StockQty: 10}
		err := p.Deduct(11)
		if !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("Deduct(11) on stock 10 = %v, want ErrInsufficientStock", err)
		}
		if p.StockQty != 10 {
			t.Errorf("rejected deduction mutated stock: %d", p.StockQty)
		}
	})

	t.Run("zero and negative quantities are rejected", func(t *testing.T) {
		for _, qty := range []int64{0, -3} {
			p := Product{Name: "Paracetamol", StockQty: 10}
			err := p.Deduct(qty)
			if !errors.Is(err, ErrInvalidQuantity) {
				t.Errorf("Deduct(%d) = %v, want ErrInvalidQuantity", qty, err)
			}
			if p.StockQty != 10 {
				t.Errorf("Deduct(%d) mutated stock: %d", qty, p.StockQty)
			}
		}
	})
}

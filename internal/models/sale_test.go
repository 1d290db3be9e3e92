package models

import (
	"errors"
	"testing"
)

func TestApplyPaymentCreditLadder(t *testing.T) {
	sale := Sale{Total: 5000, PaymentMode: PAYMENT_CREDIT}

	if err := sale.ApplyPayment(3000); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if sale.Outstanding() != 2000 {
		t.Errorf("outstanding after 3000 = %v, want 2000", sale.Outstanding())
	}
	if sale.IsSettled {
		t.Error("sale settled with balance remaining")
	}

	if err := sale.ApplyPayment(2000); err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if !sale.IsSettled {
		t.Error("sale not settled after paying off the balance")
	}
	if sale.Outstanding() != 0 {
		t.Errorf("outstanding after settlement = %v, want 0", sale.Outstanding())
	}

	err := sale.ApplyPayment(1)
	if !errors.Is(err, ErrPaymentOutOfRange) {
		t.Errorf("payment past settlement: got %v, want ErrPaymentOutOfRange", err)
	}
	if sale.PaidAmount != 5000 {
		t.Errorf("rejected payment mutated paid amount: %v", sale.PaidAmount)
	}
}

func TestApplyPaymentRejectsBadAmounts(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
	}{
		{"zero", 0},
		{"negative", -50},
		{"over balance", 1500.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := Sale{Total: 1500, PaymentMode: PAYMENT_CREDIT}
			err := sale.ApplyPayment(tt.amount)
			if !errors.Is(err, ErrPaymentOutOfRange) {
				t.Fatalf("ApplyPayment(%v) = %v, want ErrPaymentOutOfRange", tt.amount, err)
			}
			if sale.PaidAmount != 0 || sale.IsSettled {
				t.Errorf("rejected payment changed the sale: paid %v settled %v", sale.PaidAmount, sale.IsSettled)
			}
		})
	}
}

func TestSaleOutstanding(t *testing.T) {
	tests := []struct {
		name string
		sale Sale
		want float64
	}{
		{"fresh credit sale", Sale{Total: 5000, PaidAmount: 0}, 5000},
		{"partial payment", Sale{Total: 5000, PaidAmount: 3000}, 2000},
		{"settled", Sale{Total: 5000, PaidAmount: 5000, IsSettled: true}, 0},
		{"cash sale paid in full", Sale{Total: 120, PaidAmount: 120, IsSettled: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sale.Outstanding(); got != tt.want {
				t.Errorf("Outstanding() = %v, want %v", got, tt.want)
			}
		})
	}
}

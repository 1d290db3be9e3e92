package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/FBNTech/ndosiphar/internal/dbrepo"
)

func TestClientFault(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"empty sale", dbrepo.ErrEmptySale, true},
		{"invalid payload", fmt.Errorf("%w: unknown payment mode %q", dbrepo.ErrInvalidSale, "barter"), true},
		{"invalid quantity", fmt.Errorf("%w 0 for Aspirin", dbrepo.ErrInvalidQuantity), true},
		{"insufficient stock", fmt.Errorf("%w for Aspirin (available: 2)", dbrepo.ErrInsufficientStock), true},
		{"payment out of range", dbrepo.ErrPaymentOutOfRange, true},
		{"unexpected repo error", errors.New("commit sale failed: connection reset"), false},
		{"not found stays separate", dbrepo.ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clientFault(tt.err); got != tt.want {
				t.Errorf("clientFault(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

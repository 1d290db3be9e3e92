package dbrepo

import (
	"context"
	"errors"
	"testing"

	"github.com/FBNTech/ndosiphar/internal/models"
)

func TestCreateSaleValidatesRequest(t *testing.T) {
	repo := NewSaleRepo(nil)
	seller := &models.JWT{ID: 1, Name: "Amina"}
	oneLine := []models.SaleLineRequest{{ProductID: 1, Quantity: 2}}

	tests := []struct {
		name string
		req  models.SaleRequest
		want error
	}{
		{
			"no lines",
			models.SaleRequest{PaymentMode: models.PAYMENT_CASH},
			ErrEmptySale,
		},
		{
			"unknown payment mode",
			models.SaleRequest{PaymentMode: "barter", Lines: oneLine},
			ErrInvalidSale,
		},
		{
			"unknown sale type",
			models.SaleRequest{SaleType: "bulk", PaymentMode: models.PAYMENT_CASH, Lines: oneLine},
			ErrInvalidSale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.CreateSale(context.Background(), &tt.req, seller)
			if !errors.Is(err, tt.want) {
				t.Errorf("CreateSale() error = %v, want %v", err, tt.want)
			}
		})
	}
}

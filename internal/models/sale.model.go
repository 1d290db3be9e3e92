package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrPaymentOutOfRange is returned when a credit payment is not positive
// or exceeds the outstanding balance.
var ErrPaymentOutOfRange = errors.New("payment amount out of range")

// SaleRequest is the checkout payload. Either ClientID points at an
// existing client or the NewClient* fields create one on the fly.
type SaleRequest struct {
	ClientID         int64  `json:"client_id"`
	NewClientName    string `json:"new_client_name"`
	NewClientPhone   string `json:"new_client_phone"`
	NewClientAddress string `json:"new_client_address"`

	SaleType    string `json:"sale_type"`    // retail, wholesale
	PaymentMode string `json:"payment_mode"` // cash, credit
	Note        string `json:"note"`

	Lines []SaleLineRequest `json:"lines"`
}

type SaleLineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// Sale is a sale header together with its lines
type Sale struct {
	ID         int64  `json:"id"`
	Reference  string `json:"reference"`
	ClientID   *int64 `json:"client_id,omitempty"`
	ClientName string `json:"client_name,omitempty"`
	SellerID   int64  `json:"seller_id"`
	SellerName string `json:"seller_name,omitempty"`

	SaleType    string `json:"sale_type"`
	PaymentMode string `json:"payment_mode"`

	Total      float64 `json:"total"`
	PaidAmount float64 `json:"paid_amount"`
	IsSettled  bool    `json:"is_settled"`
	Note       string  `json:"note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Lines []SaleLine `json:"lines,omitempty"`
}

type SaleLine struct {
	ID          int64  `json:"id"`
	SaleID      int64  `json:"sale_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`

	Quantity   int64   `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	LineAmount float64 `json:"line_amount"`
}

// SaleResult carries the outcome of a checkout: the persisted sale plus
// per-line warnings for requests skipped on insufficient stock.
type SaleResult struct {
	Sale     *Sale    `json:"sale"`
	Warnings []string `json:"warnings,omitempty"`
}

// Outstanding returns the unpaid balance of the sale.
func (s *Sale) Outstanding() float64 {
	return s.Total - s.PaidAmount
}

// ApplyPayment records a payment against the outstanding balance. The
// amount must be positive and no more than what is still owed; a
// rejected payment leaves the sale untouched. Paying off the balance
// marks the sale settled, and a settled sale never reverts here.
func (s *Sale) ApplyPayment(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrPaymentOutOfRange)
	}
	if outstanding := s.Outstanding(); amount > outstanding {
		return fmt.Errorf("%w: %.2f exceeds outstanding balance of %.2f", ErrPaymentOutOfRange, amount, outstanding)
	}
	s.PaidAmount += amount
	if s.PaidAmount >= s.Total {
		s.IsSettled = true
	}
	return nil
}

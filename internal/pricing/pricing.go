// Package pricing derives a product's sale price. The price is a pure
// function of the product's purchase price, the supplier margin and, when
// the product carries a USD list price, the active USD exchange rate.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/FBNTech/ndosiphar/internal/models"
)

var hundred = decimal.NewFromInt(100)

// SalePrice computes the unit sale price in local currency, rounded to
// two decimal places.
//
// Default derivation: purchase_price * (1 + margin/100).
// When the product has a positive USD sale price and a usable rate is
// supplied, the price is sale_price_usd * rate.fc_amount instead.
func SalePrice(p *models.Product, rate *models.ExchangeRate) float64 {
	if p.SalePriceUSD > 0 && rate != nil && rate.FCAmount > 0 {
		usd := decimal.NewFromFloat(p.SalePriceUSD)
		fc := decimal.NewFromFloat(rate.FCAmount)
		price, _ := usd.Mul(fc).Round(2).Float64()
		return price
	}
	return MarginPrice(p.PurchasePrice, p.MarginPercent)
}

// MarginPrice applies a percentage markup to a purchase price.
func MarginPrice(purchasePrice, marginPercent float64) float64 {
	purchase := decimal.NewFromFloat(purchasePrice)
	margin := decimal.NewFromFloat(marginPercent)
	price, _ := purchase.Add(purchase.Mul(margin).Div(hundred)).Round(2).Float64()
	return price
}

// LineAmount computes quantity * unit price, rounded to two decimal places.
func LineAmount(quantity int64, unitPrice float64) float64 {
	amount, _ := decimal.NewFromInt(quantity).Mul(decimal.NewFromFloat(unitPrice)).Round(2).Float64()
	return amount
}

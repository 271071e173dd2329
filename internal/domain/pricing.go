package domain

import "github.com/shopspring/decimal"

var (
	// TaxRate is applied to the subtotal of every order.
	TaxRate = decimal.RequireFromString("0.08")
	// ShippingCost is flat: shipping is free.
	ShippingCost = decimal.Zero
)

type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals returns subtotal = sum(price x quantity), tax = round(subtotal x 8%, 2)
// and total = subtotal + shipping + tax.
func ComputeTotals(items []OrderItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	tax := subtotal.Mul(TaxRate).Round(2)

	return Totals{
		Subtotal: subtotal,
		Shipping: ShippingCost,
		Tax:      tax,
		Total:    subtotal.Add(ShippingCost).Add(tax),
	}
}

package domain

import "github.com/shopspring/decimal"

// CartLine is one (product, quantity, unit price) entry of a cart snapshot.
type CartLine struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type PaymentCallbackRequest struct {
	OrderID         string          `json:"orderId"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	Gateway         string          `json:"gateway"`
	TransactionHash string          `json:"transactionHash"`
	GatewayResponse json.RawMessage `json:"gatewayResponse"`
}

type PaymentDTO struct {
	ID              int64     `json:"id"`
	OrderID         int64     `json:"orderId"`
	Amount          string    `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	Gateway         string    `json:"gateway"`
	TransactionHash string    `json:"transactionHash"`
	CreatedAt       time.Time `json:"createdAt"`
}

func NewPaymentDTO(p domain.Payment) PaymentDTO {
	return PaymentDTO{
		ID:              p.ID,
		OrderID:         p.OrderID,
		Amount:          p.Amount.String(),
		Currency:        p.Currency,
		Status:          string(p.Status),
		Gateway:         p.Gateway,
		TransactionHash: p.TransactionHash,
		CreatedAt:       p.CreatedAt,
	}
}

type PaymentCallbackResponse struct {
	Payment     PaymentDTO `json:"payment"`
	OrderStatus string     `json:"orderStatus"`
	Duplicate   bool       `json:"duplicate"`
	Underpaid   bool       `json:"underpaid"`
}

// PaymentRecordedEvent is published after a gateway callback commits.
type PaymentRecordedEvent struct {
	OrderNumber     string `json:"orderNumber"`
	TransactionHash string `json:"transactionHash"`
	Status          string `json:"status"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
}

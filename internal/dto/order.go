package dto

import (
	"time"

	"storefront/internal/domain"
)

type CreateOrderRequest struct {
	Items           []CartItemRequest   `json:"items"`
	ShippingAddress *ShippingAddressDTO `json:"shippingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
}

type CartItemRequest struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type ShippingAddressDTO struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

func (a ShippingAddressDTO) ToDomain() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName:     a.FullName,
		Email:        a.Email,
		Phone:        a.Phone,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
	}
}

func NewShippingAddressDTO(a domain.ShippingAddress) ShippingAddressDTO {
	return ShippingAddressDTO{
		FullName:     a.FullName,
		Email:        a.Email,
		Phone:        a.Phone,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
	}
}

type OrderDTO struct {
	ID            int64     `json:"id"`
	OrderNumber   string    `json:"orderNumber"`
	UserID        *int64    `json:"userId"`
	Status        string    `json:"status"`
	Subtotal      float64   `json:"subtotal"`
	ShippingCost  float64   `json:"shippingCost"`
	Tax           float64   `json:"tax"`
	Total         float64   `json:"total"`
	PaymentMethod string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewOrderDTO(o domain.Order) OrderDTO {
	return OrderDTO{
		ID:            o.ID,
		OrderNumber:   o.Number,
		UserID:        o.UserID,
		Status:        string(o.Status),
		Subtotal:      o.Subtotal.InexactFloat64(),
		ShippingCost:  o.ShippingCost.InexactFloat64(),
		Tax:           o.Tax.InexactFloat64(),
		Total:         o.Total.InexactFloat64(),
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

type OrderItemDTO struct {
	ID          int64   `json:"id"`
	ProductID   *int64  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type CreateOrderResponse struct {
	Order              OrderDTO            `json:"order"`
	Items              []OrderItemDTO      `json:"items"`
	ShippingAddress    *ShippingAddressDTO `json:"shippingAddress,omitempty"`
	PaymentRedirectURL string              `json:"paymentRedirectUrl"`
	Message            string              `json:"message"`
}

// CreateOrderResult is what the order workflow hands back to its controller.
type CreateOrderResult struct {
	Order              domain.Order
	Items              []domain.OrderItem
	ShippingAddress    *domain.ShippingAddress
	PaymentRedirectURL string
}

func NewCreateOrderResponse(r *CreateOrderResult) CreateOrderResponse {
	items := make([]OrderItemDTO, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, OrderItemDTO{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price.InexactFloat64(),
		})
	}

	resp := CreateOrderResponse{
		Order:              NewOrderDTO(r.Order),
		Items:              items,
		PaymentRedirectURL: r.PaymentRedirectURL,
		Message:            "order created, redirecting to payment",
	}
	if r.ShippingAddress != nil {
		addr := NewShippingAddressDTO(*r.ShippingAddress)
		resp.ShippingAddress = &addr
	}
	return resp
}

// OrderRowDTO is one denormalised row: order columns, one item, repeated shipping columns.
type OrderRowDTO struct {
	OrderDTO
	ItemID          *int64              `json:"itemId"`
	ProductID       *int64              `json:"productId"`
	ProductName     *string             `json:"productName"`
	Quantity        *int                `json:"quantity"`
	ItemPrice       *float64            `json:"itemPrice"`
	ShippingAddress *ShippingAddressDTO `json:"shippingAddress"`
}

func NewOrderRowDTOs(rows []domain.OrderDetailRow) []OrderRowDTO {
	out := make([]OrderRowDTO, 0, len(rows))
	for _, r := range rows {
		row := OrderRowDTO{OrderDTO: NewOrderDTO(r.Order)}
		if r.Item != nil {
			price := r.Item.Price.InexactFloat64()
			name := r.Item.ProductName
			qty := r.Item.Quantity
			id := r.Item.ID
			row.ItemID = &id
			row.ProductID = r.Item.ProductID
			row.ProductName = &name
			row.Quantity = &qty
			row.ItemPrice = &price
		}
		if r.Address != nil {
			addr := NewShippingAddressDTO(*r.Address)
			row.ShippingAddress = &addr
		}
		out = append(out, row)
	}
	return out
}

// OrderCreatedEvent is published after an order commits.
type OrderCreatedEvent struct {
	OrderNumber   string    `json:"orderNumber"`
	Status        string    `json:"status"`
	Total         string    `json:"total"`
	ItemCount     int       `json:"itemCount"`
	PaymentMethod string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
}

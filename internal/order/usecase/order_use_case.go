package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/kafka"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/order/service"
)

type ProductCatalog interface {
	GetProductsByIDs(ctx context.Context, ids []int64) (found []domain.Product, notFoundIDs []int64, err error)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, order domain.Order, items []domain.OrderItem, address *domain.ShippingAddress) (*service.PlacedOrder, error)
	UpdateStatus(ctx context.Context, number string, next domain.OrderStatus) (*domain.Order, error)
	ListOrderRows(ctx context.Context, number string) ([]domain.OrderDetailRow, error)
}

type RedirectBuilder interface {
	RedirectURL(total decimal.Decimal, orderNumber, paymentMethod string) string
}

type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, payload interface{}) error
}

type Metrics interface {
	OrderCreated()
}

type OrderUseCase struct {
	catalog          ProductCatalog
	orders           OrderService
	redirects        RedirectBuilder
	publisher        EventPublisher
	metrics          Metrics
	logger           *zap.Logger
	maxRetryAttempts int

	newNumber func() string
	backoff   func(attempt int) time.Duration
}

func NewOrderUseCase(
	catalog ProductCatalog,
	orders OrderService,
	redirects RedirectBuilder,
	publisher EventPublisher,
	metrics Metrics,
	logger *zap.Logger,
	maxRetryAttempts int,
) *OrderUseCase {
	return &OrderUseCase{
		catalog:          catalog,
		orders:           orders,
		redirects:        redirects,
		publisher:        publisher,
		metrics:          metrics,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
		newNumber:        NewOrderNumber,
		backoff:          jitteredBackoff,
	}
}

func NewOrderNumber() string {
	return "ORD-" + uuid.NewString()
}

// CreateOrder prices the cart against the catalog, persists the order and returns the
// payment redirect for it.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.CreateOrderResult, error) {
	ctx, span := otel.Tracer("storefront").Start(ctx, "order.CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.Int("order.lines", len(req.Items)))

	items, err := uc.priceItems(ctx, req.Items)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	totals := domain.ComputeTotals(items)

	var address *domain.ShippingAddress
	if req.ShippingAddress != nil {
		a := req.ShippingAddress.ToDomain()
		address = &a
	}

	placed, err := uc.placeWithRetry(ctx, totals, items, address, req.PaymentMethod)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("order.number", placed.Order.Number))

	uc.metrics.OrderCreated()
	uc.publishCreated(ctx, placed)

	return &dto.CreateOrderResult{
		Order:              placed.Order,
		Items:              placed.Items,
		ShippingAddress:    placed.ShippingAddress,
		PaymentRedirectURL: uc.redirects.RedirectURL(placed.Order.Total, placed.Order.Number, placed.Order.PaymentMethod),
	}, nil
}

// priceItems replaces client-sent names and prices with the catalog's. Unknown and
// inactive products are validation errors, out-of-stock products a conflict.
func (uc *OrderUseCase) priceItems(ctx context.Context, lines []dto.CartItemRequest) ([]domain.OrderItem, error) {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	found, _, err := uc.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	var (
		invalid    []apperrors.ValidationDetail
		outOfStock []apperrors.ValidationDetail
		items      = make([]domain.OrderItem, 0, len(lines))
	)
	for idx, line := range lines {
		field := fmt.Sprintf("items[%d].productId", idx)
		p, ok := byID[line.ProductID]
		switch {
		case !ok:
			invalid = append(invalid, apperrors.ValidationDetail{Field: field, Message: fmt.Sprintf("product %d not found", line.ProductID)})
			continue
		case !p.IsActive():
			invalid = append(invalid, apperrors.ValidationDetail{Field: field, Message: fmt.Sprintf("product %d is not available", line.ProductID)})
			continue
		case !p.InStock:
			outOfStock = append(outOfStock, apperrors.ValidationDetail{Field: field, Message: fmt.Sprintf("product %d is out of stock", line.ProductID)})
			continue
		}

		if line.Price > 0 && !decimal.NewFromFloat(line.Price).Equal(p.Price) {
			uc.logger.Warn("client price differs from catalog price",
				zap.Int64("productId", p.ID),
				zap.Float64("clientPrice", line.Price),
				zap.String("catalogPrice", p.Price.String()),
			)
		}

		productID := p.ID
		items = append(items, domain.OrderItem{
			ProductID:   &productID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			Price:       p.Price,
		})
	}

	if len(invalid) > 0 {
		return nil, apperrors.NewValidationError("invalid order items", invalid...)
	}
	if len(outOfStock) > 0 {
		return nil, apperrors.NewConflictError("some products are out of stock", outOfStock...)
	}
	return items, nil
}

func (uc *OrderUseCase) placeWithRetry(
	ctx context.Context,
	totals domain.Totals,
	items []domain.OrderItem,
	address *domain.ShippingAddress,
	paymentMethod string,
) (*service.PlacedOrder, error) {
	var lastErr error
	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		now := time.Now().UTC()
		order := domain.Order{
			Number:        uc.newNumber(),
			Status:        domain.OrderStatusPending,
			Subtotal:      totals.Subtotal,
			ShippingCost:  totals.Shipping,
			Tax:           totals.Tax,
			Total:         totals.Total,
			PaymentMethod: paymentMethod,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		placed, err := uc.orders.PlaceOrder(ctx, order, items, address)
		if err == nil {
			return placed, nil
		}
		lastErr = err

		switch {
		case mysql.IsDuplicateKey(err):
			uc.logger.Warn("order number collision, regenerating", zap.Int("attempt", attempt), zap.String("orderNumber", order.Number))
			continue
		case mysql.IsDeadlock(err):
			if attempt < uc.maxRetryAttempts {
				uc.logger.Warn("deadlock detected, retrying", zap.Int("attempt", attempt), zap.Int("maxAttempts", uc.maxRetryAttempts))
				select {
				case <-time.After(uc.backoff(attempt)):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				continue
			}
		default:
			return nil, err
		}
	}

	if mysql.IsDeadlock(lastErr) {
		return nil, apperrors.NewDeadlockError("max retries exceeded")
	}
	return nil, apperrors.NewInternalError("could not allocate an order number", lastErr)
}

func (uc *OrderUseCase) publishCreated(ctx context.Context, placed *service.PlacedOrder) {
	event := dto.OrderCreatedEvent{
		OrderNumber:   placed.Order.Number,
		Status:        string(placed.Order.Status),
		Total:         placed.Order.Total.StringFixed(2),
		ItemCount:     len(placed.Items),
		PaymentMethod: placed.Order.PaymentMethod,
		CreatedAt:     placed.Order.CreatedAt,
	}
	if err := uc.publisher.Publish(ctx, placed.Order.Number, kafka.EventOrderCreated, event); err != nil {
		uc.logger.Warn("failed to publish order event", zap.String("orderNumber", placed.Order.Number), zap.Error(err))
	}
}

func (uc *OrderUseCase) ListOrders(ctx context.Context) ([]domain.OrderDetailRow, error) {
	return uc.orders.ListOrderRows(ctx, "")
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, number string) ([]domain.OrderDetailRow, error) {
	return uc.orders.ListOrderRows(ctx, number)
}

func (uc *OrderUseCase) UpdateStatus(ctx context.Context, number string, status domain.OrderStatus) (*domain.Order, error) {
	return uc.orders.UpdateStatus(ctx, number, status)
}

// jitteredBackoff waits 100ms, 200ms, 400ms... with +-20% jitter.
func jitteredBackoff(attempt int) time.Duration {
	base := 100 * time.Millisecond << (attempt - 1)
	jitter := 0.8 + rand.Float64()*0.4
	return time.Duration(float64(base) * jitter)
}

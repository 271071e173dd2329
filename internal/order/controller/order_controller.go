package controller

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/httpx"
)

const (
	maxItems    = 100
	maxQuantity = 10000
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.CreateOrderResult, error)
	ListOrders(ctx context.Context) ([]domain.OrderDetailRow, error)
	GetOrder(ctx context.Context, number string) ([]domain.OrderDetailRow, error)
}

type OrderController struct {
	useCase OrderUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase OrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderController) Routes(r chi.Router) {
	r.Get("/orders", c.ListOrders)
	r.Post("/orders", c.CreateOrder)
	r.Get("/orders/{orderNumber}", c.GetOrder)
}

// CreateOrder places an order from the cart lines in the body. Every line
// must reference a catalog product by productId; name and price are display
// hints only and the stored price comes from the catalog. A line without a
// positive productId is rejected with 400 VALIDATION_ERROR before the use
// case runs.
func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("requestId", middleware.GetReqID(r.Context())))

	var req dto.CreateOrderRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		httpx.WriteError(w, r, c.logger, err)
		return
	}

	if err := validateCreateOrderRequest(req); err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}

	result, err := c.useCase.CreateOrder(r.Context(), req)
	if err != nil {
		logger.Warn("create order failed", zap.Error(err))
		httpx.WriteError(w, r, c.logger, err)
		return
	}

	logger.Info("order created",
		zap.String("orderNumber", result.Order.Number),
		zap.String("total", result.Order.Total.StringFixed(2)),
	)
	httpx.WriteJSON(w, c.logger, http.StatusCreated, dto.NewCreateOrderResponse(result))
}

func (c *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := c.useCase.ListOrders(r.Context())
	if err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}
	httpx.WriteJSON(w, c.logger, http.StatusOK, dto.Response{Success: true, Data: dto.NewOrderRowDTOs(rows)})
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	rows, err := c.useCase.GetOrder(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}
	httpx.WriteJSON(w, c.logger, http.StatusOK, dto.Response{Success: true, Data: dto.NewOrderRowDTOs(rows)})
}

func validateCreateOrderRequest(req dto.CreateOrderRequest) error {
	var details []apperrors.ValidationDetail

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > maxItems {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of 100",
		})
	}

	seen := make(map[int64]bool)
	for idx, item := range req.Items {
		prefix := "items[" + strconv.Itoa(idx) + "]"

		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".productId",
				Message: "each productId must be a positive integer",
			})
		} else if seen[item.ProductID] {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".productId",
				Message: "productId must not be duplicated",
			})
		}
		seen[item.ProductID] = true

		if item.Quantity < 1 || item.Quantity > maxQuantity {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".quantity",
				Message: "quantity must be between 1 and 10000",
			})
		}

		if item.Price < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".price",
				Message: "price must be non-negative",
			})
		}
	}

	if a := req.ShippingAddress; a != nil {
		required := []struct{ field, value string }{
			{"fullName", a.FullName},
			{"addressLine1", a.AddressLine1},
			{"city", a.City},
			{"postalCode", a.PostalCode},
			{"country", a.Country},
		}
		for _, f := range required {
			if strings.TrimSpace(f.value) == "" {
				details = append(details, apperrors.ValidationDetail{
					Field:   "shippingAddress." + f.field,
					Message: f.field + " is required",
				})
			}
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

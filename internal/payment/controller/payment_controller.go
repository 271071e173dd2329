package controller

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/httpx"
	"storefront/internal/payment/service"
)

// GatewayKeyHeader carries the shared secret the payment gateway signs callbacks with.
const GatewayKeyHeader = "X-Gateway-Key"

type PaymentService interface {
	RecordCallback(ctx context.Context, orderNumber string, payment domain.Payment) (*service.CallbackResult, error)
}

type PaymentController struct {
	service     PaymentService
	callbackKey string
	logger      *zap.Logger
}

func NewPaymentController(svc PaymentService, callbackKey string, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		service:     svc,
		callbackKey: callbackKey,
		logger:      logger,
	}
}

func (c *PaymentController) Routes(r chi.Router) {
	r.Post("/payments/callback", c.Callback)
}

func (c *PaymentController) Callback(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("requestId", middleware.GetReqID(r.Context())))

	if !c.authorized(r.Header.Get(GatewayKeyHeader)) {
		logger.Warn("rejected payment callback with bad gateway key")
		httpx.WriteError(w, r, c.logger, apperrors.NewUnauthorizedError("invalid gateway key"))
		return
	}

	var req dto.PaymentCallbackRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}

	if err := validateCallback(req); err != nil {
		logger.Warn("invalid payment callback", zap.String("orderId", req.OrderID), zap.Error(err))
		httpx.WriteError(w, r, c.logger, err)
		return
	}

	payment := domain.Payment{
		Amount:          req.Amount,
		Currency:        strings.ToUpper(strings.TrimSpace(req.Currency)),
		Status:          domain.PaymentStatus(strings.ToUpper(req.Status)),
		Gateway:         req.Gateway,
		TransactionHash: req.TransactionHash,
		GatewayResponse: req.GatewayResponse,
	}

	result, err := c.service.RecordCallback(r.Context(), req.OrderID, payment)
	if err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusOK, dto.Response{
		Success: true,
		Data: dto.PaymentCallbackResponse{
			Payment:     dto.NewPaymentDTO(result.Payment),
			OrderStatus: string(result.OrderStatus),
			Duplicate:   result.Duplicate,
			Underpaid:   result.Underpaid,
		},
	})
}

// authorized fails closed when no callback key is configured.
func (c *PaymentController) authorized(presented string) bool {
	if c.callbackKey == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(c.callbackKey)) == 1
}

func validateCallback(req dto.PaymentCallbackRequest) error {
	var details []apperrors.ValidationDetail

	required := []struct{ field, value string }{
		{"orderId", req.OrderID},
		{"currency", req.Currency},
		{"gateway", req.Gateway},
		{"transactionHash", req.TransactionHash},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   f.field,
				Message: f.field + " is required",
			})
		}
	}

	if !req.Amount.IsPositive() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	}

	if !domain.PaymentStatus(strings.ToUpper(req.Status)).Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of PENDING, COMPLETED, FAILED, CANCELLED",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

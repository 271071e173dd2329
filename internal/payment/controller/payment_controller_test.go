package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/payment/service"
)

type mockPaymentService struct {
	RecordCallbackFunc func(ctx context.Context, orderNumber string, payment domain.Payment) (*service.CallbackResult, error)
}

func (m *mockPaymentService) RecordCallback(ctx context.Context, orderNumber string, payment domain.Payment) (*service.CallbackResult, error) {
	return m.RecordCallbackFunc(ctx, orderNumber, payment)
}

const validCallback = `{
	"orderId": "ORD-1",
	"amount": "27.00",
	"currency": "btc",
	"status": "completed",
	"gateway": "cryptopay",
	"transactionHash": "0xabc",
	"gatewayResponse": {"confirmations": 3}
}`

func callback(t *testing.T, svc PaymentService, key, header, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	NewPaymentController(svc, key, zap.NewNop()).Routes(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/callback", strings.NewReader(body))
	if header != "" {
		req.Header.Set(GatewayKeyHeader, header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCallback_Success(t *testing.T) {
	svc := &mockPaymentService{
		RecordCallbackFunc: func(ctx context.Context, orderNumber string, p domain.Payment) (*service.CallbackResult, error) {
			assert.Equal(t, "ORD-1", orderNumber)
			assert.Equal(t, "27", p.Amount.String())
			assert.Equal(t, "BTC", p.Currency)
			assert.Equal(t, domain.PaymentStatusCompleted, p.Status)
			assert.JSONEq(t, `{"confirmations": 3}`, string(p.GatewayResponse))
			p.ID = 9
			p.OrderID = 7
			return &service.CallbackResult{Payment: p, OrderStatus: domain.OrderStatusPaid}, nil
		},
	}

	w := callback(t, svc, "s3cret", "s3cret", validCallback)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool                        `json:"success"`
		Data    dto.PaymentCallbackResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "PAID", body.Data.OrderStatus)
	assert.Equal(t, int64(9), body.Data.Payment.ID)
	assert.False(t, body.Data.Duplicate)
}

func TestCallback_RejectsBadKey(t *testing.T) {
	svc := &mockPaymentService{
		RecordCallbackFunc: func(ctx context.Context, orderNumber string, p domain.Payment) (*service.CallbackResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	tests := []struct {
		name       string
		configured string
		presented  string
	}{
		{"missing header", "s3cret", ""},
		{"wrong key", "s3cret", "guess"},
		{"no key configured", "", "anything"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := callback(t, svc, tt.configured, tt.presented, validCallback)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestCallback_Validation(t *testing.T) {
	svc := &mockPaymentService{}

	w := callback(t, svc, "k", "k", `{"orderId":"","amount":0,"currency":"","status":"SETTLED","gateway":"","transactionHash":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	fields := make([]string, 0, len(body.Details))
	for _, d := range body.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"orderId", "currency", "gateway", "transactionHash", "amount", "status"}, fields)
}

func TestCallback_UnknownOrder(t *testing.T) {
	svc := &mockPaymentService{
		RecordCallbackFunc: func(ctx context.Context, orderNumber string, p domain.Payment) (*service.CallbackResult, error) {
			return nil, apperrors.NewNotFoundError("order ORD-1 not found")
		},
	}

	w := callback(t, svc, "k", "k", validCallback)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	adminmw "storefront/internal/admin/middleware"
	"storefront/internal/admin/token"
	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type mockAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, email, password string) (*dto.AdminAuthResponse, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, email, password string) (*dto.AdminAuthResponse, error) {
	return m.AuthenticateFunc(ctx, email, password)
}

type mockOrderAdmin struct {
	ListOrdersFunc   func(ctx context.Context) ([]domain.OrderDetailRow, error)
	UpdateStatusFunc func(ctx context.Context, number string, status domain.OrderStatus) (*domain.Order, error)
}

func (m *mockOrderAdmin) ListOrders(ctx context.Context) ([]domain.OrderDetailRow, error) {
	return m.ListOrdersFunc(ctx)
}

func (m *mockOrderAdmin) UpdateStatus(ctx context.Context, number string, status domain.OrderStatus) (*domain.Order, error) {
	return m.UpdateStatusFunc(ctx, number, status)
}

type stubDashboard struct{}

func (stubDashboard) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return &domain.DashboardStats{TotalOrders: 3, PendingOrders: 1, PaidRevenue: decimal.RequireFromString("54.00"), ActiveProducts: 7}, nil
}

type fixture struct {
	router http.Handler
	tokens *token.Manager
}

func newFixture(auth Authenticator, orders OrderAdmin) fixture {
	tokens := token.NewManager("test-secret", time.Hour)
	r := chi.NewRouter()
	NewAdminController(auth, orders, stubDashboard{}, adminmw.RequireAdmin(tokens, zap.NewNop()), zap.NewNop()).Routes(r)
	return fixture{router: r, tokens: tokens}
}

func (f fixture) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if authed {
		raw, err := f.tokens.Issue(domain.User{ID: 1, Email: "admin@shop.test", Name: "Admin", Role: domain.RoleAdmin})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+raw)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	auth := &mockAuthenticator{
		AuthenticateFunc: func(ctx context.Context, email, password string) (*dto.AdminAuthResponse, error) {
			switch email {
			case "admin@shop.test":
				return &dto.AdminAuthResponse{User: dto.SessionUser{ID: 1, Role: "admin", IsAdmin: true}, Token: "t", Message: "ok"}, nil
			case "customer@shop.test":
				return nil, apperrors.NewForbiddenError("admin access required")
			default:
				return nil, apperrors.NewUnauthorizedError("invalid credentials")
			}
		},
	}
	f := newFixture(auth, &mockOrderAdmin{})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"admin", `{"email":"admin@shop.test","password":"pw"}`, http.StatusOK},
		{"customer", `{"email":"customer@shop.test","password":"pw"}`, http.StatusForbidden},
		{"unknown", `{"email":"ghost@shop.test","password":"pw"}`, http.StatusUnauthorized},
		{"missing fields", `{"email":""}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/admin/auth", tt.body, false)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				var resp dto.AdminAuthResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.True(t, resp.User.IsAdmin)
				assert.Equal(t, "t", resp.Token)
			}
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(&mockAuthenticator{}, &mockOrderAdmin{})

	for _, path := range []string{"/admin/session", "/admin/orders", "/admin/dashboard"} {
		w := f.do(t, http.MethodGet, path, "", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestSession(t *testing.T) {
	f := newFixture(&mockAuthenticator{}, &mockOrderAdmin{})

	w := f.do(t, http.MethodGet, "/admin/session", "", true)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data dto.SessionUser `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Data.ID)
	assert.Equal(t, "admin@shop.test", body.Data.Email)
	assert.True(t, body.Data.IsAdmin)
}

func TestUpdateOrderStatus(t *testing.T) {
	orders := &mockOrderAdmin{
		UpdateStatusFunc: func(ctx context.Context, number string, status domain.OrderStatus) (*domain.Order, error) {
			if number == "ORD-missing" {
				return nil, apperrors.NewNotFoundError("order not found")
			}
			if status == domain.OrderStatusDelivered {
				return nil, apperrors.NewConflictError("cannot move PENDING to DELIVERED")
			}
			return &domain.Order{ID: 1, Number: number, Status: status}, nil
		},
	}
	f := newFixture(&mockAuthenticator{}, orders)

	tests := []struct {
		name   string
		number string
		body   string
		status int
	}{
		{"ok", "ORD-1", `{"status":"paid"}`, http.StatusOK},
		{"missing order", "ORD-missing", `{"status":"PAID"}`, http.StatusNotFound},
		{"bad transition", "ORD-1", `{"status":"DELIVERED"}`, http.StatusConflict},
		{"empty status", "ORD-1", `{"status":""}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPatch, "/admin/orders/"+tt.number+"/status", tt.body, true)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestDashboard(t *testing.T) {
	f := newFixture(&mockAuthenticator{}, &mockOrderAdmin{})

	w := f.do(t, http.MethodGet, "/admin/dashboard", "", true)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data dto.DashboardDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.TotalOrders)
	assert.Equal(t, 54.0, body.Data.PaidRevenue)
	assert.Equal(t, 7, body.Data.ActiveProducts)
}

func TestListOrders(t *testing.T) {
	orders := &mockOrderAdmin{
		ListOrdersFunc: func(ctx context.Context) ([]domain.OrderDetailRow, error) {
			return []domain.OrderDetailRow{}, nil
		},
	}
	f := newFixture(&mockAuthenticator{}, orders)

	w := f.do(t, http.MethodGet, "/admin/orders", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
}

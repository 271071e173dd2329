package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	adminmw "storefront/internal/admin/middleware"
	"storefront/internal/admin/service"
	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/httpx"
)

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*dto.AdminAuthResponse, error)
}

type OrderAdmin interface {
	ListOrders(ctx context.Context) ([]domain.OrderDetailRow, error)
	UpdateStatus(ctx context.Context, number string, status domain.OrderStatus) (*domain.Order, error)
}

type DashboardRepository interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

type AdminController struct {
	auth         Authenticator
	orders       OrderAdmin
	dashboard    DashboardRepository
	requireAdmin func(http.Handler) http.Handler
	logger       *zap.Logger
}

func NewAdminController(
	auth Authenticator,
	orders OrderAdmin,
	dashboard DashboardRepository,
	requireAdmin func(http.Handler) http.Handler,
	logger *zap.Logger,
) *AdminController {
	return &AdminController{
		auth:         auth,
		orders:       orders,
		dashboard:    dashboard,
		requireAdmin: requireAdmin,
		logger:       logger,
	}
}

// Routes mounts /admin. Everything except /admin/auth sits behind the admin policy.
func (c *AdminController) Routes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/auth", c.Authenticate)

		r.Group(func(r chi.Router) {
			r.Use(c.requireAdmin)
			r.Get("/session", c.Session)
			r.Get("/orders", c.ListOrders)
			r.Patch("/orders/{orderNumber}/status", c.UpdateOrderStatus)
			r.Get("/dashboard", c.Dashboard)
		})
	})
}

func (c *AdminController) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminAuthRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}

	var details []apperrors.ValidationDetail
	if strings.TrimSpace(req.Email) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		details = append(details, apperrors.ValidationDetail{Field: "password", Message: "password is required"})
	}
	if len(details) > 0 {
		httpx.WriteError(w, r, c.logger, apperrors.NewValidationError("validation failed", details...))
		return
	}

	resp, err := c.auth.Authenticate(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}
	httpx.WriteJSON(w, c.logger, http.StatusOK, resp)
}

func (c *AdminController) Session(w http.ResponseWriter, r *http.Request) {
	claims, ok := adminmw.ClaimsFrom(r.Context())
	if !ok {
		httpx.WriteError(w, r, c.logger, apperrors.NewUnauthorizedError("no session"))
		return
	}
	user := service.NewSessionUser(claims.UserID(), claims.Email, claims.Name, claims.Role)
	httpx.WriteJSON(w, c.logger, http.StatusOK, dto.Response{Success: true, Data: user})
}

func (c *AdminController) ListOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := c.orders.ListOrders(r.Context())
	if err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}
	httpx.WriteJSON(w, c.logger, http.StatusOK, dto.Response{Success: true, Data: dto.NewOrderRowDTOs(rows)})
}

func (c *AdminController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "orderNumber")

	var req dto.UpdateOrderStatusRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		httpx.WriteError(w, r, c.logger, apperrors.NewValidationError("validation failed",
			apperrors.ValidationDetail{Field: "status", Message: "status is required"}))
		return
	}

	status := domain.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	order, err := c.orders.UpdateStatus(r.Context(), number, status)
	if err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}

	c.logger.Info("order status updated",
		zap.String("requestId", middleware.GetReqID(r.Context())),
		zap.String("orderNumber", number),
		zap.String("status", string(order.Status)),
	)
	httpx.WriteJSON(w, c.logger, http.StatusOK, dto.Response{Success: true, Data: dto.NewOrderDTO(*order)})
}

func (c *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.dashboard.Stats(r.Context())
	if err != nil {
		httpx.WriteError(w, r, c.logger, err)
		return
	}
	httpx.WriteJSON(w, c.logger, http.StatusOK, dto.Response{Success: true, Data: dto.DashboardDTO{
		TotalOrders:    stats.TotalOrders,
		PendingOrders:  stats.PendingOrders,
		PaidRevenue:    stats.PaidRevenue.InexactFloat64(),
		ActiveProducts: stats.ActiveProducts,
	}})
}

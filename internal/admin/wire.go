package admin

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"storefront/internal/admin/controller"
	adminmw "storefront/internal/admin/middleware"
	"storefront/internal/admin/repository"
	"storefront/internal/admin/service"
	"storefront/internal/admin/token"
	"storefront/internal/config"
)

type Module struct {
	Controller   *controller.AdminController
	RequireAdmin func(http.Handler) http.Handler
}

func NewModule(db *sql.DB, cfg config.AuthConfig, orders controller.OrderAdmin, logger *zap.Logger) *Module {
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	requireAdmin := adminmw.RequireAdmin(tokens, logger)

	auth := service.NewAuthService(repository.NewMySQLUserRepository(db), tokens, logger)

	return &Module{
		Controller: controller.NewAdminController(
			auth,
			orders,
			repository.NewMySQLDashboardRepository(db),
			requireAdmin,
			logger,
		),
		RequireAdmin: requireAdmin,
	}
}

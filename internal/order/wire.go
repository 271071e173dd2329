package order

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/order/controller"
	"storefront/internal/order/repository"
	"storefront/internal/order/service"
	"storefront/internal/order/usecase"
)

type Module struct {
	Controller *controller.OrderController
	UseCase    *usecase.OrderUseCase
}

func NewModule(
	db *sql.DB,
	cfg config.OrderConfig,
	catalog usecase.ProductCatalog,
	redirects usecase.RedirectBuilder,
	publisher usecase.EventPublisher,
	metrics usecase.Metrics,
	logger *zap.Logger,
) *Module {
	svc := service.NewOrderService(
		db,
		repository.NewMySQLOrderRepository(db),
		repository.NewMySQLOrderItemRepository(db),
		repository.NewMySQLShippingAddressRepository(db),
		logger,
		cfg.TxTimeout,
	)

	uc := usecase.NewOrderUseCase(catalog, svc, redirects, publisher, metrics, logger, cfg.MaxRetryAttempts)

	return &Module{
		Controller: controller.NewOrderController(uc, logger),
		UseCase:    uc,
	}
}

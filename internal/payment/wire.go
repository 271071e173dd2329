package payment

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/payment/controller"
	"storefront/internal/payment/repository"
	"storefront/internal/payment/service"
)

type Module struct {
	Controller *controller.PaymentController
}

func NewModule(
	db *sql.DB,
	gateway config.GatewayConfig,
	orderCfg config.OrderConfig,
	orders service.OrderRepository,
	publisher service.EventPublisher,
	metrics service.Metrics,
	logger *zap.Logger,
) *Module {
	svc := service.NewPaymentService(
		db,
		orders,
		repository.NewMySQLPaymentRepository(db),
		publisher,
		metrics,
		logger,
		orderCfg.TxTimeout,
		gateway.SourceCurrency,
	)

	return &Module{
		Controller: controller.NewPaymentController(svc, gateway.CallbackKey, logger),
	}
}

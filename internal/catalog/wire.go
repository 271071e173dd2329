package catalog

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/catalog/cache"
	"storefront/internal/catalog/controller"
	"storefront/internal/catalog/repository"
	"storefront/internal/catalog/service"
	"storefront/internal/config"
)

// Module exposes the catalog controller and the service the order workflow prices against.
type Module struct {
	Controller *controller.CatalogController
	Service    *service.CatalogService
}

func NewModule(db *sql.DB, productCache cache.ProductCache, cfg config.CatalogConfig, logger *zap.Logger) *Module {
	products := repository.NewMySQLRepository(db)
	categories := repository.NewMySQLCategoryRepository(db)
	svc := service.NewCatalogService(products, categories, productCache, logger)
	return &Module{
		Controller: controller.NewCatalogController(svc, cfg, logger),
		Service:    svc,
	}
}

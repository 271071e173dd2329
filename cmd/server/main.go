package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"storefront/internal/admin"
	"storefront/internal/catalog"
	"storefront/internal/catalog/cache"
	"storefront/internal/config"
	"storefront/internal/infrastructure/kafka"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/infrastructure/metrics"
	"storefront/internal/infrastructure/migrations"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/infrastructure/redis"
	"storefront/internal/order"
	orderrepo "storefront/internal/order/repository"
	"storefront/internal/payment"
	"storefront/internal/payment/gateway"
	"storefront/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(context.Background(), db); err != nil {
			zapLogger.Fatal("running migrations", zap.Error(err))
		}
		zapLogger.Info("migrations applied")
	}

	var productCache cache.ProductCache = cache.NopProductCache{}
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(context.Background(), cfg.Redis)
		if err != nil {
			zapLogger.Warn("redis unavailable, product cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			productCache = cache.NewRedisProductCache(rdb, cfg.Redis.ProductTTL)
			zapLogger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}

	publisher := kafka.New(cfg.Kafka)
	defer publisher.Close()
	if !cfg.Kafka.Enabled() {
		zapLogger.Info("kafka brokers not configured, domain events disabled")
	}

	redirects, err := gateway.NewRedirectBuilder(cfg.Gateway)
	if err != nil {
		zapLogger.Fatal("configuring payment gateway", zap.Error(err))
	}
	if cfg.Gateway.CallbackKey == "" {
		zapLogger.Warn("GATEWAY_CALLBACK_KEY is empty, payment callbacks will be rejected")
	}

	m := metrics.New()

	catalogModule := catalog.NewModule(db, productCache, cfg.Catalog, zapLogger)
	orderModule := order.NewModule(db, cfg.Order, catalogModule.Service, redirects, publisher, m, zapLogger)
	paymentModule := payment.NewModule(db, cfg.Gateway, cfg.Order, orderrepo.NewMySQLOrderRepository(db), publisher, m, zapLogger)
	adminModule := admin.NewModule(db, cfg.Auth, orderModule.UseCase, zapLogger)

	router := server.NewRouter(server.RouterDeps{
		DB:      db,
		Metrics: m,
		Logger:  zapLogger,
		Modules: []server.RouteRegistrar{
			catalogModule.Controller,
			orderModule.Controller,
			paymentModule.Controller,
			adminModule.Controller,
		},
	})

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

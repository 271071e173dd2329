package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/infrastructure/migrations"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/seed"
)

func main() {
	path := flag.String("file", "seed/catalog.yaml", "YAML fixture with categories, products and users")
	migrate := flag.Bool("migrate", true, "apply pending migrations before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	f, err := os.Open(*path)
	if err != nil {
		zapLogger.Fatal("opening fixture", zap.String("file", *path), zap.Error(err))
	}
	fixture, err := seed.Parse(f)
	f.Close()
	if err != nil {
		zapLogger.Fatal("parsing fixture", zap.String("file", *path), zap.Error(err))
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *migrate {
		if err := migrations.Up(ctx, db); err != nil {
			zapLogger.Fatal("running migrations", zap.Error(err))
		}
	}

	if err := seed.NewSeeder(db, zapLogger).Apply(ctx, fixture); err != nil {
		zapLogger.Fatal("seeding database", zap.Error(err))
	}
}

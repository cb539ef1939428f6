package main

import (
	"context"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/granizoapp/granizo-backend/api/routes"
	"github.com/granizoapp/granizo-backend/internal/cart"
	"github.com/granizoapp/granizo-backend/internal/catalog"
	checkoutsvc "github.com/granizoapp/granizo-backend/internal/checkout"
	inventorysvc "github.com/granizoapp/granizo-backend/internal/inventory"
	ordersvc "github.com/granizoapp/granizo-backend/internal/orders"
	productsvc "github.com/granizoapp/granizo-backend/internal/products"
	storesvc "github.com/granizoapp/granizo-backend/internal/stores"
	"github.com/granizoapp/granizo-backend/pkg/config"
	"github.com/granizoapp/granizo-backend/pkg/db"
	"github.com/granizoapp/granizo-backend/pkg/logger"
	"github.com/granizoapp/granizo-backend/pkg/metrics"
	"github.com/granizoapp/granizo-backend/pkg/migrate"
	pkgredis "github.com/granizoapp/granizo-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis being down is tolerated: carts fall back to memory-only sessions
	// and the idempotency guard disengages.
	var redisClient *pkgredis.Client
	if client, err := pkgredis.New(context.Background(), cfg.Redis, logg); err != nil {
		logg.Warn(logg.WithField(context.Background(), "error", err.Error()), "redis unavailable, sessions not durable")
	} else {
		redisClient = client
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	storeID, err := uuid.Parse(cfg.POS.DefaultStoreID)
	if err != nil {
		logg.Error(context.Background(), "invalid default store id", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var snapshots cart.SnapshotStore
	if redisClient != nil {
		snapshots = redisClient
	}
	cartManager, err := cart.NewManager(catalog.Default(), snapshots, cfg.POS.SessionSnapshotTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	ordersService, err := ordersvc.NewService(ordersvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(cartManager, ordersService, storeID, metrics.NewCheckoutMetrics(registry), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	productsService, err := productsvc.NewService(productsvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	inventoryService, err := inventorysvc.NewService(inventorysvc.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	storesService, err := storesvc.NewService(storesvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create stores service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"store_id": storeID.String(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			StoreID:   storeID,
			Registry:  registry,
			Carts:     cartManager,
			Checkout:  checkoutService,
			Orders:    ordersService,
			Products:  productsService,
			Inventory: inventoryService,
			Stores:    storesService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

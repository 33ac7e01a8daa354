// Package main is the entry point for the ledger server.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"custodia/internal/config"
	"custodia/internal/handlers"
	"custodia/internal/repositories"
	"custodia/internal/repositories/cache"
	"custodia/internal/routes"
	"custodia/internal/services/exchange"
	"custodia/internal/services/ledger"
	"custodia/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Initializes database and cache connections
// - Wires the rate provider and ledger services
// - Configures routes
// - Starts the HTTP server and the reconciliation loop
func main() {
	// Load environment variables
	config.LoadEnv()
	cfg := config.Load()

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	db, err := repositories.InitDB(cfg.DB, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repositories.CloseDB(db); err != nil {
			logger.Warn("failed to close database connection", zap.Error(err))
		}
	}()
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get database instance", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, cfg.DB.Name),
	)

	// Rate cache: redis when available, in-process otherwise
	var (
		cacheService *cache.CacheService
		rateCache    exchange.RateCache = exchange.NewMemoryRateCache(cfg.Rates.StaleTTL)
	)
	if cfg.Redis.Enabled {
		client := cache.NewRedisClient(cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := cache.Ping(ctx, client)
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, using in-process rate cache", zap.Error(err))
			_ = client.Close()
		} else {
			cacheService = cache.NewCacheService(client, "custodia")
			rateCache = exchange.NewRedisRateCache(cacheService, cfg.Rates.StaleTTL)
			defer func() {
				if err := cacheService.Close(); err != nil {
					logger.Warn("failed to close redis connection", zap.Error(err))
				}
			}()
			logger.Info("redis connected", zap.String("host", cfg.Redis.Host))
		}
	}

	feed := exchange.NewBreakerFeed(exchange.NewCoinGeckoFeed(cfg.Rates), exchange.DefaultBreakerConfig, logger)
	rates := exchange.NewCachedProvider(feed, rateCache, exchange.ProviderConfig{
		CacheTTL:     cfg.Rates.CacheTTL,
		FetchTimeout: cfg.Rates.Timeout,
	}, logger, exchange.NewPrometheusMetrics(registry))

	store := repositories.NewStore(db)
	ledgerService := ledger.NewService(store, rates, ledger.Config{}, logger, ledger.NewPrometheusMetrics(registry))
	walletService := wallet.NewService(store.Wallets(), logger)

	app := fiber.New(fiber.Config{
		AppName:               "custodia",
		DisableStartupMessage: config.IsProduction(),
	})

	app.Use(recover.New())

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		JWTSecret:   cfg.JWTSecret,
		Ledger:      ledgerService,
		Wallets:     walletService,
		Health:      handlers.NewHealthHandler(sqlDB, cacheService, logger),
		Metrics:     registry,
		Logger:      logger,
		CreateLimit: cfg.CreateLimit,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ReconcileInterval > 0 {
		go runReconciler(ctx, ledgerService, cfg.ReconcileInterval, logger)
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewExample()
	}
	return logger.With(zap.String("service", "custodia"))
}

// runReconciler periodically recomputes every wallet from its ledger so
// drift is surfaced in logs and metrics.
func runReconciler(ctx context.Context, svc ledger.Service, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.ReconcileAll(ctx); err != nil {
				logger.Error("scheduled reconciliation failed", zap.Error(err))
			}
		}
	}
}

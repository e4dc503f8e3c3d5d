package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warehouse-service/internal/handler"
	"warehouse-service/internal/inventory"
	"warehouse-service/internal/middleware"
	"warehouse-service/pkg/cache"
	"warehouse-service/pkg/config"
	"warehouse-service/pkg/database"
	"warehouse-service/pkg/jwtutil"
	"warehouse-service/pkg/logger"
	"warehouse-service/pkg/tracing"
	"warehouse-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()
	log.Info("Starting warehouse service...", zap.String("environment", cfg.Server.Env))

	// Initialize JWT utilities
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utilities initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize database and run migrations
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_host", cfg.Database.Host),
		zap.String("db_name", cfg.Database.Name))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set up tracing
	shutdownTracing, err := tracing.Setup(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to set up tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("Failed to shut down tracing", zap.Error(err))
		}
	}()

	// Optional Redis cache for the stock status view
	var statusCache *cache.Cache
	if cfg.Redis.Addr != "" {
		if err := cache.InitRedis(cfg); err != nil {
			log.Warn("Redis unavailable, continuing without status cache", zap.Error(err))
		} else {
			statusCache = cache.New(cache.GetClient(), cfg.Redis.StatusTTL)
			defer cache.Close()
			log.Info("Redis status cache initialized", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// Inventory engine
	svc := inventory.NewService(database.GetDB(), statusCache, cfg.Reservation.TTL)
	handler.Init(svc)

	// Outbox relay publishes staged events to Kafka
	if cfg.Kafka.Brokers != "" {
		writer := inventory.NewKafkaWriter(cfg)
		defer writer.Close()
		relay := inventory.NewRelay(database.GetDB(), writer, cfg.Kafka.RelayInterval, cfg.Kafka.RelayBatchSize)
		go relay.Start(ctx)
		log.Info("Outbox relay configured",
			zap.String("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic))
	} else {
		log.Warn("Kafka brokers not configured, outbox events will not be published")
	}

	// Reservation expiry sweeper
	sweeper := inventory.NewSweeper(svc, cfg.Reservation.SweepInterval)
	go sweeper.Start(ctx)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(middleware.MetricsMiddleware)

	// Public routes that don't require authentication
	e.GET("/", handler.Hello)
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API routes that require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Inventory ledger
	api.POST("/inventory", handler.CreateInventory)
	api.POST("/inventory/adjust", handler.AdjustInventory)
	api.GET("/inventory/status", handler.GetInventoryStatus)
	api.GET("/inventory/:product_id/movements", handler.ListMovements)
	api.GET("/alerts", handler.ListAlerts)

	// Reservations
	api.POST("/reservations", handler.CreateReservation)
	api.GET("/reservations/:id", handler.GetReservation)
	api.POST("/reservations/:id/release", handler.ReleaseReservation)
	api.POST("/reservations/:id/confirm", handler.ConfirmReservation)

	// Grosir bundles and tolerances
	api.GET("/grosir/check", handler.CheckBundleOverflow)
	api.GET("/grosir/variants", handler.CheckAllVariantsOverflow)
	api.POST("/bundles", handler.CreateBundleConfig)
	api.GET("/bundles/:product_id", handler.GetBundleConfig)
	api.POST("/tolerances", handler.UpsertTolerance)

	// Purchase orders
	api.POST("/purchase-orders", handler.CreatePurchaseOrder)
	api.GET("/purchase-orders/:id", handler.GetPurchaseOrder)
	api.POST("/purchase-orders/:id/receive", handler.ReceivePurchaseOrder)

	// Start server, then wait for the shutdown signal
	go func() {
		port := cfg.Server.Port
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received, draining requests...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}

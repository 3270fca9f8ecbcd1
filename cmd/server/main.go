package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"restaurant_pos/internal/catalog"
	"restaurant_pos/internal/config"
	"restaurant_pos/internal/database"
	"restaurant_pos/internal/handlers"
	"restaurant_pos/internal/logger"
	"restaurant_pos/internal/migrations"
	"restaurant_pos/internal/redis"
	"restaurant_pos/internal/repository"
	"restaurant_pos/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel, zapLog)
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := migrations.Run(db, zapLog); err != nil {
		zapLog.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize Redis detail cache, optional
	var detailCache services.DetailCache
	var cachePinger handlers.Pinger
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(context.Background(), cfg.RedisURL)
		if err != nil {
			zapLog.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		detailCache = redisClient
		cachePinger = redisClient
		zapLog.Info("detail cache enabled", zap.Duration("ttl", cfg.CacheDuration()))
	}

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	productRepo := repository.NewProductRepository(db)

	var lookup catalog.Lookup = productRepo
	if cfg.CatalogServiceURL != "" {
		lookup = catalog.NewRemoteClient(cfg.CatalogServiceURL, cfg.CatalogUsername, cfg.CatalogPassword, cfg.CatalogTimeoutDuration())
		zapLog.Info("using remote catalog", zap.String("url", cfg.CatalogServiceURL))
	}

	// Initialize services
	coordinator := database.NewCoordinator(db, zapLog)
	orderService := services.NewOrderService(coordinator, orderRepo, orderItemRepo, lookup, detailCache, cfg.CacheDuration(), zapLog)
	creditService := services.NewCreditService(coordinator, creditRepo, detailCache, cfg.CacheDuration(), zapLog)

	// Initialize handlers
	router := handlers.NewRouter(
		zapLog,
		cfg.JWTSecret,
		handlers.NewAPIHandler(db, cachePinger, zapLog),
		handlers.NewOrderHandler(orderService),
		handlers.NewCreditHandler(creditService),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		zapLog.Info("server starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownDuration())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Error("server shutdown error", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			zapLog.Error("database close error", zap.Error(err))
		}
	}

	zapLog.Info("server stopped")
}

package main

import (
	"log"
	"time"

	"restaurant_pos/internal/config"
	"restaurant_pos/internal/database"
	"restaurant_pos/internal/logger"
	"restaurant_pos/internal/middleware"
	"restaurant_pos/internal/migrations"

	"go.uber.org/zap"
)

// Resets the database and prints development tokens for each role.
func main() {
	cfg := config.Load()

	zapLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLog.Sync()

	if cfg.IsProduction() {
		zapLog.Fatal("refusing to reset a production database")
	}

	db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel, zapLog)
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := migrations.Reset(db, zapLog); err != nil {
		zapLog.Fatal("failed to reset database", zap.Error(err))
	}

	for i, role := range []middleware.Role{middleware.RoleAdmin, middleware.RoleCashier, middleware.RoleWaiter} {
		token, err := middleware.NewToken(cfg.JWTSecret, uint(i+1), role, 24*time.Hour)
		if err != nil {
			zapLog.Fatal("failed to sign token", zap.Error(err))
		}
		zapLog.Info("development token", zap.String("role", string(role)), zap.String("token", token))
	}

	zapLog.Info("database initialization completed")
}

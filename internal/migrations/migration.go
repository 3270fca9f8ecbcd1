package migrations

import (
	"fmt"

	"restaurant_pos/internal/database"
	"restaurant_pos/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run migrates every table and seeds the local catalog when it is empty.
func Run(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := seedProducts(db, log); err != nil {
		log.Warn("failed to seed products", zap.Error(err))
	}

	log.Info("database migrations completed")
	return nil
}

// Reset drops every table and runs Run again. Only used by scripts/init-db.go.
func Reset(db *gorm.DB, log *zap.Logger) error {
	log.Warn("dropping existing tables")
	err := db.Migrator().DropTable(
		&models.CreditTransaction{},
		&models.CreditAccount{},
		&models.OrderStatusLog{},
		&models.OrderItem{},
		&models.Order{},
		&models.Product{},
	)
	if err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return Run(db, log)
}

func DefaultProducts() []models.Product {
	return []models.Product{
		{Name: "Nasi Goreng", Description: "Fried rice with egg", Price: decimal.RequireFromString("10.00"), IsAvailable: true},
		{Name: "Rendang", Description: "Slow cooked beef", Price: decimal.RequireFromString("25.00"), IsAvailable: true},
		{Name: "Soto Ayam", Description: "Chicken soup", Price: decimal.RequireFromString("12.50"), IsAvailable: true},
		{Name: "Es Teh", Description: "Iced tea", Price: decimal.RequireFromString("3.00"), IsAvailable: true},
		{Name: "Kopi Tubruk", Description: "Black coffee", Price: decimal.RequireFromString("4.50"), IsAvailable: true},
	}
}

func seedProducts(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Debug("products already seeded", zap.Int64("count", count))
		return nil
	}

	products := DefaultProducts()
	if err := db.Create(&products).Error; err != nil {
		return err
	}
	log.Info("default products created", zap.Int("count", len(products)))
	return nil
}

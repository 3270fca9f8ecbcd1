package repository

import (
	"context"

	"restaurant_pos/internal/database"
	"restaurant_pos/internal/models"

	"gorm.io/gorm"
)

type OrderItemRepository interface {
	Create(ctx context.Context, orderItem *models.OrderItem) error
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) Create(ctx context.Context, orderItem *models.OrderItem) error {
	return database.Conn(ctx, r.db).Create(orderItem).Error
}


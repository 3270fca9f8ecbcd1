package repository

import (
	"context"
	"time"

	"restaurant_pos/internal/database"
	"restaurant_pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const orderSummaryColumns = "orders.id, orders.table_number, orders.status, orders.total_amount, orders.created_at, " +
	"(SELECT COUNT(*) FROM order_items WHERE order_items.order_id = orders.id) AS item_count"

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	LockByID(ctx context.Context, id uint) (*models.Order, error)
	UpdateTotal(ctx context.Context, id uint, total decimal.Decimal) error
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error
	CreateStatusLog(ctx context.Context, entry *models.OrderStatusLog) error
	GetStatusLogs(ctx context.Context, orderID uint) ([]models.OrderStatusLog, error)
	GetAll(ctx context.Context) ([]models.OrderSummary, error)
	GetActiveByTable(ctx context.Context, tableNumber int) ([]models.Order, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]models.OrderSummary, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db)
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.conn(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.conn(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// LockByID reads the order header and holds a row lock until the unit of work ends.
func (r *orderRepository) LockByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdateTotal(ctx context.Context, id uint, total decimal.Decimal) error {
	result := r.conn(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_amount": total,
		"updated_at":   time.Now(),
	})
	return affectedOne(result)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	result := r.conn(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	return affectedOne(result)
}

func (r *orderRepository) CreateStatusLog(ctx context.Context, entry *models.OrderStatusLog) error {
	return r.conn(ctx).Create(entry).Error
}

func (r *orderRepository) GetStatusLogs(ctx context.Context, orderID uint) ([]models.OrderStatusLog, error) {
	var logs []models.OrderStatusLog
	err := r.conn(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&logs).Error
	return logs, err
}

func (r *orderRepository) GetAll(ctx context.Context) ([]models.OrderSummary, error) {
	var orders []models.OrderSummary
	err := r.conn(ctx).Model(&models.Order{}).
		Select(orderSummaryColumns).
		Order("orders.created_at DESC, orders.id DESC").
		Scan(&orders).Error
	return orders, err
}

func (r *orderRepository) GetActiveByTable(ctx context.Context, tableNumber int) ([]models.Order, error) {
	var orders []models.Order
	err := r.conn(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Where("table_number = ? AND status NOT IN ?", tableNumber, models.TerminalStatuses()).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.OrderSummary, error) {
	var orders []models.OrderSummary
	err := r.conn(ctx).Model(&models.Order{}).
		Select(orderSummaryColumns).
		Where("orders.created_at >= ? AND orders.created_at < ?", start, end).
		Order("orders.created_at DESC, orders.id DESC").
		Scan(&orders).Error
	return orders, err
}

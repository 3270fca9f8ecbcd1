package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant_pos/internal/catalog"
	"restaurant_pos/internal/database"
	"restaurant_pos/internal/logger"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderResult struct {
	OrderID     uint            `json:"orderId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, tableNumber int, items []OrderItemRequest) (*CreateOrderResult, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	GetStatusHistory(ctx context.Context, id uint) ([]models.OrderStatusLog, error)
	ListOrders(ctx context.Context) ([]models.OrderSummary, error)
	ActiveOrdersByTable(ctx context.Context, tableNumber int) ([]models.Order, error)
	DailyReport(ctx context.Context, date time.Time) (*models.DailyReport, error)
	UpdateStatus(ctx context.Context, orderID uint, target models.OrderStatus, changedBy uint) (*models.Order, error)
}

type orderService struct {
	coord     *database.Coordinator
	orderRepo repository.OrderRepository
	itemRepo  repository.OrderItemRepository
	catalog   catalog.Lookup
	cache     *detailCache
	log       *zap.Logger
}

func NewOrderService(
	coord *database.Coordinator,
	orderRepo repository.OrderRepository,
	itemRepo repository.OrderItemRepository,
	lookup catalog.Lookup,
	cache DetailCache,
	cacheTTL time.Duration,
	log *zap.Logger,
) OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &orderService{
		coord:     coord,
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		catalog:   lookup,
		cache:     newDetailCache(cache, cacheTTL, log),
		log:       log,
	}
}

func validateOrderRequest(tableNumber int, items []OrderItemRequest) error {
	if tableNumber <= 0 {
		return NewValidationError("Table number must be a positive integer")
	}
	if len(items) == 0 {
		return NewValidationError("Order must contain at least one item")
	}
	for i, item := range items {
		if item.ProductID == 0 {
			return NewValidationError(fmt.Sprintf("Item %d: product id must be a positive integer", i+1))
		}
		if item.Quantity <= 0 {
			return NewValidationError(fmt.Sprintf("Item %d: quantity must be a positive integer", i+1))
		}
	}
	return nil
}

// CreateOrder writes the header, the initial status log and every line in one unit of work.
// Unit prices are copied from the catalog and never re-read afterwards.
func (s *orderService) CreateOrder(ctx context.Context, tableNumber int, items []OrderItemRequest) (*CreateOrderResult, error) {
	if err := validateOrderRequest(tableNumber, items); err != nil {
		return nil, err
	}

	var result CreateOrderResult
	err := s.coord.Run(ctx, func(ctx context.Context) error {
		order := &models.Order{
			TableNumber: tableNumber,
			Status:      models.OrderPending,
			TotalAmount: decimal.Zero,
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return NewPersistenceError("Failed to create order", err)
		}

		if err := s.orderRepo.CreateStatusLog(ctx, &models.OrderStatusLog{
			OrderID:   order.ID,
			ToStatus:  models.OrderPending,
			ChangedAt: time.Now(),
		}); err != nil {
			return NewPersistenceError("Failed to create order", err)
		}

		total := decimal.Zero
		for _, requested := range items {
			entry, err := s.catalog.Lookup(ctx, requested.ProductID)
			if err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					return NewNotFoundError(fmt.Sprintf("Product %d not found or unavailable", requested.ProductID))
				}
				return NewPersistenceError("Failed to create order", err)
			}
			if !entry.Available {
				return NewNotFoundError(fmt.Sprintf("Product %d not found or unavailable", requested.ProductID))
			}
			if entry.Price.IsNegative() || !entry.Price.Equal(entry.Price.Round(2)) {
				return NewPersistenceError("Failed to create order",
					fmt.Errorf("catalog price %s for product %d is not a two-decimal amount", entry.Price, requested.ProductID))
			}

			item := &models.OrderItem{
				OrderID:     order.ID,
				ProductID:   requested.ProductID,
				ProductName: entry.Name,
				Quantity:    requested.Quantity,
				UnitPrice:   entry.Price,
			}
			total = total.Add(item.ComputeTotal())

			if err := s.itemRepo.Create(ctx, item); err != nil {
				return NewPersistenceError("Failed to create order", err)
			}
		}

		if err := s.orderRepo.UpdateTotal(ctx, order.ID, total); err != nil {
			return NewPersistenceError("Failed to create order", err)
		}

		result = CreateOrderResult{OrderID: order.ID, TotalAmount: total}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "create order", err, zap.Int("table_number", tableNumber))
	}

	s.log.Info("order created",
		zap.Uint("order_id", result.OrderID),
		zap.Int("table_number", tableNumber),
		zap.Int("items", len(items)),
		zap.String("total_amount", result.TotalAmount.StringFixed(2)),
	)
	return &result, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	key := orderCacheKey(id)
	var cached models.Order
	if s.cache.get(ctx, key, &cached) {
		return &cached, nil
	}
	gen := s.cache.generation(key)

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Order not found")
		}
		return nil, s.fail(ctx, "get order", NewPersistenceError("Failed to fetch order", err), zap.Uint("order_id", id))
	}

	s.cache.set(ctx, key, gen, order)
	return order, nil
}

func (s *orderService) GetStatusHistory(ctx context.Context, id uint) ([]models.OrderStatusLog, error) {
	logs, err := s.orderRepo.GetStatusLogs(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get status history", NewPersistenceError("Failed to fetch status history", err), zap.Uint("order_id", id))
	}
	if len(logs) == 0 {
		return nil, NewNotFoundError("Order not found")
	}
	return logs, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]models.OrderSummary, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list orders", NewPersistenceError("Failed to fetch orders", err))
	}
	return orders, nil
}

func (s *orderService) ActiveOrdersByTable(ctx context.Context, tableNumber int) ([]models.Order, error) {
	if tableNumber <= 0 {
		return nil, NewValidationError("Table number must be a positive integer")
	}

	orders, err := s.orderRepo.GetActiveByTable(ctx, tableNumber)
	if err != nil {
		return nil, s.fail(ctx, "list table orders", NewPersistenceError("Failed to fetch table orders", err), zap.Int("table_number", tableNumber))
	}
	return orders, nil
}

// DailyReport lists the orders created on the calendar day of date, in date's location.
func (s *orderService) DailyReport(ctx context.Context, date time.Time) (*models.DailyReport, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1)

	orders, err := s.orderRepo.GetByDateRange(ctx, start, end)
	if err != nil {
		return nil, s.fail(ctx, "daily report", NewPersistenceError("Failed to fetch daily orders", err))
	}

	summary := models.DailySummary{TotalOrders: int64(len(orders)), TotalAmount: decimal.Zero}
	for _, order := range orders {
		summary.TotalAmount = summary.TotalAmount.Add(order.TotalAmount)
	}

	return &models.DailyReport{
		Date:    start.Format("2006-01-02"),
		Orders:  orders,
		Summary: summary,
	}, nil
}

// fail logs persistence failures with their cause and returns err as a *ServiceError.
func (s *orderService) fail(ctx context.Context, op string, err error, fields ...zap.Field) error {
	return logServiceError(ctx, s.log, op, err, fields...)
}

func logServiceError(ctx context.Context, log *zap.Logger, op string, err error, fields ...zap.Field) error {
	serviceErr := AsServiceError(err)
	fields = append(fields,
		zap.String("op", op),
		zap.String("kind", string(serviceErr.Kind)),
		zap.String("request_id", logger.RequestID(ctx)),
	)
	if serviceErr.Kind == KindPersistence {
		log.Error(serviceErr.Message, append(fields, zap.Error(serviceErr.Err))...)
	} else {
		log.Debug(serviceErr.Message, fields...)
	}
	return serviceErr
}

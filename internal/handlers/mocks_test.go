package handlers

import (
	"context"
	"time"

	"restaurant_pos/internal/models"
	"restaurant_pos/internal/services"

	"github.com/shopspring/decimal"
)

type mockOrderService struct {
	createFn func(tableNumber int, items []services.OrderItemRequest) (*services.CreateOrderResult, error)
	getFn    func(id uint) (*models.Order, error)
	updateFn func(id uint, target models.OrderStatus, changedBy uint) (*models.Order, error)
	dailyFn  func(date time.Time) (*models.DailyReport, error)

	lastTable  int
	lastDate   time.Time
	lastUserID uint
}

func (m *mockOrderService) CreateOrder(ctx context.Context, tableNumber int, items []services.OrderItemRequest) (*services.CreateOrderResult, error) {
	m.lastTable = tableNumber
	return m.createFn(tableNumber, items)
}

func (m *mockOrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return m.getFn(id)
}

func (m *mockOrderService) GetStatusHistory(ctx context.Context, id uint) ([]models.OrderStatusLog, error) {
	return []models.OrderStatusLog{{OrderID: id, ToStatus: models.OrderPending}}, nil
}

func (m *mockOrderService) ListOrders(ctx context.Context) ([]models.OrderSummary, error) {
	return []models.OrderSummary{{ID: 1, TableNumber: 2, Status: models.OrderPending, ItemCount: 3}}, nil
}

func (m *mockOrderService) ActiveOrdersByTable(ctx context.Context, tableNumber int) ([]models.Order, error) {
	m.lastTable = tableNumber
	return []models.Order{{ID: 4, TableNumber: tableNumber}}, nil
}

func (m *mockOrderService) DailyReport(ctx context.Context, date time.Time) (*models.DailyReport, error) {
	m.lastDate = date
	if m.dailyFn != nil {
		return m.dailyFn(date)
	}
	return &models.DailyReport{Date: date.Format("2006-01-02"), Summary: models.DailySummary{TotalAmount: decimal.Zero}}, nil
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id uint, target models.OrderStatus, changedBy uint) (*models.Order, error) {
	m.lastUserID = changedBy
	return m.updateFn(id, target, changedBy)
}

type mockCreditService struct {
	createFn func(name, phone, address, notes string) (uint, error)
	debtFn   func(accountID uint, amount decimal.Decimal, description string, date time.Time, createdBy uint) (decimal.Decimal, error)
	detailFn func(id uint) (*models.CreditAccountDetail, error)
	deleteFn func(id uint) error
}

func (m *mockCreditService) CreateAccount(ctx context.Context, customerName, phone, address, notes string) (uint, error) {
	return m.createFn(customerName, phone, address, notes)
}

func (m *mockCreditService) AddDebt(ctx context.Context, accountID uint, amount decimal.Decimal, description string, date time.Time, createdBy uint) (decimal.Decimal, error) {
	return m.debtFn(accountID, amount, description, date, createdBy)
}

func (m *mockCreditService) DeactivateAccount(ctx context.Context, accountID uint) error {
	return m.deleteFn(accountID)
}

func (m *mockCreditService) GetAccountDetail(ctx context.Context, accountID uint) (*models.CreditAccountDetail, error) {
	return m.detailFn(accountID)
}

func (m *mockCreditService) ListAccounts(ctx context.Context) ([]models.CreditAccountSummary, error) {
	return []models.CreditAccountSummary{}, nil
}

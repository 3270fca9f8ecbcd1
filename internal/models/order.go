package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	TableNumber int             `json:"table_number" gorm:"not null;index"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Items       []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderSummary is an order header with its line count, used by list endpoints.
type OrderSummary struct {
	ID          uint            `json:"id"`
	TableNumber int             `json:"table_number"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	ItemCount   int64           `json:"item_count"`
}

type DailySummary struct {
	TotalOrders int64           `json:"total_orders"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type DailyReport struct {
	Date    string         `json:"date"`
	Orders  []OrderSummary `json:"orders"`
	Summary DailySummary   `json:"summary"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// TerminalStatuses lists the absorbing states.
func TerminalStatuses() []OrderStatus {
	return []OrderStatus{OrderCompleted, OrderCancelled}
}

// OrderStatusLog records one applied status transition.
type OrderStatusLog struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status" gorm:"type:varchar(20)"`
	ToStatus   OrderStatus `json:"to_status" gorm:"type:varchar(20);not null"`
	ChangedBy  uint        `json:"changed_by"`
	ChangedAt  time.Time   `json:"changed_at" gorm:"not null"`
}

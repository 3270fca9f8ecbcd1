package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant_pos/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// forwardTransitions holds the single forward step out of each non-terminal state.
// Cancellation is allowed from every non-terminal state and is handled separately.
var forwardTransitions = map[models.OrderStatus]models.OrderStatus{
	models.OrderPending:   models.OrderPreparing,
	models.OrderPreparing: models.OrderReady,
	models.OrderReady:     models.OrderCompleted,
}

// CanTransition returns nil when an order in state from may move to state to.
func CanTransition(from, to models.OrderStatus) error {
	if !to.IsValid() {
		return NewInvalidTransitionError(fmt.Sprintf("Invalid status: %q", to))
	}
	if from.IsTerminal() {
		return NewInvalidTransitionError(fmt.Sprintf("Order is already %s", from))
	}
	if to == models.OrderCancelled {
		return nil
	}
	if next, ok := forwardTransitions[from]; ok && next == to {
		return nil
	}
	return NewInvalidTransitionError(fmt.Sprintf("Cannot change status from %s to %s", from, to))
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uint, target models.OrderStatus, changedBy uint) (*models.Order, error) {
	if !target.IsValid() {
		return nil, NewInvalidTransitionError(fmt.Sprintf("Invalid status: %q", target))
	}

	var updated *models.Order
	err := s.coord.Run(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.LockByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("Order not found")
			}
			return NewPersistenceError("Failed to update order status", err)
		}

		if err := CanTransition(order.Status, target); err != nil {
			return err
		}

		if err := s.orderRepo.UpdateStatus(ctx, order.ID, target); err != nil {
			return NewPersistenceError("Failed to update order status", err)
		}
		if err := s.orderRepo.CreateStatusLog(ctx, &models.OrderStatusLog{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   target,
			ChangedBy:  changedBy,
			ChangedAt:  time.Now(),
		}); err != nil {
			return NewPersistenceError("Failed to update order status", err)
		}

		order.Status = target
		updated = order
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "update order status", err, zap.Uint("order_id", orderID), zap.String("target", string(target)))
	}

	s.cache.invalidate(ctx, orderCacheKey(orderID))
	s.log.Info("order status updated",
		zap.Uint("order_id", orderID),
		zap.String("status", string(target)),
		zap.Uint("changed_by", changedBy),
	)
	return updated, nil
}

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"restaurant_pos/internal/middleware"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type CreateOrderItem struct {
	ProductID uint `json:"product_id" binding:"required,gt=0"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	TableNumber int               `json:"table_number" binding:"required,gt=0"`
	Items       []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid order data")
		return
	}

	items := make([]services.OrderItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = services.OrderItemRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), req.TableNumber, items)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Order created successfully", result)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) GetStatusHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	history, err := h.orderService.GetStatusHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Status history retrieved successfully", history)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) GetTableOrders(c *gin.Context) {
	tableNumber, err := strconv.Atoi(c.Param("table_number"))
	if err != nil || tableNumber <= 0 {
		respondMessage(c, http.StatusBadRequest, "Invalid table number")
		return
	}

	orders, err := h.orderService.ActiveOrdersByTable(c.Request.Context(), tableNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Table orders retrieved successfully", orders)
}

// GetDailyOrders reports on ?date=YYYY-MM-DD, defaulting to today.
func (h *OrderHandler) GetDailyOrders(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	report, err := h.orderService.DailyReport(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Daily orders retrieved successfully", report)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Status is required")
		return
	}

	var changedBy uint
	if user, ok := middleware.CurrentUser(c); ok {
		changedBy = user.UserID
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, models.OrderStatus(req.Status), changedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Order status updated successfully", gin.H{
		"id":     order.ID,
		"status": order.Status,
	})
}

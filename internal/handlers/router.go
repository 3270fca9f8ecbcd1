package handlers

import (
	"restaurant_pos/internal/logger"
	"restaurant_pos/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires every route with its role requirements.
func NewRouter(log *zap.Logger, jwtSecret string, api *APIHandler, orders *OrderHandler, credit *CreditHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger(log))

	router.GET("/health", api.Health)

	apiGroup := router.Group("/api", middleware.Authenticate(jwtSecret))
	{
		orderGroup := apiGroup.Group("/orders")
		orderGroup.POST("", middleware.RequireRoles(middleware.RoleWaiter, middleware.RoleAdmin), orders.CreateOrder)
		orderGroup.GET("", middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleCashier), orders.ListOrders)
		orderGroup.GET("/daily", middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleCashier), orders.GetDailyOrders)
		orderGroup.GET("/table/:table_number", middleware.RequireRoles(middleware.RoleWaiter, middleware.RoleCashier, middleware.RoleAdmin), orders.GetTableOrders)
		orderGroup.GET("/:id", middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleCashier, middleware.RoleWaiter), orders.GetOrder)
		orderGroup.GET("/:id/status-history", middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleCashier), orders.GetStatusHistory)
		orderGroup.PUT("/:id/status", middleware.RequireRoles(middleware.RoleCashier, middleware.RoleAdmin), orders.UpdateStatus)

		creditGroup := apiGroup.Group("/credit-book", middleware.RequireRoles(middleware.RoleAdmin))
		creditGroup.POST("/customers", credit.CreateCustomer)
		creditGroup.GET("/customers", credit.ListCustomers)
		creditGroup.GET("/customers/:id", credit.GetCustomer)
		creditGroup.DELETE("/customers/:id", credit.DeleteCustomer)
		creditGroup.POST("/debt", credit.AddDebt)
	}

	return router
}

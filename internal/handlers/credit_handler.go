package handlers

import (
	"net/http"
	"time"

	"restaurant_pos/internal/middleware"
	"restaurant_pos/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreditHandler struct {
	creditService services.CreditService
}

func NewCreditHandler(creditService services.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

type CreateCustomerRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Notes        string `json:"notes"`
}

type AddDebtRequest struct {
	CreditBookID uint            `json:"credit_book_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         string          `json:"date"`
}

func (h *CreditHandler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Customer name is required")
		return
	}

	id, err := h.creditService.CreateAccount(c.Request.Context(), req.CustomerName, req.Phone, req.Address, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Customer added successfully", gin.H{"customerId": id})
}

func (h *CreditHandler) ListCustomers(c *gin.Context) {
	accounts, err := h.creditService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Customers retrieved successfully", accounts)
}

func (h *CreditHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	detail, err := h.creditService.GetAccountDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Customer retrieved successfully", detail)
}

func (h *CreditHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	if err := h.creditService.DeactivateAccount(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Customer deleted successfully", nil)
}

func (h *CreditHandler) AddDebt(c *gin.Context) {
	var req AddDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid debt data")
		return
	}

	date, err := parseDebtDate(req.Date)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid date")
		return
	}

	var createdBy uint
	if user, ok := middleware.CurrentUser(c); ok {
		createdBy = user.UserID
	}

	applied, err := h.creditService.AddDebt(c.Request.Context(), req.CreditBookID, req.Amount, req.Description, date, createdBy)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Debt added successfully", gin.H{"amount": applied})
}

// parseDebtDate accepts RFC 3339 or YYYY-MM-DD. Empty means now.
func parseDebtDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditAccount is a credit book customer with a running balance.
type CreditAccount struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	CustomerName string          `json:"customer_name" gorm:"not null;index"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	TotalCredit  decimal.Decimal `json:"total_credit" gorm:"type:decimal(12,2);not null;default:0"`
	Notes        string          `json:"notes" gorm:"type:text"`
	IsActive     bool            `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (CreditAccount) TableName() string {
	return "credit_book"
}

type CreditTransactionType string

const (
	CreditDebit CreditTransactionType = "debit"
)

// CreditTransaction is an append-only ledger entry. Rows are never updated or deleted.
type CreditTransaction struct {
	ID              uint                  `json:"id" gorm:"primaryKey"`
	CreditBookID    uint                  `json:"credit_book_id" gorm:"not null;index"`
	Type            CreditTransactionType `json:"type" gorm:"type:varchar(10);not null"`
	Amount          decimal.Decimal       `json:"amount" gorm:"type:decimal(12,2);not null"`
	Description     string                `json:"description"`
	TransactionDate time.Time             `json:"transaction_date" gorm:"not null;index"`
	CreatedBy       uint                  `json:"created_by"`
}

// CreditAccountSummary is an account with its transaction count.
type CreditAccountSummary struct {
	CreditAccount
	TransactionCount int64 `json:"transaction_count"`
}

type CreditAccountDetail struct {
	CreditAccount
	TransactionCount int64               `json:"transaction_count"`
	Transactions     []CreditTransaction `json:"transactions"`
}

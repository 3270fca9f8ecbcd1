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

type CreditRepository interface {
	CreateAccount(ctx context.Context, account *models.CreditAccount) error
	GetAccount(ctx context.Context, id uint) (*models.CreditAccount, error)
	LockActiveAccount(ctx context.Context, id uint) (*models.CreditAccount, error)
	IncrementBalance(ctx context.Context, id uint, amount decimal.Decimal) error
	Deactivate(ctx context.Context, id uint) error
	GetActiveAccounts(ctx context.Context) ([]models.CreditAccountSummary, error)
	CreateTransaction(ctx context.Context, transaction *models.CreditTransaction) error
	GetTransactions(ctx context.Context, accountID uint) ([]models.CreditTransaction, error)
}

type creditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db)
}

func (r *creditRepository) CreateAccount(ctx context.Context, account *models.CreditAccount) error {
	return r.conn(ctx).Create(account).Error
}

func (r *creditRepository) GetAccount(ctx context.Context, id uint) (*models.CreditAccount, error) {
	var account models.CreditAccount
	err := r.conn(ctx).First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// LockActiveAccount returns gorm.ErrRecordNotFound for missing and inactive accounts alike.
func (r *creditRepository) LockActiveAccount(ctx context.Context, id uint) (*models.CreditAccount, error) {
	var account models.CreditAccount
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("is_active = ?", true).
		First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// IncrementBalance adds amount in a single statement so concurrent writers never lose an update.
func (r *creditRepository) IncrementBalance(ctx context.Context, id uint, amount decimal.Decimal) error {
	result := r.conn(ctx).Model(&models.CreditAccount{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_credit": gorm.Expr("total_credit + ?", amount),
		"updated_at":   time.Now(),
	})
	return affectedOne(result)
}

func (r *creditRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.conn(ctx).Model(&models.CreditAccount{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  false,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *creditRepository) GetActiveAccounts(ctx context.Context) ([]models.CreditAccountSummary, error) {
	var accounts []models.CreditAccountSummary
	err := r.conn(ctx).Model(&models.CreditAccount{}).
		Select("credit_book.*, (SELECT COUNT(*) FROM credit_transactions WHERE credit_transactions.credit_book_id = credit_book.id) AS transaction_count").
		Where("credit_book.is_active = ?", true).
		Order("credit_book.customer_name ASC, credit_book.id ASC").
		Scan(&accounts).Error
	return accounts, err
}

func (r *creditRepository) CreateTransaction(ctx context.Context, transaction *models.CreditTransaction) error {
	return r.conn(ctx).Create(transaction).Error
}

func (r *creditRepository) GetTransactions(ctx context.Context, accountID uint) ([]models.CreditTransaction, error) {
	var transactions []models.CreditTransaction
	err := r.conn(ctx).
		Where("credit_book_id = ?", accountID).
		Order("transaction_date DESC, id DESC").
		Find(&transactions).Error
	return transactions, err
}


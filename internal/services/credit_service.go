package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"restaurant_pos/internal/database"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MinCustomerNameLength = 2

var phonePattern = regexp.MustCompile(`^\+?[\d\s-]+$`)

type CreditService interface {
	CreateAccount(ctx context.Context, customerName, phone, address, notes string) (uint, error)
	AddDebt(ctx context.Context, accountID uint, amount decimal.Decimal, description string, date time.Time, createdBy uint) (decimal.Decimal, error)
	DeactivateAccount(ctx context.Context, accountID uint) error
	GetAccountDetail(ctx context.Context, accountID uint) (*models.CreditAccountDetail, error)
	ListAccounts(ctx context.Context) ([]models.CreditAccountSummary, error)
}

type creditService struct {
	coord      *database.Coordinator
	creditRepo repository.CreditRepository
	cache      *detailCache
	log        *zap.Logger
}

func NewCreditService(coord *database.Coordinator, creditRepo repository.CreditRepository, cache DetailCache, cacheTTL time.Duration, log *zap.Logger) CreditService {
	if log == nil {
		log = zap.NewNop()
	}
	return &creditService{
		coord:      coord,
		creditRepo: creditRepo,
		cache:      newDetailCache(cache, cacheTTL, log),
		log:        log,
	}
}

func (s *creditService) CreateAccount(ctx context.Context, customerName, phone, address, notes string) (uint, error) {
	customerName = strings.TrimSpace(customerName)
	phone = strings.TrimSpace(phone)

	if utf8.RuneCountInString(customerName) < MinCustomerNameLength {
		return 0, NewValidationError("Customer name must be at least 2 characters")
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return 0, NewValidationError("Phone may only contain digits, spaces, + and -")
	}

	account := &models.CreditAccount{
		CustomerName: customerName,
		Phone:        phone,
		Address:      strings.TrimSpace(address),
		Notes:        strings.TrimSpace(notes),
		TotalCredit:  decimal.Zero,
		IsActive:     true,
	}
	if err := s.creditRepo.CreateAccount(ctx, account); err != nil {
		return 0, s.fail(ctx, "create account", NewPersistenceError("Failed to create customer", err))
	}

	s.log.Info("credit account created", zap.Uint("account_id", account.ID))
	return account.ID, nil
}

// AddDebt appends a debit entry and raises the running balance in one unit of work.
// A zero date means now.
func (s *creditService) AddDebt(ctx context.Context, accountID uint, amount decimal.Decimal, description string, date time.Time, createdBy uint) (decimal.Decimal, error) {
	if accountID == 0 {
		return decimal.Zero, NewValidationError("Customer id must be a positive integer")
	}
	if !amount.IsPositive() {
		return decimal.Zero, NewValidationError("Amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return decimal.Zero, NewValidationError("Amount must have at most two decimal places")
	}
	if date.IsZero() {
		date = time.Now()
	}

	err := s.coord.Run(ctx, func(ctx context.Context) error {
		if _, err := s.creditRepo.LockActiveAccount(ctx, accountID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("Customer not found")
			}
			return NewPersistenceError("Failed to add debt", err)
		}

		if err := s.creditRepo.CreateTransaction(ctx, &models.CreditTransaction{
			CreditBookID:    accountID,
			Type:            models.CreditDebit,
			Amount:          amount,
			Description:     strings.TrimSpace(description),
			TransactionDate: date,
			CreatedBy:       createdBy,
		}); err != nil {
			return NewPersistenceError("Failed to add debt", err)
		}

		if err := s.creditRepo.IncrementBalance(ctx, accountID, amount); err != nil {
			return NewPersistenceError("Failed to add debt", err)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, s.fail(ctx, "add debt", err, zap.Uint("account_id", accountID))
	}

	s.cache.invalidate(ctx, accountCacheKey(accountID))
	s.log.Info("debt added",
		zap.Uint("account_id", accountID),
		zap.String("amount", amount.StringFixed(2)),
		zap.Uint("created_by", createdBy),
	)
	return amount, nil
}

// DeactivateAccount soft deletes the account. Its transactions are kept.
func (s *creditService) DeactivateAccount(ctx context.Context, accountID uint) error {
	if err := s.creditRepo.Deactivate(ctx, accountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Customer not found")
		}
		return s.fail(ctx, "deactivate account", NewPersistenceError("Failed to delete customer", err), zap.Uint("account_id", accountID))
	}

	s.cache.invalidate(ctx, accountCacheKey(accountID))
	s.log.Info("credit account deactivated", zap.Uint("account_id", accountID))
	return nil
}

// GetAccountDetail reads the account and its history from one snapshot, so the
// balance always matches the listed transactions.
func (s *creditService) GetAccountDetail(ctx context.Context, accountID uint) (*models.CreditAccountDetail, error) {
	key := accountCacheKey(accountID)
	var cached models.CreditAccountDetail
	if s.cache.get(ctx, key, &cached) {
		return &cached, nil
	}
	gen := s.cache.generation(key)

	var detail *models.CreditAccountDetail
	err := s.coord.RunSnapshot(ctx, func(ctx context.Context) error {
		account, err := s.creditRepo.GetAccount(ctx, accountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("Customer not found")
			}
			return NewPersistenceError("Failed to fetch customer", err)
		}

		transactions, err := s.creditRepo.GetTransactions(ctx, accountID)
		if err != nil {
			return NewPersistenceError("Failed to fetch customer", err)
		}

		detail = &models.CreditAccountDetail{
			CreditAccount:    *account,
			TransactionCount: int64(len(transactions)),
			Transactions:     transactions,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "get account", err, zap.Uint("account_id", accountID))
	}

	s.cache.set(ctx, key, gen, detail)
	return detail, nil
}

func (s *creditService) ListAccounts(ctx context.Context) ([]models.CreditAccountSummary, error) {
	accounts, err := s.creditRepo.GetActiveAccounts(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list accounts", NewPersistenceError("Failed to fetch customers", err))
	}
	return accounts, nil
}

func (s *creditService) fail(ctx context.Context, op string, err error, fields ...zap.Field) error {
	return logServiceError(ctx, s.log, op, err, fields...)
}

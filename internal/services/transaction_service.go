package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "paydown/internal/errors"
	"paydown/internal/models"
	"paydown/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
	budgetService  BudgetServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer, budgetService BudgetServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
		budgetService:  budgetService,
	}
}

// CreateTransaction posts a signed transaction to a user's account, adjusting
// the account balance and, when an envelope is referenced, its spent total.
func (s *transactionService) CreateTransaction(
	userID, accountID uint,
	budgetID *uint,
	amount int64,
	description, category string,
	date time.Time,
) (*models.Transaction, error) {
	if amount == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be zero")
	}
	if accountID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	if budgetID != nil {
		if _, err := s.budgetService.GetBudgetByID(userID, *budgetID); err != nil {
			return nil, err
		}
	}

	var result *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.CreateInTx(tx, userID, account, budgetID, amount, description, category, date)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateInTx creates a transaction and applies its side effects inside the
// given database transaction. The transfer engine uses this to post both
// legs of a credit card payment under a single commit boundary.
func (s *transactionService) CreateInTx(
	tx *gorm.DB,
	userID uint,
	account *models.Account,
	budgetID *uint,
	amount int64,
	description, category string,
	date time.Time,
) (*models.Transaction, error) {
	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   account.ID,
		BudgetID:    budgetID,
		Amount:      amount,
		Description: description,
		Category:    category,
		Date:        date,
	}

	if err := tx.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.accountService.ApplyToBalance(tx, account.ID, amount); err != nil {
		return nil, err
	}

	// Envelope spending tracks outflows only; inflows against a budget are
	// treated as refunds reducing spent.
	if budgetID != nil {
		if err := s.budgetService.AddSpent(tx, *budgetID, -amount); err != nil {
			return nil, err
		}
	}

	return transaction, nil
}

// GetAccountTransactions retrieves a paginated, filtered list of transactions
// for a specific account.
func (s *transactionService) GetAccountTransactions(userID, accountID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	// First verify the account belongs to the user
	if _, err := s.accountService.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ? AND account_id = ?", userID, accountID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.BudgetID != nil {
		q = q.Where("budget_id = ?", *f.BudgetID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// ListUserTransactions returns the user's full transaction history in date
// order. The progress tracker recomputes its detection over this set on
// every read.
func (s *transactionService) ListUserTransactions(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Order("date").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// DeleteTransaction deletes a transaction and reverses its side effects.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := s.accountService.ApplyToBalance(tx, transaction.AccountID, -transaction.Amount); err != nil {
			return err
		}

		if transaction.BudgetID != nil {
			if err := s.budgetService.AddSpent(tx, *transaction.BudgetID, transaction.Amount); err != nil {
				return err
			}
		}

		return nil
	})
}

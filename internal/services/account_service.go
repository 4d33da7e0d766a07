package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "paydown/internal/errors"
	"paydown/internal/models"
	"paydown/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account for a user. For credit accounts the
// initial balance is the signed stored balance, so an account carrying debt
// is created with a negative value.
func (s *accountService) CreateAccount(userID uint, name, description, currency string, accountType models.AccountType, initialBalance int64, interestRate float64, minimumPayment int64) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if currency == "" {
		currency = "USD"
	}
	if accountType != models.AccountTypeCredit {
		interestRate = 0
		minimumPayment = 0
	}

	account := &models.Account{
		UserID:         userID,
		Name:           name,
		Type:           accountType,
		Description:    description,
		Balance:        initialBalance,
		Currency:       currency,
		IsActive:       true,
		InterestRate:   interestRate,
		MinimumPayment: minimumPayment,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// A non-zero opening balance is recorded as a transaction so the
		// account's history reconciles with its balance from day one.
		if initialBalance != 0 {
			opening := &models.Transaction{
				UserID:      userID,
				AccountID:   account.ID,
				Amount:      initialBalance,
				Description: "Starting balance",
				Date:        time.Now(),
			}
			if err := tx.Create(opening).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetUserAccounts retrieves a paginated list of accounts for a user.
func (s *accountService) GetUserAccounts(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	base := s.db.Model(&models.Account{}).Where("user_id = ? AND is_active = ?", userID, true)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListUserAccounts returns all active accounts for a user without pagination.
// Used by the progress tracker, which needs the full set to resolve
// transaction sources.
func (s *accountService) ListUserAccounts(userID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// GetAccountByID retrieves an account by ID for a specific user.
func (s *accountService) GetAccountByID(userID, accountID uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// GetCreditAccounts returns the user's active credit accounts in creation
// order. Order matters: ambiguous payment matching falls back to the first
// listed card.
func (s *accountService) GetCreditAccounts(userID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ? AND type = ? AND is_active = ?", userID, models.AccountTypeCredit, true).
		Order("id").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// ApplyToBalance adjusts an account balance by a signed delta within the
// caller's database transaction.
func (s *accountService) ApplyToBalance(tx *gorm.DB, accountID uint, delta int64) error {
	if err := tx.Model(&models.Account{}).Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", delta)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

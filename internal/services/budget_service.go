package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "paydown/internal/errors"
	"paydown/internal/models"
	"paydown/internal/pagination"
)

// budgetService handles envelope-budget business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new envelope for a category and month.
func (s *budgetService) CreateBudget(userID uint, name, category, month string, budgeted int64) (*models.Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if category == "" {
		category = name
	}
	if budgeted < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budgeted amount cannot be negative")
	}

	budget := &models.Budget{
		UserID:   userID,
		Name:     name,
		Category: category,
		Month:    month,
		Budgeted: budgeted,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns a paginated list of budgets, optionally filtered by month.
func (s *budgetService) GetUserBudgets(userID uint, month string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if month != "" {
		base = base.Where("month = ?", month)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).Order("category").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// FindOrCreateCategoryBudget locates the envelope for the given category and
// month, creating an empty one when it does not exist yet. Runs inside the
// caller's database transaction.
func (s *budgetService) FindOrCreateCategoryBudget(tx *gorm.DB, userID uint, category, month string) (*models.Budget, error) {
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget category is required")
	}

	var budget models.Budget
	err := tx.Where("user_id = ? AND category = ? AND month = ?", userID, category, month).First(&budget).Error
	if err == nil {
		return &budget, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget = models.Budget{
		UserID:   userID,
		Name:     category,
		Category: category,
		Month:    month,
	}
	if err := tx.Create(&budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// MoveAllocation moves budgeted funds from one envelope to another within the
// caller's database transaction. The source envelope's available balance is
// allowed to go negative; overspending is surfaced as a reporting concern,
// not rejected at write time.
func (s *budgetService) MoveAllocation(tx *gorm.DB, userID, fromBudgetID, toBudgetID uint, amount int64) error {
	if amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "transfer amount must be positive")
	}

	for _, id := range []uint{fromBudgetID, toBudgetID} {
		var count int64
		if err := tx.Model(&models.Budget{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.ErrBudgetNotFound
		}
	}

	if err := tx.Model(&models.Budget{}).Where("id = ?", fromBudgetID).
		Update("budgeted", gorm.Expr("budgeted - ?", amount)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := tx.Model(&models.Budget{}).Where("id = ?", toBudgetID).
		Update("budgeted", gorm.Expr("budgeted + ?", amount)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddSpent adjusts an envelope's spent total by a signed delta within the
// caller's database transaction.
func (s *budgetService) AddSpent(tx *gorm.DB, budgetID uint, delta int64) error {
	if err := tx.Model(&models.Budget{}).Where("id = ?", budgetID).
		Update("spent", gorm.Expr("spent + ?", delta)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

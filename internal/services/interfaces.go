package services

import (
	"time"

	"gorm.io/gorm"

	"paydown/internal/models"
	"paydown/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID uint, name, description, currency string, accountType models.AccountType, initialBalance int64, interestRate float64, minimumPayment int64) (*models.Account, error)
	GetUserAccounts(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	ListUserAccounts(userID uint) ([]models.Account, error)
	GetAccountByID(userID, accountID uint) (*models.Account, error)
	GetCreditAccounts(userID uint) ([]models.Account, error)
	ApplyToBalance(tx *gorm.DB, accountID uint, delta int64) error
}

// BudgetServicer defines the contract for envelope-budget business logic.
type BudgetServicer interface {
	CreateBudget(userID uint, name, category, month string, budgeted int64) (*models.Budget, error)
	GetUserBudgets(userID uint, month string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	FindOrCreateCategoryBudget(tx *gorm.DB, userID uint, category, month string) (*models.Budget, error)
	MoveAllocation(tx *gorm.DB, userID, fromBudgetID, toBudgetID uint, amount int64) error
	AddSpent(tx *gorm.DB, budgetID uint, delta int64) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	BudgetID  *uint
	MinAmount *int64
	MaxAmount *int64
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, accountID uint, budgetID *uint, amount int64, description, category string, date time.Time) (*models.Transaction, error)
	CreateInTx(tx *gorm.DB, userID uint, account *models.Account, budgetID *uint, amount int64, description, category string, date time.Time) (*models.Transaction, error)
	GetAccountTransactions(userID, accountID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	ListUserTransactions(userID uint) ([]models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// TransferLeg is a draft transaction for one side of a credit-card
// payment.
type TransferLeg struct {
	AccountID   uint
	BudgetID    *uint
	Amount      int64 // signed cents: negative for the depository leg, positive for the card leg
	Description string
	Category    string
	Date        time.Time
}

// CreditCardTransfer bundles the two posted legs and the ledger row that
// links them.
type CreditCardTransfer struct {
	CheckingTransaction   *models.Transaction    `json:"checking_transaction"`
	CreditCardTransaction *models.Transaction    `json:"credit_card_transaction"`
	Transfer              *models.BudgetTransfer `json:"transfer"`
}

// TransferServicer defines the contract for the budget transfer engine.
type TransferServicer interface {
	RecordCreditCardTransfer(userID uint, checkingLeg, creditLeg TransferLeg) (*CreditCardTransfer, error)
	AutomateCreditCardPayment(userID uint, checkingLeg TransferLeg) (*CreditCardTransfer, error)
	AutomateIfPayment(userID uint, source *models.Account, checkingLeg TransferLeg) (*CreditCardTransfer, bool, error)
	MatchCreditCardAccount(userID uint, description string) (*models.Account, error)
	ListTransfers(userID uint, transactionID *uint, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetTransfer], error)
}

// MonthlyPaymentBucket aggregates detected debt payments for one calendar month.
type MonthlyPaymentBucket struct {
	Month string `json:"month"` // display label, e.g. "Jan 2024"
	Total int64  `json:"total"` // sum of absolute amounts, cents
	Count int    `json:"count"`
}

// PlanDetail is a plan enriched with derived, read-time data.
type PlanDetail struct {
	Plan           *models.DebtPlan       `json:"plan"`
	Steps          []string               `json:"steps"`
	Progress       float64                `json:"progress"`
	RecentPayments []MonthlyPaymentBucket `json:"recent_payments"`
}

// StrategyComparison holds both simulated strategies for one debt set.
type StrategyComparison struct {
	Snowball      *PlanResult           `json:"snowball"`
	Avalanche     *PlanResult           `json:"avalanche"`
	Recommended   models.PayoffStrategy `json:"recommended"`
	InterestSaved int64                 `json:"interest_saved"` // snowball interest minus avalanche interest, floored at 0
	MonthsSaved   int                   `json:"months_saved"`
}

// PlanServicer defines the contract for debt plan lifecycle operations.
type PlanServicer interface {
	GetActivePlan(userID uint) (*PlanDetail, error)
	CreatePlan(userID uint, strategy models.PayoffStrategy, extraPayment int64, autoTrack bool) (*PlanDetail, error)
	DeletePlan(userID, planID uint) error
	RecordPayment(userID, planID uint, amount int64, targetDebt string, date time.Time) (*PlanDetail, error)
	CompareStrategies(userID uint, extraPayment int64) (*StrategyComparison, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]any)
}

// Package errors provides custom error types for the Paydown API.
// All service-layer errors should use AppError so that handlers can
// produce consistent responses that never leak internal details.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Account errors.
var (
	ErrAccountNotFound = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
)

// Budget errors.
var (
	ErrBudgetNotFound = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Debt plan errors.
var (
	ErrPlanNotFound = &AppError{Code: "PLAN_NOT_FOUND", Message: "Debt plan not found", StatusCode: http.StatusNotFound}

	// ErrNoDebts is returned when plan generation is requested but the user
	// has no credit accounts carrying a balance.
	ErrNoDebts = &AppError{Code: "NO_DEBTS", Message: "No debts available for payoff planning", StatusCode: http.StatusBadRequest}

	// ErrUnpayableSchedule is returned when the amortization simulation cannot
	// converge: combined payments never cover monthly interest accrual, or the
	// schedule exceeds the simulation safety bound.
	ErrUnpayableSchedule = &AppError{Code: "UNPAYABLE_SCHEDULE", Message: "Debts cannot be paid off under the current payment; increase the extra payment", StatusCode: http.StatusBadRequest}

	// ErrManualPlanOnly is returned when a manual payment is recorded against
	// a plan whose progress is derived automatically from transactions.
	ErrManualPlanOnly = &AppError{Code: "MANUAL_PLAN_ONLY", Message: "Payments cannot be recorded on an auto-tracked plan", StatusCode: http.StatusBadRequest}
)

// Transfer errors.
var (
	// ErrNoCreditCardAccount is a recoverable condition: the caller should
	// fall back to recording a plain transaction without automation.
	ErrNoCreditCardAccount = &AppError{Code: "NO_CREDIT_CARD_ACCOUNT", Message: "No credit card account exists for this user", StatusCode: http.StatusUnprocessableEntity}

	ErrTransferNotFound = &AppError{Code: "TRANSFER_NOT_FOUND", Message: "Budget transfer not found", StatusCode: http.StatusNotFound}
)

package models

import "time"

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCash     AccountType = "cash"
	AccountTypeCredit   AccountType = "credit"
)

// IsDepository reports whether the account type holds the user's own funds
// (checking, savings, or cash), as opposed to a liability account.
func (t AccountType) IsDepository() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCash:
		return true
	}
	return false
}

// Account represents a financial account in the system. Balances are stored
// in cents and signed: credit accounts carry a negative balance equal to the
// amount owed.
type Account struct {
	Base
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	Name        string      `gorm:"not null" json:"name"`
	Type        AccountType `gorm:"not null" json:"type"`
	Description string      `json:"description"`
	Balance     int64       `gorm:"type:bigint;not null;default:0" json:"balance"`
	Currency    string      `gorm:"not null;default:'USD'" json:"currency"`
	IsActive    bool        `gorm:"default:true" json:"is_active"`

	// For credit accounts
	CreditLimit    int64      `gorm:"type:bigint" json:"credit_limit,omitempty"`
	InterestRate   float64    `json:"interest_rate,omitempty"`
	MinimumPayment int64      `gorm:"type:bigint" json:"minimum_payment,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}

// OwedAmount returns the positive magnitude owed on a credit account,
// or zero when the account is not carrying a balance.
func (a *Account) OwedAmount() int64 {
	if a.Type != AccountTypeCredit || a.Balance >= 0 {
		return 0
	}
	return -a.Balance
}

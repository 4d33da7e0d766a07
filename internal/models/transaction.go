package models

import "time"

// Transaction represents a posted transaction. Amount is in signed cents:
// negative is an outflow from the account, positive an inflow.
type Transaction struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	AccountID   uint      `gorm:"not null;index" json:"account_id"`
	BudgetID    *uint     `json:"budget_id,omitempty"`
	Amount      int64     `gorm:"type:bigint;not null" json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `gorm:"not null" json:"date"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Budget  *Budget `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
}

// IsOutflow reports whether the transaction moves money out of its account.
func (t *Transaction) IsOutflow() bool {
	return t.Amount < 0
}

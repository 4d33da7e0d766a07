package models

import (
	"gorm.io/gorm"

	"paydown/internal/uuid"
)

// BudgetTransfer is an append-only ledger entry recording money moved from
// one envelope to another. Rows are never mutated after creation.
type BudgetTransfer struct {
	Base
	UserID        uint   `gorm:"not null;index" json:"user_id"`
	Reference     string `gorm:"size:36;uniqueIndex" json:"reference"`
	Amount        int64  `gorm:"type:bigint;not null" json:"amount"`
	Reason        string `gorm:"not null" json:"reason"`
	Automated     bool   `gorm:"not null;default:false" json:"automated"`
	FromBudgetID  uint   `gorm:"not null" json:"from_budget_id"`
	ToBudgetID    uint   `gorm:"not null" json:"to_budget_id"`
	TransactionID *uint  `json:"transaction_id,omitempty"`

	FromBudget  Budget       `gorm:"foreignKey:FromBudgetID" json:"from_budget,omitempty"`
	ToBudget    Budget       `gorm:"foreignKey:ToBudgetID" json:"to_budget,omitempty"`
	Transaction *Transaction `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
}

// BeforeCreate assigns a time-ordered public reference.
func (t *BudgetTransfer) BeforeCreate(tx *gorm.DB) error {
	if t.Reference == "" {
		t.Reference = uuid.New()
	}
	return nil
}

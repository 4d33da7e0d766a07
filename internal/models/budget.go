package models

// Budget represents one envelope: an amount of income assigned to a named
// spending category for a given month. Amounts are in cents. Available is
// derived (budgeted minus spent) and may go negative; overspending is a
// reporting concern, not a write-time constraint.
type Budget struct {
	Base
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Name     string `gorm:"not null" json:"name"`
	Category string `gorm:"not null" json:"category"`
	Month    string `gorm:"not null;size:7" json:"month"` // "2024-01"
	Budgeted int64  `gorm:"type:bigint;not null;default:0" json:"budgeted"`
	Spent    int64  `gorm:"type:bigint;not null;default:0" json:"spent"`

	Transactions []Transaction `gorm:"foreignKey:BudgetID" json:"transactions,omitempty"`
}

// Available returns the envelope's remaining balance for the month.
func (b *Budget) Available() int64 {
	return b.Budgeted - b.Spent
}

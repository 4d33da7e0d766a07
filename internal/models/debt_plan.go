package models

import (
	"time"

	"gorm.io/gorm"

	"paydown/internal/uuid"
)

// PayoffStrategy represents the ordering rule for a debt payoff plan.
type PayoffStrategy string

const (
	StrategySnowball  PayoffStrategy = "snowball"
	StrategyAvalanche PayoffStrategy = "avalanche"
	StrategyAICustom  PayoffStrategy = "ai_custom"
)

// PlanStatus represents the lifecycle state of a debt plan.
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusPaused    PlanStatus = "paused"
)

// DebtPlan is a persisted payoff strategy. Debt balances are snapshotted at
// generation time: TotalDebt is frozen and does not follow the underlying
// accounts. At most one plan is active per user; generating a new plan
// supersedes the prior active one.
type DebtPlan struct {
	Base
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	Reference       string         `gorm:"size:36;uniqueIndex" json:"reference"`
	Title           string         `gorm:"not null" json:"title"`
	Description     string         `json:"description"`
	Strategy        PayoffStrategy `gorm:"not null" json:"strategy"`
	Steps           string         `gorm:"type:text" json:"-"` // JSON-encoded []string, payoff order
	Debts           string         `gorm:"type:text" json:"-"` // JSON-encoded debt snapshot at generation time
	TotalDebt       int64          `gorm:"type:bigint;not null" json:"total_debt"`
	MonthlyPayment  int64          `gorm:"type:bigint;not null" json:"monthly_payment"`
	ExtraPayment    int64          `gorm:"type:bigint;not null" json:"extra_payment"`
	EstimatedMonths int            `gorm:"not null" json:"estimated_months"`
	InterestPaid    int64          `gorm:"type:bigint" json:"interest_paid"`
	InterestSaved   int64          `gorm:"type:bigint" json:"interest_saved"`
	Progress        float64        `gorm:"not null;default:0" json:"progress"`
	Status          PlanStatus     `gorm:"not null;default:'active'" json:"status"`

	// AutoTrack selects the progress-tracking variant: true derives progress
	// from the live transaction set on every read, false relies on payments
	// recorded explicitly through the API.
	AutoTrack bool `gorm:"default:false" json:"auto_track"`

	Payments []PlanPayment `gorm:"foreignKey:PlanID" json:"payments,omitempty"`
}

// BeforeCreate assigns a time-ordered public reference.
func (p *DebtPlan) BeforeCreate(tx *gorm.DB) error {
	if p.Reference == "" {
		p.Reference = uuid.New()
	}
	return nil
}

// PlanPayment is one payment recorded against a plan (manual variant).
type PlanPayment struct {
	Base
	PlanID     uint      `gorm:"not null;index" json:"plan_id"`
	Amount     int64     `gorm:"type:bigint;not null" json:"amount"`
	TargetDebt string    `json:"target_debt"`
	Date       time.Time `gorm:"not null" json:"date"`
	Month      string    `gorm:"size:16" json:"month"` // display label, e.g. "Jan 2024"
}

package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"paydown/internal/cache"
	apperrors "paydown/internal/errors"
	"paydown/internal/logger"
	"paydown/internal/models"
)

// planService handles debt plan lifecycle operations.
type planService struct {
	db             *gorm.DB
	accountService AccountServicer
	txService      TransactionServicer
	classifier     PaymentClassifier
	cache          cache.Cache
}

// NewPlanService creates a new PlanServicer.
func NewPlanService(db *gorm.DB, accountService AccountServicer, txService TransactionServicer, classifier PaymentClassifier, c cache.Cache) PlanServicer {
	return &planService{
		db:             db,
		accountService: accountService,
		txService:      txService,
		classifier:     classifier,
		cache:          c,
	}
}

// snapshotDebts freezes the user's credit accounts carrying a balance into
// planning inputs. Stored balances are negative for amounts owed; the sign
// is flipped to a positive magnitude here.
func (s *planService) snapshotDebts(userID uint) ([]Debt, error) {
	accounts, err := s.accountService.GetCreditAccounts(userID)
	if err != nil {
		return nil, err
	}

	var debts []Debt
	for i := range accounts {
		owed := accounts[i].OwedAmount()
		if owed == 0 {
			continue
		}
		debts = append(debts, Debt{
			Name:           accounts[i].Name,
			Balance:        owed,
			InterestRate:   accounts[i].InterestRate,
			MinimumPayment: accounts[i].MinimumPayment,
		})
	}
	return debts, nil
}

// GetActivePlan returns the user's active plan with derived read-time data,
// or nil (without error) when no plan is active. The HTTP layer maps the nil
// case to a 200 with a null body rather than a 404, since "no active plan"
// is a normal state, not a failure.
func (s *planService) GetActivePlan(userID uint) (*PlanDetail, error) {
	var plan models.DebtPlan
	err := s.db.Preload("Payments").
		Where("user_id = ? AND status = ?", userID, models.PlanStatusActive).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.buildDetail(userID, &plan)
}

// buildDetail attaches steps and the progress view appropriate to the plan's
// tracking variant. Auto-tracked progress is recomputed from the live
// transaction set on every call by design.
func (s *planService) buildDetail(userID uint, plan *models.DebtPlan) (*PlanDetail, error) {
	var steps []string
	if plan.Steps != "" {
		if err := json.Unmarshal([]byte(plan.Steps), &steps); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	detail := &PlanDetail{
		Plan:     plan,
		Steps:    steps,
		Progress: plan.Progress,
	}

	if !plan.AutoTrack {
		return detail, nil
	}

	var debts []Debt
	if plan.Debts != "" {
		if err := json.Unmarshal([]byte(plan.Debts), &debts); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	debtNames := make([]string, len(debts))
	for i, d := range debts {
		debtNames[i] = d.Name
	}

	transactions, err := s.txService.ListUserTransactions(userID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accountService.ListUserAccounts(userID)
	if err != nil {
		return nil, err
	}

	buckets, detectedTotal := DetectPayments(s.classifier, transactions, accounts, debtNames)
	detail.RecentPayments = buckets
	detail.Progress = ComputeProgress(plan.TotalDebt, detectedTotal)
	return detail, nil
}

// CreatePlan snapshots the user's debts, runs the payoff simulation, and
// persists the result as the active plan. Any prior active plan is
// superseded in the same storage transaction: last write wins, and the old
// plan is removed rather than archived.
func (s *planService) CreatePlan(userID uint, strategy models.PayoffStrategy, extraPayment int64, autoTrack bool) (*PlanDetail, error) {
	debts, err := s.snapshotDebts(userID)
	if err != nil {
		return nil, err
	}

	result, err := GeneratePlan(debts, strategy, extraPayment)
	if err != nil {
		return nil, err
	}

	stepsJSON, err := json.Marshal(result.Steps)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	debtsJSON, err := json.Marshal(debts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	plan := &models.DebtPlan{
		UserID:          userID,
		Title:           planTitle(strategy),
		Description:     fmt.Sprintf("Pay off %d debts in %d months", len(debts), result.EstimatedMonths),
		Strategy:        strategy,
		Steps:           string(stepsJSON),
		Debts:           string(debtsJSON),
		TotalDebt:       result.TotalDebt,
		MonthlyPayment:  result.MonthlyPayment,
		ExtraPayment:    extraPayment,
		EstimatedMonths: result.EstimatedMonths,
		InterestPaid:    result.InterestPaid,
		InterestSaved:   result.InterestSaved,
		Status:          models.PlanStatusActive,
		AutoTrack:       autoTrack,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.DebtPlan
		if err := tx.Where("user_id = ? AND status = ?", userID, models.PlanStatusActive).
			Find(&existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for i := range existing {
			if err := tx.Where("plan_id = ?", existing[i].ID).
				Unscoped().Delete(&models.PlanPayment{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if err := tx.Unscoped().Delete(&existing[i]).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if err := tx.Create(plan).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("debt plan created",
		"user_id", userID,
		"plan_ref", plan.Reference,
		"strategy", strategy,
		"total_debt", plan.TotalDebt,
		"estimated_months", plan.EstimatedMonths,
	)

	return s.buildDetail(userID, plan)
}

// DeletePlan hard-deletes a plan and its recorded payments.
func (s *planService) DeletePlan(userID, planID uint) error {
	var plan models.DebtPlan
	if err := s.db.Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPlanNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", plan.ID).
			Unscoped().Delete(&models.PlanPayment{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Delete(&plan).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// RecordPayment appends a manual payment to a plan and recomputes its stored
// progress. Only manually tracked plans accept recorded payments; an
// auto-tracked plan derives them from transactions instead.
func (s *planService) RecordPayment(userID, planID uint, amount int64, targetDebt string, date time.Time) (*PlanDetail, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payment amount must be positive")
	}

	var plan models.DebtPlan
	if err := s.db.Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if plan.AutoTrack {
		return nil, apperrors.ErrManualPlanOnly
	}

	if date.IsZero() {
		date = time.Now()
	}

	payment := &models.PlanPayment{
		PlanID:     plan.ID,
		Amount:     amount,
		TargetDebt: targetDebt,
		Date:       date,
		Month:      date.Format("Jan 2006"),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var paidTotal int64
		if err := tx.Model(&models.PlanPayment{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("plan_id = ?", plan.ID).
			Scan(&paidTotal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		plan.Progress = ComputeProgress(plan.TotalDebt, paidTotal)
		if err := tx.Model(&plan).Update("progress", plan.Progress).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Payments").First(&plan, plan.ID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.buildDetail(userID, &plan)
}

// CompareStrategies simulates both strategies over the user's current debt
// snapshot. Results are memoized keyed on the snapshot and extra payment, so
// a changed balance or input always misses the cache; the derived progress
// view is never cached.
func (s *planService) CompareStrategies(userID uint, extraPayment int64) (*StrategyComparison, error) {
	debts, err := s.snapshotDebts(userID)
	if err != nil {
		return nil, err
	}
	if len(debts) == 0 {
		return nil, apperrors.ErrNoDebts
	}

	key, err := comparisonCacheKey(debts, extraPayment)
	if err == nil {
		if cached, ok := s.cache.Get(key); ok {
			var comparison StrategyComparison
			if jsonErr := json.Unmarshal([]byte(cached), &comparison); jsonErr == nil {
				return &comparison, nil
			}
		}
	}

	snowball, err := GeneratePlan(debts, models.StrategySnowball, extraPayment)
	if err != nil {
		return nil, err
	}
	avalanche, err := GeneratePlan(debts, models.StrategyAvalanche, extraPayment)
	if err != nil {
		return nil, err
	}

	comparison := &StrategyComparison{
		Snowball:    snowball,
		Avalanche:   avalanche,
		Recommended: models.StrategyAvalanche,
		MonthsSaved: snowball.EstimatedMonths - avalanche.EstimatedMonths,
	}
	if saved := snowball.InterestPaid - avalanche.InterestPaid; saved > 0 {
		comparison.InterestSaved = saved
	}
	if comparison.InterestSaved == 0 && comparison.MonthsSaved <= 0 {
		comparison.Recommended = models.StrategySnowball
	}

	if key != "" {
		if data, jsonErr := json.Marshal(comparison); jsonErr == nil {
			if cacheErr := s.cache.Set(key, string(data)); cacheErr != nil {
				logger.Get().Warnw("failed to cache strategy comparison", "error", cacheErr)
			}
		}
	}

	return comparison, nil
}

func planTitle(strategy models.PayoffStrategy) string {
	switch strategy {
	case models.StrategySnowball:
		return "Debt Snowball Plan"
	case models.StrategyAvalanche:
		return "Debt Avalanche Plan"
	default:
		return "Debt Payoff Plan"
	}
}

// comparisonCacheKey hashes the debt snapshot and extra payment into a
// stable cache key.
func comparisonCacheKey(debts []Debt, extraPayment int64) (string, error) {
	data, err := json.Marshal(struct {
		Debts []Debt `json:"debts"`
		Extra int64  `json:"extra"`
	}{debts, extraPayment})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return "plan:compare:" + hex.EncodeToString(sum[:]), nil
}

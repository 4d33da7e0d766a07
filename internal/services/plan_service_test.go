package services

import (
	"testing"
	"time"

	"paydown/internal/cache"
	"paydown/internal/models"
	"paydown/internal/testutil"

	"gorm.io/gorm"
)

// countingCache wraps a real cache and records traffic.
type countingCache struct {
	inner cache.Cache
	gets  int
	hits  int
	sets  int
}

func (c *countingCache) Get(key string) (string, bool) {
	c.gets++
	value, ok := c.inner.Get(key)
	if ok {
		c.hits++
	}
	return value, ok
}

func (c *countingCache) Set(key, value string) error {
	c.sets++
	return c.inner.Set(key, value)
}

func newPlanFixture(t *testing.T) (*gorm.DB, PlanServicer, *countingCache, *models.User) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	accountService := NewAccountService(db)
	budgetService := NewBudgetService(db)
	transactionService := NewTransactionService(db, accountService, budgetService)
	planCache := &countingCache{inner: cache.NewMemoryCache()}
	planService := NewPlanService(db, accountService, transactionService, NewKeywordClassifier(), planCache)

	user := testutil.CreateTestUser(t, db)
	return db, planService, planCache, user
}

func seedDebts(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()
	testutil.CreateTestCreditAccount(t, db, userID, "Visa", 150000, 0.10, 3000)
	testutil.CreateTestCreditAccount(t, db, userID, "Store Card", 50000, 0.20, 2500)
}

func TestCreatePlanRoundTrip(t *testing.T) {
	db, svc, _, user := newPlanFixture(t)
	seedDebts(t, db, user.ID)

	detail, err := svc.CreatePlan(user.ID, models.StrategySnowball, 10000, false)
	testutil.AssertNoError(t, err)

	plan := detail.Plan
	if plan.Reference == "" {
		t.Error("plan should carry a public reference")
	}
	if plan.TotalDebt != 200000 {
		t.Errorf("TotalDebt = %d, want 200000", plan.TotalDebt)
	}
	if plan.MonthlyPayment != 15500 {
		t.Errorf("MonthlyPayment = %d, want minimums plus extra = 15500", plan.MonthlyPayment)
	}
	if plan.Status != models.PlanStatusActive {
		t.Errorf("Status = %q, want active", plan.Status)
	}
	if plan.EstimatedMonths <= 0 {
		t.Errorf("EstimatedMonths = %d, want > 0", plan.EstimatedMonths)
	}

	// Snowball retires the smaller balance first.
	if len(detail.Steps) != 2 || detail.Steps[0] != "Pay off Store Card" || detail.Steps[1] != "Pay off Visa" {
		t.Errorf("Steps = %v, want Store Card then Visa", detail.Steps)
	}

	// The same plan comes back as the active plan.
	active, err := svc.GetActivePlan(user.ID)
	testutil.AssertNoError(t, err)
	if active == nil || active.Plan.ID != plan.ID {
		t.Fatal("GetActivePlan should return the created plan")
	}
}

func TestGetActivePlanNone(t *testing.T) {
	_, svc, _, user := newPlanFixture(t)

	detail, err := svc.GetActivePlan(user.ID)
	testutil.AssertNoError(t, err)
	if detail != nil {
		t.Errorf("expected nil detail when no plan is active, got %+v", detail)
	}
}

func TestCreatePlanNoDebts(t *testing.T) {
	db, svc, _, user := newPlanFixture(t)

	// A credit account with nothing owed does not count as a debt.
	testutil.CreateTestCreditAccount(t, db, user.ID, "Paid Off Card", 0, 0.20, 2500)

	_, err := svc.CreatePlan(user.ID, models.StrategySnowball, 0, false)
	testutil.AssertAppError(t, err, "NO_DEBTS")
}

func TestCreatePlanSupersedes(t *testing.T) {
	db, svc, _, user := newPlanFixture(t)
	seedDebts(t, db, user.ID)

	first, err := svc.CreatePlan(user.ID, models.StrategySnowball, 0, false)
	testutil.AssertNoError(t, err)

	// Record a payment so the superseded plan has dependent rows.
	_, err = svc.RecordPayment(user.ID, first.Plan.ID, 10000, "Store Card", time.Now())
	testutil.AssertNoError(t, err)

	second, err := svc.CreatePlan(user.ID, models.StrategyAvalanche, 5000, false)
	testutil.AssertNoError(t, err)

	var planCount int64
	testutil.AssertNoError(t, db.Model(&models.DebtPlan{}).Where("user_id = ?", user.ID).Count(&planCount).Error)
	if planCount != 1 {
		t.Errorf("found %d plans, want exactly 1 after supersede", planCount)
	}

	var paymentCount int64
	testutil.AssertNoError(t, db.Model(&models.PlanPayment{}).Count(&paymentCount).Error)
	if paymentCount != 0 {
		t.Errorf("found %d orphaned payments, want 0", paymentCount)
	}

	active, err := svc.GetActivePlan(user.ID)
	testutil.AssertNoError(t, err)
	if active.Plan.ID != second.Plan.ID {
		t.Error("the newest plan should be the active one")
	}
	if active.Plan.Strategy != models.StrategyAvalanche {
		t.Errorf("active strategy = %q, want avalanche", active.Plan.Strategy)
	}
}

func TestDeletePlan(t *testing.T) {
	db, svc, _, user := newPlanFixture(t)
	seedDebts(t, db, user.ID)

	detail, err := svc.CreatePlan(user.ID, models.StrategySnowball, 0, false)
	testutil.AssertNoError(t, err)
	_, err = svc.RecordPayment(user.ID, detail.Plan.ID, 5000, "", time.Now())
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, svc.DeletePlan(user.ID, detail.Plan.ID))

	var planCount, paymentCount int64
	testutil.AssertNoError(t, db.Model(&models.DebtPlan{}).Count(&planCount).Error)
	testutil.AssertNoError(t, db.Model(&models.PlanPayment{}).Count(&paymentCount).Error)
	if planCount != 0 || paymentCount != 0 {
		t.Errorf("plan/payment rows after delete = %d/%d, want 0/0", planCount, paymentCount)
	}

	t.Run("unknown plan", func(t *testing.T) {
		testutil.AssertAppError(t, svc.DeletePlan(user.ID, 9999), "PLAN_NOT_FOUND")
	})

	t.Run("other user's plan", func(t *testing.T) {
		seedDebts(t, db, user.ID)
		fresh, err := svc.CreatePlan(user.ID, models.StrategySnowball, 0, false)
		testutil.AssertNoError(t, err)

		other := testutil.CreateTestUser(t, db)
		testutil.AssertAppError(t, svc.DeletePlan(other.ID, fresh.Plan.ID), "PLAN_NOT_FOUND")
	})
}

func TestRecordPayment(t *testing.T) {
	db, svc, _, user := newPlanFixture(t)
	seedDebts(t, db, user.ID)

	detail, err := svc.CreatePlan(user.ID, models.StrategySnowball, 0, false)
	testutil.AssertNoError(t, err)
	planID := detail.Plan.ID

	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	updated, err := svc.RecordPayment(user.ID, planID, 50000, "Store Card", date)
	testutil.AssertNoError(t, err)

	// 50000 of 200000 paid.
	if updated.Progress != 25 {
		t.Errorf("Progress = %v, want 25", updated.Progress)
	}
	if len(updated.Plan.Payments) != 1 {
		t.Fatalf("got %d payments, want 1", len(updated.Plan.Payments))
	}
	payment := updated.Plan.Payments[0]
	if payment.Month != "Jun 2024" {
		t.Errorf("payment month label = %q, want Jun 2024", payment.Month)
	}
	if payment.TargetDebt != "Store Card" {
		t.Errorf("payment target = %q, want Store Card", payment.TargetDebt)
	}

	t.Run("progress accumulates and clamps", func(t *testing.T) {
		final, err := svc.RecordPayment(user.ID, planID, 400000, "", date)
		testutil.AssertNoError(t, err)
		if final.Progress != 100 {
			t.Errorf("Progress = %v, want clamped to 100", final.Progress)
		}
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := svc.RecordPayment(user.ID, planID, 0, "", date)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown plan", func(t *testing.T) {
		_, err := svc.RecordPayment(user.ID, 9999, 1000, "", date)
		testutil.AssertAppError(t, err, "PLAN_NOT_FOUND")
	})
}

func TestRecordPaymentRejectedOnAutoTrackedPlan(t *testing.T) {
	db, svc, _, user := newPlanFixture(t)
	seedDebts(t, db, user.ID)

	detail, err := svc.CreatePlan(user.ID, models.StrategySnowball, 0, true)
	testutil.AssertNoError(t, err)

	_, err = svc.RecordPayment(user.ID, detail.Plan.ID, 10000, "", time.Now())
	testutil.AssertAppError(t, err, "MANUAL_PLAN_ONLY")
}

func TestAutoTrackedProgress(t *testing.T) {
	db, svc, _, user := newPlanFixture(t)
	seedDebts(t, db, user.ID)
	checking := testutil.CreateTestCheckingAccount(t, db, user.ID, 500000)

	detail, err := svc.CreatePlan(user.ID, models.StrategySnowball, 0, true)
	testutil.AssertNoError(t, err)
	if detail.Progress != 0 {
		t.Errorf("fresh plan progress = %v, want 0", detail.Progress)
	}

	// A classified payment outflow appears in derived progress on the next
	// read without any explicit recording.
	date := time.Date(2024, time.July, 2, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestTransaction(t, db, user.ID, checking.ID, -50000, "Payment: Visa", date)

	active, err := svc.GetActivePlan(user.ID)
	testutil.AssertNoError(t, err)
	if active.Progress != 25 {
		t.Errorf("derived progress = %v, want 25 (50000 of 200000)", active.Progress)
	}
	if len(active.RecentPayments) != 1 {
		t.Fatalf("got %d recent payment buckets, want 1", len(active.RecentPayments))
	}
	if active.RecentPayments[0].Month != "Jul 2024" || active.RecentPayments[0].Total != 50000 {
		t.Errorf("bucket = %+v, want Jul 2024 / 50000", active.RecentPayments[0])
	}
}

func TestCompareStrategies(t *testing.T) {
	db, svc, planCache, user := newPlanFixture(t)
	testutil.CreateTestCreditAccount(t, db, user.ID, "Visa", 300000, 0.24, 9000)
	testutil.CreateTestCreditAccount(t, db, user.ID, "Car Loan", 150000, 0.06, 5000)

	first, err := svc.CompareStrategies(user.ID, 20000)
	testutil.AssertNoError(t, err)

	if first.Snowball == nil || first.Avalanche == nil {
		t.Fatal("both simulations should be present")
	}
	if first.Recommended != models.StrategyAvalanche {
		t.Errorf("Recommended = %q, want avalanche when it saves interest", first.Recommended)
	}
	if first.InterestSaved <= 0 {
		t.Errorf("InterestSaved = %d, want > 0 with divergent rates", first.InterestSaved)
	}
	if planCache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", planCache.sets)
	}

	t.Run("identical inputs hit the cache", func(t *testing.T) {
		second, err := svc.CompareStrategies(user.ID, 20000)
		testutil.AssertNoError(t, err)
		if planCache.hits != 1 {
			t.Errorf("cache hits = %d, want 1", planCache.hits)
		}
		if second.Avalanche.InterestPaid != first.Avalanche.InterestPaid {
			t.Error("cached comparison should match the original")
		}
	})

	t.Run("changed balance misses the cache", func(t *testing.T) {
		testutil.AssertNoError(t, db.Model(&models.Account{}).
			Where("user_id = ? AND name = ?", user.ID, "Visa").
			Update("balance", -250000).Error)

		third, err := svc.CompareStrategies(user.ID, 20000)
		testutil.AssertNoError(t, err)
		if planCache.hits != 1 {
			t.Errorf("cache hits = %d, want still 1 after snapshot change", planCache.hits)
		}
		if third.Snowball.TotalDebt != 400000 {
			t.Errorf("TotalDebt = %d, want 400000 after balance change", third.Snowball.TotalDebt)
		}
	})

	t.Run("no debts", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db)
		_, err := svc.CompareStrategies(other.ID, 0)
		testutil.AssertAppError(t, err, "NO_DEBTS")
	})
}

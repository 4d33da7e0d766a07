package services

import (
	"testing"

	"paydown/internal/models"
	"paydown/internal/testutil"
)

func TestGeneratePlanValidation(t *testing.T) {
	valid := []Debt{{Name: "Visa", Balance: 50000, MinimumPayment: 2500}}

	t.Run("no debts", func(t *testing.T) {
		_, err := GeneratePlan(nil, models.StrategySnowball, 0)
		testutil.AssertAppError(t, err, "NO_DEBTS")
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := GeneratePlan(valid, models.PayoffStrategy("tsunami"), 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative extra payment", func(t *testing.T) {
		_, err := GeneratePlan(valid, models.StrategySnowball, -100)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("debt without name", func(t *testing.T) {
		debts := []Debt{{Balance: 50000, MinimumPayment: 2500}}
		_, err := GeneratePlan(debts, models.StrategySnowball, 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("debt without balance", func(t *testing.T) {
		debts := []Debt{{Name: "Visa", Balance: 0, MinimumPayment: 2500}}
		_, err := GeneratePlan(debts, models.StrategySnowball, 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative interest rate", func(t *testing.T) {
		debts := []Debt{{Name: "Visa", Balance: 50000, InterestRate: -0.1, MinimumPayment: 2500}}
		_, err := GeneratePlan(debts, models.StrategySnowball, 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestOrderDebts(t *testing.T) {
	debts := []Debt{
		{Name: "Car Loan", Balance: 50000, InterestRate: 0.10, MinimumPayment: 2500},
		{Name: "Visa", Balance: 150000, InterestRate: 0.24, MinimumPayment: 3000},
		{Name: "Store Card", Balance: 10000, InterestRate: 0.18, MinimumPayment: 1000},
		{Name: "Family Loan", Balance: 20000, InterestRate: 0, MinimumPayment: 1000},
	}

	t.Run("snowball orders by ascending balance", func(t *testing.T) {
		ordered := orderDebts(debts, models.StrategySnowball)
		want := []string{"Store Card", "Family Loan", "Car Loan", "Visa"}
		for i, name := range want {
			if ordered[i].Name != name {
				t.Errorf("position %d: got %q, want %q", i, ordered[i].Name, name)
			}
		}
	})

	t.Run("avalanche orders by descending rate with zero rates last", func(t *testing.T) {
		ordered := orderDebts(debts, models.StrategyAvalanche)
		want := []string{"Visa", "Store Card", "Car Loan", "Family Loan"}
		for i, name := range want {
			if ordered[i].Name != name {
				t.Errorf("position %d: got %q, want %q", i, ordered[i].Name, name)
			}
		}
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		orderDebts(debts, models.StrategySnowball)
		if debts[0].Name != "Car Loan" {
			t.Errorf("input slice was reordered: first debt is now %q", debts[0].Name)
		}
	})
}

func TestGeneratePlanZeroInterest(t *testing.T) {
	debts := []Debt{{Name: "Visa", Balance: 120000, MinimumPayment: 10000}}

	result, err := GeneratePlan(debts, models.StrategySnowball, 0)
	testutil.AssertNoError(t, err)

	if result.EstimatedMonths != 12 {
		t.Errorf("EstimatedMonths = %d, want 12", result.EstimatedMonths)
	}
	if result.InterestPaid != 0 {
		t.Errorf("InterestPaid = %d, want 0", result.InterestPaid)
	}
	if result.TotalDebt != 120000 {
		t.Errorf("TotalDebt = %d, want 120000", result.TotalDebt)
	}
	if result.MonthlyPayment != 10000 {
		t.Errorf("MonthlyPayment = %d, want 10000", result.MonthlyPayment)
	}
	if len(result.Steps) != 1 || result.Steps[0] != "Pay off Visa" {
		t.Errorf("Steps = %v, want single Visa milestone", result.Steps)
	}
}

func TestGeneratePlanInterestAccrual(t *testing.T) {
	// 12% annual = 1% monthly. One month of interest accrues before the
	// extra payment clears the balance.
	debts := []Debt{{Name: "Visa", Balance: 100000, InterestRate: 0.12}}

	result, err := GeneratePlan(debts, models.StrategySnowball, 101000)
	testutil.AssertNoError(t, err)

	if result.EstimatedMonths != 1 {
		t.Errorf("EstimatedMonths = %d, want 1", result.EstimatedMonths)
	}
	if result.InterestPaid != 1000 {
		t.Errorf("InterestPaid = %d, want 1000", result.InterestPaid)
	}
}

func TestGeneratePlanRollover(t *testing.T) {
	// First debt retires in month 2; its freed minimum joins the pool from
	// month 3 on, so the second debt pays 7000/month from then.
	debts := []Debt{
		{Name: "Store Card", Balance: 10000, MinimumPayment: 5000},
		{Name: "Visa", Balance: 100000, MinimumPayment: 2000},
	}

	result, err := GeneratePlan(debts, models.StrategySnowball, 0)
	testutil.AssertNoError(t, err)

	// Visa: 96000 remaining after month 2, then 14 months at 7000.
	if result.EstimatedMonths != 16 {
		t.Errorf("EstimatedMonths = %d, want 16", result.EstimatedMonths)
	}
	want := []string{"Pay off Store Card", "Pay off Visa"}
	if len(result.Steps) != len(want) {
		t.Fatalf("Steps = %v, want %v", result.Steps, want)
	}
	for i := range want {
		if result.Steps[i] != want[i] {
			t.Errorf("Steps[%d] = %q, want %q", i, result.Steps[i], want[i])
		}
	}
}

func TestGeneratePlanSnowballOrder(t *testing.T) {
	debts := []Debt{
		{Name: "Car Loan", Balance: 50000, MinimumPayment: 1000},
		{Name: "Visa", Balance: 150000, MinimumPayment: 1000},
		{Name: "Store Card", Balance: 10000, MinimumPayment: 1000},
	}

	result, err := GeneratePlan(debts, models.StrategySnowball, 10000)
	testutil.AssertNoError(t, err)

	want := []string{"Pay off Store Card", "Pay off Car Loan", "Pay off Visa"}
	if len(result.Steps) != len(want) {
		t.Fatalf("Steps = %v, want %v", result.Steps, want)
	}
	for i := range want {
		if result.Steps[i] != want[i] {
			t.Errorf("Steps[%d] = %q, want %q", i, result.Steps[i], want[i])
		}
	}
}

func TestGeneratePlanInterestSaved(t *testing.T) {
	debts := []Debt{
		{Name: "Visa", Balance: 300000, InterestRate: 0.24, MinimumPayment: 9000},
		{Name: "Store Card", Balance: 80000, InterestRate: 0.18, MinimumPayment: 3000},
	}

	withExtra, err := GeneratePlan(debts, models.StrategyAvalanche, 20000)
	testutil.AssertNoError(t, err)

	minOnly, err := GeneratePlan(debts, models.StrategyAvalanche, 0)
	testutil.AssertNoError(t, err)

	if withExtra.InterestSaved <= 0 {
		t.Errorf("InterestSaved = %d, want > 0 when extra payment shortens the schedule", withExtra.InterestSaved)
	}
	if minOnly.InterestSaved != 0 {
		t.Errorf("InterestSaved = %d, want 0 without extra payment", minOnly.InterestSaved)
	}
	if withExtra.EstimatedMonths >= minOnly.EstimatedMonths {
		t.Errorf("extra payment schedule (%d months) should beat minimum-only (%d months)",
			withExtra.EstimatedMonths, minOnly.EstimatedMonths)
	}
}

func TestGeneratePlanUnpayable(t *testing.T) {
	// Interest accrual outruns the minimum payment every month.
	debts := []Debt{{Name: "Visa", Balance: 100000, InterestRate: 0.99, MinimumPayment: 100}}

	_, err := GeneratePlan(debts, models.StrategySnowball, 0)
	testutil.AssertAppError(t, err, "UNPAYABLE_SCHEDULE")
}

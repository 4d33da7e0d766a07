package services

import (
	"fmt"
	"math"
	"sort"

	apperrors "paydown/internal/errors"
	"paydown/internal/models"
)

// maxSimulationMonths caps the amortization loop at 100 years. A schedule
// that has not converged by then is treated as unpayable.
const maxSimulationMonths = 1200

// balanceTolerance treats sub-cent residues as paid off.
const balanceTolerance = 0.5

// Debt is an immutable snapshot of one liability at plan-generation time.
// Amounts are in cents; InterestRate is the annual rate (0 = unknown).
type Debt struct {
	Name           string  `json:"name"`
	Balance        int64   `json:"balance"`
	InterestRate   float64 `json:"interest_rate"`
	MinimumPayment int64   `json:"minimum_payment"`
}

// PlanResult is the output of one payoff simulation.
type PlanResult struct {
	Strategy        models.PayoffStrategy `json:"strategy"`
	TotalDebt       int64                 `json:"total_debt"`
	MonthlyPayment  int64                 `json:"monthly_payment"`
	ExtraPayment    int64                 `json:"extra_payment"`
	EstimatedMonths int                   `json:"estimated_months"`
	Steps           []string              `json:"steps"` // one milestone per debt, in payoff order
	InterestPaid    int64                 `json:"interest_paid"`
	InterestSaved   int64                 `json:"interest_saved"` // vs minimum-only payments
}

// GeneratePlan simulates a month-by-month payoff of debts under the given
// strategy. Every debt receives its minimum payment each month; the first
// unpaid debt in strategy order additionally receives the extra payment, and
// a paid-off debt's minimum rolls into the extra pool from the following
// month (classic snowball/avalanche rollover). Interest accrues monthly at
// rate/12 on the balance before payments are applied.
func GeneratePlan(debts []Debt, strategy models.PayoffStrategy, extraPayment int64) (*PlanResult, error) {
	if len(debts) == 0 {
		return nil, apperrors.ErrNoDebts
	}
	if strategy != models.StrategySnowball && strategy != models.StrategyAvalanche {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "strategy must be snowball or avalanche")
	}
	if extraPayment < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "extra payment cannot be negative")
	}

	var totalDebt, totalMinimums int64
	for _, d := range debts {
		if d.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "debt name is required")
		}
		if d.Balance <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("debt %q has no balance to pay off", d.Name))
		}
		if d.InterestRate < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("debt %q has a negative interest rate", d.Name))
		}
		if d.MinimumPayment < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("debt %q has a negative minimum payment", d.Name))
		}
		totalDebt += d.Balance
		totalMinimums += d.MinimumPayment
	}

	ordered := orderDebts(debts, strategy)

	months, interestPaid, steps, err := simulatePayoff(ordered, extraPayment)
	if err != nil {
		return nil, err
	}

	result := &PlanResult{
		Strategy:        strategy,
		TotalDebt:       totalDebt,
		MonthlyPayment:  totalMinimums + extraPayment,
		ExtraPayment:    extraPayment,
		EstimatedMonths: months,
		Steps:           steps,
		InterestPaid:    interestPaid,
	}

	// Interest saved versus paying minimums only. When the minimum-only
	// schedule itself cannot converge, the savings are left at zero rather
	// than reported as infinite.
	if extraPayment > 0 {
		if _, minOnlyInterest, _, minErr := simulatePayoff(ordered, 0); minErr == nil {
			if saved := minOnlyInterest - interestPaid; saved > 0 {
				result.InterestSaved = saved
			}
		}
	}

	return result, nil
}

// orderDebts returns a copy of debts sorted by strategy: snowball pays the
// smallest balance first, avalanche the highest interest rate first (debts
// with an unknown rate sort last).
func orderDebts(debts []Debt, strategy models.PayoffStrategy) []Debt {
	ordered := make([]Debt, len(debts))
	copy(ordered, debts)

	if strategy == models.StrategySnowball {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Balance < ordered[j].Balance
		})
	} else {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].InterestRate > ordered[j].InterestRate
		})
	}
	return ordered
}

// simulatePayoff runs the month loop over debts already in payoff order.
// It returns the number of months until every balance reaches zero, the
// total interest accrued, and the payoff milestones in the order debts
// were retired.
func simulatePayoff(ordered []Debt, extraPayment int64) (int, int64, []string, error) {
	balances := make([]float64, len(ordered))
	closed := make([]bool, len(ordered))
	for i, d := range ordered {
		balances[i] = float64(d.Balance)
	}

	var totalInterest float64
	var steps []string

	for month := 1; month <= maxSimulationMonths; month++ {
		// Minimums freed by debts retired in earlier months roll into the
		// extra pool from this month on.
		pool := float64(extraPayment)
		for i, d := range ordered {
			if closed[i] {
				pool += float64(d.MinimumPayment)
			}
		}

		startTotal := 0.0
		for i := range ordered {
			if !closed[i] {
				startTotal += balances[i]
			}
		}

		// Accrue interest, then apply minimum payments.
		for i, d := range ordered {
			if closed[i] {
				continue
			}
			interest := balances[i] * d.InterestRate / 12
			totalInterest += interest
			balances[i] += interest

			payment := float64(d.MinimumPayment)
			if payment > balances[i] {
				payment = balances[i]
			}
			balances[i] -= payment
		}

		// The first open debt in strategy order receives the extra pool.
		for i := range ordered {
			if closed[i] || pool <= 0 {
				continue
			}
			payment := pool
			if payment > balances[i] {
				payment = balances[i]
			}
			balances[i] -= payment
			break
		}

		endTotal := 0.0
		allPaid := true
		for i, d := range ordered {
			if closed[i] {
				continue
			}
			if balances[i] <= balanceTolerance {
				balances[i] = 0
				closed[i] = true
				steps = append(steps, fmt.Sprintf("Pay off %s", d.Name))
				continue
			}
			allPaid = false
			endTotal += balances[i]
		}

		if allPaid {
			return month, int64(math.Round(totalInterest)), steps, nil
		}

		// No principal reduction this month means payments cannot outrun
		// interest accrual: fail fast instead of looping to the cap.
		if endTotal >= startTotal {
			return 0, 0, nil, apperrors.ErrUnpayableSchedule
		}
	}

	return 0, 0, nil, apperrors.ErrUnpayableSchedule
}

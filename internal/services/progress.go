package services

import (
	"sort"
	"time"

	"paydown/internal/models"
)

// recentPaymentMonths bounds how many monthly buckets a plan detail carries.
const recentPaymentMonths = 6

// DetectPayments scans transactions for debt payments and groups them by
// calendar month. A transaction counts as a payment when it is either leg of
// a credit card payment: the depository outflow (per the classifier) or the
// matching inflow to a credit account. Returns at most the six most recent
// monthly buckets, newest first, plus the total detected across all months.
//
// This is derived data: it must be recomputed from the live transaction set
// on every read, never cached, since its correctness depends on the full
// up-to-date history.
func DetectPayments(classifier PaymentClassifier, transactions []models.Transaction, accounts []models.Account, debtAccountNames []string) ([]MonthlyPaymentBucket, int64) {
	accountsByID := make(map[uint]*models.Account, len(accounts))
	for i := range accounts {
		accountsByID[accounts[i].ID] = &accounts[i]
	}

	type bucket struct {
		key   time.Time
		total int64
		count int
	}
	buckets := make(map[string]*bucket)
	var total int64

	for i := range transactions {
		tx := &transactions[i]
		account, ok := accountsByID[tx.AccountID]
		if !ok {
			continue
		}

		outflowLeg := classifier.IsCreditCardPayment(tx, account, debtAccountNames)
		inflowLeg := account.Type == models.AccountTypeCredit && tx.Amount > 0
		if !outflowLeg && !inflowLeg {
			continue
		}

		amount := tx.Amount
		if amount < 0 {
			amount = -amount
		}

		label := tx.Date.Format("Jan 2006")
		b, ok := buckets[label]
		if !ok {
			monthStart := time.Date(tx.Date.Year(), tx.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
			b = &bucket{key: monthStart}
			buckets[label] = b
		}
		b.total += amount
		b.count++
		total += amount
	}

	ordered := make([]struct {
		label string
		b     *bucket
	}, 0, len(buckets))
	for label, b := range buckets {
		ordered = append(ordered, struct {
			label string
			b     *bucket
		}{label, b})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].b.key.After(ordered[j].b.key)
	})

	if len(ordered) > recentPaymentMonths {
		ordered = ordered[:recentPaymentMonths]
	}

	result := make([]MonthlyPaymentBucket, len(ordered))
	for i, e := range ordered {
		result[i] = MonthlyPaymentBucket{
			Month: e.label,
			Total: e.b.total,
			Count: e.b.count,
		}
	}
	return result, total
}

// ComputeProgress returns the percent of the plan's original total debt
// covered by detected payments, clamped to [0, 100]. This is an
// approximation: new charges that grow a balance are not netted out.
func ComputeProgress(totalDebt, detectedTotal int64) float64 {
	if totalDebt <= 0 || detectedTotal <= 0 {
		return 0
	}
	percent := float64(detectedTotal) / float64(totalDebt) * 100
	if percent > 100 {
		return 100
	}
	return percent
}

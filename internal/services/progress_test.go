package services

import (
	"testing"
	"time"

	"paydown/internal/models"
)

func detectFixtures() ([]models.Account, []models.Transaction) {
	accounts := []models.Account{
		{Base: models.Base{ID: 1}, Type: models.AccountTypeChecking, Name: "Checking"},
		{Base: models.Base{ID: 2}, Type: models.AccountTypeCredit, Name: "Chase Sapphire"},
	}
	jan := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC)
	transactions := []models.Transaction{
		// Outflow leg, classified by description.
		{AccountID: 1, Amount: -20000, Description: "Payment: Chase Sapphire", Date: jan},
		// Inflow leg on the credit account.
		{AccountID: 2, Amount: 20000, Description: "Payment received", Date: jan},
		// Second month, outflow leg only.
		{AccountID: 1, Amount: -15000, Description: "credit card payment", Date: feb},
		// Ordinary spending is ignored.
		{AccountID: 1, Amount: -4200, Description: "Whole Foods", Category: "Groceries", Date: feb},
		// Charges on the card (outflows from the credit account) are ignored.
		{AccountID: 2, Amount: -8000, Description: "Restaurant", Date: feb},
	}
	return accounts, transactions
}

func TestDetectPayments(t *testing.T) {
	classifier := NewKeywordClassifier()
	accounts, transactions := detectFixtures()

	buckets, total := DetectPayments(classifier, transactions, accounts, []string{"Chase Sapphire"})

	if total != 55000 {
		t.Errorf("total = %d, want 55000", total)
	}
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2: %+v", len(buckets), buckets)
	}

	// Newest first.
	if buckets[0].Month != "Feb 2024" || buckets[0].Total != 15000 || buckets[0].Count != 1 {
		t.Errorf("buckets[0] = %+v, want Feb 2024 / 15000 / 1", buckets[0])
	}
	if buckets[1].Month != "Jan 2024" || buckets[1].Total != 40000 || buckets[1].Count != 2 {
		t.Errorf("buckets[1] = %+v, want Jan 2024 / 40000 / 2", buckets[1])
	}
}

func TestDetectPaymentsCapsRecentMonths(t *testing.T) {
	classifier := NewKeywordClassifier()
	accounts := []models.Account{{Base: models.Base{ID: 1}, Type: models.AccountTypeChecking}}

	var transactions []models.Transaction
	for m := 1; m <= 9; m++ {
		transactions = append(transactions, models.Transaction{
			AccountID:   1,
			Amount:      -10000,
			Description: "credit card payment",
			Date:        time.Date(2024, time.Month(m), 10, 0, 0, 0, 0, time.UTC),
		})
	}

	buckets, total := DetectPayments(classifier, transactions, accounts, nil)

	if total != 90000 {
		t.Errorf("total = %d, want 90000 (all months counted toward the total)", total)
	}
	if len(buckets) != recentPaymentMonths {
		t.Fatalf("got %d buckets, want %d", len(buckets), recentPaymentMonths)
	}
	if buckets[0].Month != "Sep 2024" {
		t.Errorf("newest bucket = %q, want Sep 2024", buckets[0].Month)
	}
	if buckets[len(buckets)-1].Month != "Apr 2024" {
		t.Errorf("oldest kept bucket = %q, want Apr 2024", buckets[len(buckets)-1].Month)
	}
}

func TestDetectPaymentsUnknownAccount(t *testing.T) {
	classifier := NewKeywordClassifier()
	transactions := []models.Transaction{
		{AccountID: 42, Amount: -10000, Description: "credit card payment", Date: time.Now()},
	}

	buckets, total := DetectPayments(classifier, transactions, nil, nil)
	if total != 0 || len(buckets) != 0 {
		t.Errorf("transactions on unknown accounts should be skipped, got total=%d buckets=%+v", total, buckets)
	}
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name          string
		totalDebt     int64
		detectedTotal int64
		want          float64
	}{
		{"zero debt", 0, 10000, 0},
		{"zero detected", 100000, 0, 0},
		{"negative detected", 100000, -500, 0},
		{"half paid", 100000, 50000, 50},
		{"fully paid", 100000, 100000, 100},
		{"overpaid clamps to 100", 100000, 250000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProgress(tt.totalDebt, tt.detectedTotal)
			if got != tt.want {
				t.Errorf("ComputeProgress(%d, %d) = %v, want %v", tt.totalDebt, tt.detectedTotal, got, tt.want)
			}
		})
	}
}

package testutil_test

import (
	"testing"
	"time"

	"paydown/internal/errors"
	"paydown/internal/models"
	"paydown/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "accounts", "budgets", "transactions", "debt_plans", "plan_payments", "budget_transfers", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	checking := testutil.CreateTestCheckingAccount(t, db, user.ID, 100000)
	if checking.Balance != 100000 {
		t.Errorf("expected balance 100000, got %d", checking.Balance)
	}
	if !checking.Type.IsDepository() {
		t.Error("checking account should be depository")
	}

	card := testutil.CreateTestCreditAccount(t, db, user.ID, "Visa", 30000, 0.18, 2500)
	if card.Balance != -30000 {
		t.Errorf("expected balance -30000, got %d", card.Balance)
	}
	if card.OwedAmount() != 30000 {
		t.Errorf("expected owed 30000, got %d", card.OwedAmount())
	}
	if card.Type != models.AccountTypeCredit {
		t.Errorf("expected credit account type, got %s", card.Type)
	}

	budget := testutil.CreateTestBudget(t, db, user.ID, "Groceries", "2024-06", 40000)
	if budget.Available() != 40000 {
		t.Errorf("expected available 40000, got %d", budget.Available())
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, checking.ID, -5000, "Coffee", time.Now())
	if !tx.IsOutflow() {
		t.Error("negative amount should be an outflow")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrAccountNotFound, "custom message")
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}

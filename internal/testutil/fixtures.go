package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"paydown/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCheckingAccount creates a checking account with the given balance (in cents).
func CreateTestCheckingAccount(t *testing.T, db *gorm.DB, userID uint, balance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Checking %d", nextID()),
		Type:     models.AccountTypeChecking,
		Balance:  balance,
		Currency: "USD",
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test checking account: %v", err)
	}
	return account
}

// CreateTestCreditAccount creates a credit account carrying the given debt.
// owed is the positive amount owed in cents; the stored balance is -owed.
func CreateTestCreditAccount(t *testing.T, db *gorm.DB, userID uint, name string, owed int64, interestRate float64, minimumPayment int64) *models.Account {
	t.Helper()

	if name == "" {
		name = fmt.Sprintf("Test Credit Card %d", nextID())
	}
	account := &models.Account{
		UserID:         userID,
		Name:           name,
		Type:           models.AccountTypeCredit,
		Balance:        -owed,
		Currency:       "USD",
		IsActive:       true,
		CreditLimit:    500000, // $5000.00
		InterestRate:   interestRate,
		MinimumPayment: minimumPayment,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test credit account: %v", err)
	}
	return account
}

// CreateTestBudget creates an envelope for the given category and month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, category, month string, budgeted int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:   userID,
		Name:     category,
		Category: category,
		Month:    month,
		Budgeted: budgeted,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestTransaction creates a posted transaction with the given signed amount (in cents).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID uint, amount int64, description string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		Amount:      amount,
		Description: description,
		Date:        date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"finanza/internal/models"
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
		Name:     "Test User",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an account in the given currency with the
// given starting balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID, currency string, balance float64) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Type:     models.AccountTypeChecking,
		Currency: currency,
		Balance:  decimal.NewFromFloat(balance),
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestTransaction creates a transaction of the given type dated
// inside the given month.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID string, txType models.TransactionType, amount float64, currency, category, month string) *models.Transaction {
	t.Helper()

	date, err := time.Parse("2006-01", month)
	if err != nil {
		t.Fatalf("invalid month token %q: %v", month, err)
	}

	transaction := &models.Transaction{
		UserID:    userID,
		AccountID: accountID,
		Type:      txType,
		Amount:    decimal.NewFromFloat(amount),
		Currency:  currency,
		Category:  category,
		Date:      date.AddDate(0, 0, 14),
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestBudget creates a budget for a category and month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, category, month, currency string, limit float64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:   userID,
		Category: category,
		Month:    month,
		Currency: currency,
		Limit:    decimal.NewFromFloat(limit),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestInvestment creates a holding bought at the given price.
func CreateTestInvestment(t *testing.T, db *gorm.DB, userID string, quantity, buyPrice float64) *models.Investment {
	t.Helper()

	investment := &models.Investment{
		UserID:   userID,
		Symbol:   fmt.Sprintf("TST%d", nextID()),
		Name:     "Test Holding",
		Quantity: decimal.NewFromFloat(quantity),
		BuyPrice: decimal.NewFromFloat(buyPrice),
	}
	if err := db.Create(investment).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return investment
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

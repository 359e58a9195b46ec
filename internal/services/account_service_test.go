package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"finanza/internal/models"
	"finanza/internal/pagination"
	"finanza/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		account, err := svc.CreateAccount(user.ID, "Savings", models.AccountTypeSavings, "usd", decimal.Zero)
		testutil.AssertNoError(t, err)

		if account.ID == "" {
			t.Fatal("expected non-empty account ID")
		}
		if account.Name != "Savings" {
			t.Errorf("expected name Savings, got %s", account.Name)
		}
		if account.Currency != "USD" {
			t.Errorf("expected currency normalized to USD, got %s", account.Currency)
		}
		if !account.IsActive {
			t.Error("expected account to be active")
		}
	})

	t.Run("opening_balance_recorded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		account, err := svc.CreateAccount(user.ID, "Checking", models.AccountTypeChecking, "USD", decimal.NewFromInt(250))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(250), account.Balance)

		var opening models.Transaction
		testutil.AssertNoError(t, db.First(&opening, "account_id = ?", account.ID).Error)
		if opening.Type != models.TransactionTypeAdjustment {
			t.Errorf("expected opening adjustment, got %s", opening.Type)
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(250), opening.Amount)
		if opening.AdjustmentDirection == nil || *opening.AdjustmentDirection != models.AdjustmentUp {
			t.Error("expected opening adjustment direction up")
		}
	})

	t.Run("zero_balance_records_nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		account, err := svc.CreateAccount(user.ID, "Empty", models.AccountTypeCash, "USD", decimal.Zero)
		testutil.AssertNoError(t, err)

		var txCount int64
		db.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&txCount)
		if txCount != 0 {
			t.Errorf("expected no opening transaction, found %d", txCount)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateAccount(user.ID, "", models.AccountTypeCash, "USD", decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateAccount(user.ID, "Euros", models.AccountTypeChecking, "EUR", decimal.Zero)
		testutil.AssertAppError(t, err, "UNKNOWN_CURRENCY")
	})
}

func TestGetUserAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestAccount(t, db, user.ID, "USD", 100)
	testutil.CreateTestAccount(t, db, user.ID, "VES", 4550)
	testutil.CreateTestAccount(t, db, other.ID, "USD", 999)

	page := pagination.PageRequest{}
	result, err := svc.GetUserAccounts(user.ID, page)
	testutil.AssertNoError(t, err)

	if result.TotalItems != 2 {
		t.Errorf("expected 2 accounts, got %d", result.TotalItems)
	}
	for _, account := range result.Data {
		if account.UserID != user.ID {
			t.Errorf("got account belonging to another user: %s", account.ID)
		}
	}
}

func TestGetAccountByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID, "USD", 0)

	t.Run("owned", func(t *testing.T) {
		got, err := svc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if got.ID != account.ID {
			t.Errorf("expected account %s, got %s", account.ID, got.ID)
		}
	})

	t.Run("other_user", func(t *testing.T) {
		_, err := svc.GetAccountByID(other.ID, account.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestUpdateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID, "USD", 0)

	updated, err := svc.UpdateAccount(user.ID, account.ID, "Renamed")
	testutil.AssertNoError(t, err)
	if updated.Name != "Renamed" {
		t.Errorf("expected name Renamed, got %s", updated.Name)
	}

	_, err = svc.UpdateAccount(user.ID, account.ID, "")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestDeleteAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID, "USD", 100)
	keep := testutil.CreateTestAccount(t, db, user.ID, "USD", 0)

	testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 25, "USD", "Comida", "2024-03")
	incoming := testutil.CreateTestTransaction(t, db, user.ID, keep.ID, models.TransactionTypeTransfer, 10, "USD", "", "2024-03")
	db.Model(incoming).Update("to_account_id", account.ID)

	testutil.AssertNoError(t, svc.DeleteAccount(user.ID, account.ID))

	_, err := svc.GetAccountByID(user.ID, account.ID)
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")

	var txCount int64
	db.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&txCount)
	if txCount != 0 {
		t.Errorf("expected account transactions deleted, found %d", txCount)
	}

	var survivor models.Transaction
	testutil.AssertNoError(t, db.First(&survivor, "id = ?", incoming.ID).Error)
	if survivor.ToAccountID != nil {
		t.Error("expected incoming transfer to lose its destination link")
	}
}

func TestRecalculateBalance(t *testing.T) {
	t.Run("replays_history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, "USD", 999)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, 100, "USD", "Salario", "2024-03")
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 30, "USD", "Comida", "2024-03")

		// The stored 999 has no backing transaction, so the replay drops it.
		recalculated, err := svc.RecalculateBalance(user.ID, account.ID, models.DefaultExchangeRate)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(70), recalculated.Balance)
	})

	t.Run("keeps_opening_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		account, err := svc.CreateAccount(user.ID, "Checking", models.AccountTypeChecking, "USD", decimal.NewFromInt(500))
		testutil.AssertNoError(t, err)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 30, "USD", "Comida", "2024-03")

		recalculated, err := svc.RecalculateBalance(user.ID, account.ID, models.DefaultExchangeRate)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(470), recalculated.Balance)
	})
}

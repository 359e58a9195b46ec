package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"finanza/internal/ledger"
	"finanza/internal/models"
	"finanza/internal/pagination"
	"finanza/internal/testutil"
)

func TestUpsertBudget(t *testing.T) {
	t.Run("creates_then_overwrites", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewSettingService(db))
		user := testutil.CreateTestUser(t, db)

		created, err := svc.UpsertBudget(user.ID, "Comida", "2024-03", "USD", decimal.NewFromInt(200))
		testutil.AssertNoError(t, err)

		updated, err := svc.UpsertBudget(user.ID, "Comida", "2024-03", "USD", decimal.NewFromInt(250))
		testutil.AssertNoError(t, err)

		if updated.ID != created.ID {
			t.Error("expected upsert to reuse the existing row")
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(250), updated.Limit)

		var count int64
		db.Model(&models.Budget{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected a single budget row, got %d", count)
		}
	})

	t.Run("recreates_after_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewSettingService(db))
		user := testutil.CreateTestUser(t, db)

		created, err := svc.UpsertBudget(user.ID, "Comida", "2024-03", "USD", decimal.NewFromInt(200))
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.DeleteBudget(user.ID, created.ID))

		// The same (category, month) pair must be definable again.
		revived, err := svc.UpsertBudget(user.ID, "Comida", "2024-03", "USD", decimal.NewFromInt(150))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(150), revived.Limit)

		fetched, err := svc.GetBudgetByID(user.ID, revived.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(150), fetched.Limit)

		var count int64
		db.Unscoped().Model(&models.Budget{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected a single row across live and deleted, got %d", count)
		}
	})

	t.Run("distinct_months_coexist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewSettingService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpsertBudget(user.ID, "Comida", "2024-03", "USD", decimal.NewFromInt(200))
		testutil.AssertNoError(t, err)
		_, err = svc.UpsertBudget(user.ID, "Comida", "2024-04", "USD", decimal.NewFromInt(300))
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.Budget{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 2 {
			t.Errorf("expected 2 budget rows, got %d", count)
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewSettingService(db))
		user := testutil.CreateTestUser(t, db)

		for _, month := range []string{"2024-3", "2024-13", "202403", "march"} {
			_, err := svc.UpsertBudget(user.ID, "Comida", month, "USD", decimal.NewFromInt(100))
			testutil.AssertAppError(t, err, "INVALID_MONTH")
		}
	})

	t.Run("negative_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewSettingService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpsertBudget(user.ID, "Comida", "2024-03", "USD", decimal.NewFromInt(-1))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserBudgets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db, NewSettingService(db))
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestBudget(t, db, user.ID, "Comida", "2024-02", "USD", 200)
	testutil.CreateTestBudget(t, db, user.ID, "Comida", "2024-03", "USD", 250)

	result, err := svc.GetUserBudgets(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 2 {
		t.Fatalf("expected 2 budgets, got %d", result.TotalItems)
	}
	if result.Data[0].Month != "2024-03" {
		t.Errorf("expected newest month first, got %s", result.Data[0].Month)
	}
}

func TestDeleteBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db, NewSettingService(db))
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	budget := testutil.CreateTestBudget(t, db, user.ID, "Comida", "2024-03", "USD", 200)

	testutil.AssertAppError(t, svc.DeleteBudget(other.ID, budget.ID), "BUDGET_NOT_FOUND")
	testutil.AssertNoError(t, svc.DeleteBudget(user.ID, budget.ID))

	_, err := svc.GetBudgetByID(user.ID, budget.ID)
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestTracking(t *testing.T) {
	t.Run("carry_forward_and_states", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewSettingService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, "USD", 0)

		// January's definition carries into March, April's must not.
		testutil.CreateTestBudget(t, db, user.ID, "Comida", "2024-01", "USD", 100)
		testutil.CreateTestBudget(t, db, user.ID, "Transporte", "2024-03", "USD", 50)
		testutil.CreateTestBudget(t, db, user.ID, "Salud", "2024-04", "USD", 500)

		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 85, "USD", "Comida", "2024-03")
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 60, "USD", "Transporte", "2024-03")
		// Previous month spending never counts.
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 999, "USD", "Comida", "2024-02")

		rows, err := svc.Tracking(user.ID, "2024-03")
		testutil.AssertNoError(t, err)

		if len(rows) != 2 {
			t.Fatalf("expected 2 budget rows, got %d", len(rows))
		}

		byCategory := map[string]ledger.BudgetRow{}
		for _, row := range rows {
			byCategory[row.Category] = row
		}

		comida := byCategory["Comida"]
		if comida.Month != "2024-01" {
			t.Errorf("expected Comida carried from 2024-01, got %s", comida.Month)
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(85), comida.Spent)
		if comida.State != ledger.BudgetStateWarning {
			t.Errorf("expected Comida in warning, got %s", comida.State)
		}

		transporte := byCategory["Transporte"]
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(60), transporte.Spent)
		if transporte.State != ledger.BudgetStateExceeded {
			t.Errorf("expected Transporte exceeded, got %s", transporte.State)
		}
	})

	t.Run("converts_spending_into_budget_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewSettingService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, "VES", 0)

		testutil.CreateTestBudget(t, db, user.ID, "Comida", "2024-03", "USD", 100)
		// 455 VES at the default 45.50 rate is 10 USD.
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 455, "VES", "Comida", "2024-03")

		rows, err := svc.Tracking(user.ID, "2024-03")
		testutil.AssertNoError(t, err)
		if len(rows) != 1 {
			t.Fatalf("expected 1 budget row, got %d", len(rows))
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(10), rows[0].Spent)
		if rows[0].State != ledger.BudgetStateOK {
			t.Errorf("expected ok state, got %s", rows[0].State)
		}
	})

	t.Run("counts_legacy_expense_tokens", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewSettingService(db))
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID, "USD", 0)

		testutil.CreateTestBudget(t, db, user.ID, "Comida", "2024-03", "USD", 100)
		// Imported rows still carry the Spanish vocabulary.
		testutil.CreateTestTransaction(t, db, user.ID, account.ID, models.TransactionType("Gasto"), 40, "USD", "Comida", "2024-03")

		rows, err := svc.Tracking(user.ID, "2024-03")
		testutil.AssertNoError(t, err)
		if len(rows) != 1 {
			t.Fatalf("expected 1 budget row, got %d", len(rows))
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(40), rows[0].Spent)
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewSettingService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Tracking(user.ID, "2024-3")
		testutil.AssertAppError(t, err, "INVALID_MONTH")
	})
}

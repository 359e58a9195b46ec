package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"finanza/internal/ledger"
	"finanza/internal/models"
	"finanza/internal/testutil"
)

func TestGetSummary(t *testing.T) {
	t.Run("composes_engine_results", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		settings := NewSettingService(db)
		budgets := NewBudgetService(db, settings)
		svc := NewDashboardService(db, settings, budgets)
		user := testutil.CreateTestUser(t, db)

		usdAccount := testutil.CreateTestAccount(t, db, user.ID, "USD", 100)
		testutil.CreateTestAccount(t, db, user.ID, "VES", 4550)

		// Two shares at a 120 market price.
		investment := testutil.CreateTestInvestment(t, db, user.ID, 2, 100)
		db.Model(investment).Update("current_price", decimal.NewFromInt(120))

		testutil.CreateTestTransaction(t, db, user.ID, usdAccount.ID, models.TransactionTypeIncome, 500, "USD", "Salario", "2024-03")
		testutil.CreateTestTransaction(t, db, user.ID, usdAccount.ID, models.TransactionTypeExpense, 80, "USD", "Comida", "2024-03")
		// Other months stay out of the flow.
		testutil.CreateTestTransaction(t, db, user.ID, usdAccount.ID, models.TransactionTypeExpense, 999, "USD", "Comida", "2024-02")

		testutil.CreateTestBudget(t, db, user.ID, "Comida", "2024-01", "USD", 100)

		summary, err := svc.GetSummary(user.ID, "2024-03")
		testutil.AssertNoError(t, err)

		if summary.Month != "2024-03" {
			t.Errorf("expected month 2024-03, got %s", summary.Month)
		}
		testutil.AssertDecimalEqual(t, models.DefaultExchangeRate, summary.ExchangeRate)

		// 100 USD + 4550 VES / 45.50 = 200 cash, 2 * 120 invested.
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(200), summary.Composition.Cash)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(240), summary.Composition.Invested)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(440), summary.NetWorth)

		testutil.AssertDecimalEqual(t, decimal.NewFromInt(500), summary.Income)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(80), summary.Expense)

		if len(summary.Budgets) != 1 {
			t.Fatalf("expected 1 budget row, got %d", len(summary.Budgets))
		}
		row := summary.Budgets[0]
		if row.Category != "Comida" || row.Month != "2024-01" {
			t.Errorf("expected carried Comida budget, got %+v", row)
		}
		if row.State != ledger.BudgetStateWarning {
			t.Errorf("expected warning state at 80%%, got %s", row.State)
		}
	})

	t.Run("empty_ledger", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		settings := NewSettingService(db)
		svc := NewDashboardService(db, settings, NewBudgetService(db, settings))
		user := testutil.CreateTestUser(t, db)

		summary, err := svc.GetSummary(user.ID, "2024-03")
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, decimal.Zero, summary.NetWorth)
		testutil.AssertDecimalEqual(t, decimal.Zero, summary.Income)
		testutil.AssertDecimalEqual(t, decimal.Zero, summary.Expense)
		if len(summary.Budgets) != 0 {
			t.Errorf("expected no budget rows, got %d", len(summary.Budgets))
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		settings := NewSettingService(db)
		svc := NewDashboardService(db, settings, NewBudgetService(db, settings))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetSummary(user.ID, "March 2024")
		testutil.AssertAppError(t, err, "INVALID_MONTH")
	})
}

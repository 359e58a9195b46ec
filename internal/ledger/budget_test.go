package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finanza/internal/models"
)

func makeBudget(category, month, currency string, limit float64) models.Budget {
	return models.Budget{
		Category: category,
		Month:    month,
		Currency: currency,
		Limit:    decimal.NewFromFloat(limit),
	}
}

func TestEffectiveBudget(t *testing.T) {
	t.Run("exact_match_wins", func(t *testing.T) {
		budgets := []models.Budget{
			makeBudget("food", "2024-01", "USD", 100),
			makeBudget("food", "2024-03", "USD", 150),
		}
		b, ok := EffectiveBudget(budgets, "food", "2024-03")
		if !ok {
			t.Fatal("expected an effective budget")
		}
		if b.Month != "2024-03" || !b.Limit.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected exact 2024-03 row, got %s (%s)", b.Month, b.Limit)
		}
	})

	t.Run("carries_forward_most_recent_past_month", func(t *testing.T) {
		budgets := []models.Budget{makeBudget("food", "2024-01", "USD", 100)}
		b, ok := EffectiveBudget(budgets, "food", "2024-03")
		if !ok {
			t.Fatal("expected carry-forward, not exclusion")
		}
		if b.Month != "2024-01" {
			t.Errorf("expected 2024-01 row carried forward, got %s", b.Month)
		}
	})

	t.Run("picks_nearest_of_several_past_months", func(t *testing.T) {
		budgets := []models.Budget{
			makeBudget("food", "2023-11", "USD", 80),
			makeBudget("food", "2024-02", "USD", 120),
			makeBudget("food", "2023-06", "USD", 60),
		}
		b, _ := EffectiveBudget(budgets, "food", "2024-04")
		if b.Month != "2024-02" {
			t.Errorf("expected 2024-02, got %s", b.Month)
		}
	})

	t.Run("future_months_are_never_considered", func(t *testing.T) {
		// The April row is nearer to March than the January row, but
		// nearness does not matter: only months at or before the target count.
		budgets := []models.Budget{
			makeBudget("food", "2024-04", "USD", 500),
			makeBudget("food", "2024-01", "USD", 100),
		}
		b, ok := EffectiveBudget(budgets, "food", "2024-03")
		if !ok {
			t.Fatal("expected the past row to apply")
		}
		if b.Month != "2024-01" {
			t.Errorf("expected 2024-01, got %s", b.Month)
		}

		// Only a future row: no effective budget at all.
		onlyFuture := []models.Budget{makeBudget("rent", "2024-04", "USD", 500)}
		if _, ok := EffectiveBudget(onlyFuture, "rent", "2024-03"); ok {
			t.Error("a future-only category must have no effective budget")
		}
	})

	t.Run("unknown_category_is_not_an_error", func(t *testing.T) {
		if _, ok := EffectiveBudget(nil, "food", "2024-03"); ok {
			t.Error("expected no effective budget for empty input")
		}
	})
}

func TestActiveBudgets(t *testing.T) {
	budgets := []models.Budget{
		makeBudget("food", "2024-01", "USD", 100),
		makeBudget("rent", "2024-03", "USD", 900),
		makeBudget("food", "2024-03", "USD", 150),
		makeBudget("toys", "2024-05", "USD", 50), // future only
	}
	active := ActiveBudgets(budgets, "2024-03")
	if len(active) != 2 {
		t.Fatalf("expected 2 active budgets, got %d", len(active))
	}
	if active[0].Category != "food" || active[0].Month != "2024-03" {
		t.Errorf("expected exact food row first, got %+v", active[0])
	}
	if active[1].Category != "rent" {
		t.Errorf("expected rent second, got %+v", active[1])
	}
}

func TestSpentAgainst(t *testing.T) {
	rate := decimal.NewFromFloat(45.5)
	march := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)

	t.Run("sums_matching_expenses_in_budget_currency", func(t *testing.T) {
		budget := makeBudget("food", "2024-03", "USD", 100)
		txs := []models.Transaction{
			makeTx(models.TransactionTypeExpense, 20, "USD", "food", march),
			makeTx(models.TransactionTypeExpense, 455, "VES", "food", march), // 10 USD
			makeTx(models.TransactionTypeExpense, 30, "USD", "rent", march),  // other category
			makeTx(models.TransactionTypeExpense, 40, "USD", "food", april),  // other month
			makeTx(models.TransactionTypeIncome, 50, "USD", "food", march),   // not an expense
		}
		spent, err := SpentAgainst(budget, txs, "2024-03", rate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !spent.Equal(decimal.NewFromInt(30)) {
			t.Errorf("expected 30, got %s", spent)
		}
	})

	t.Run("converts_into_ves_for_ves_budgets", func(t *testing.T) {
		budget := makeBudget("food", "2024-03", "VES", 5000)
		txs := []models.Transaction{
			makeTx(models.TransactionTypeExpense, 10, "USD", "food", march), // 455 VES
			makeTx(models.TransactionTypeExpense, 45.5, "VES", "food", march),
		}
		spent, err := SpentAgainst(budget, txs, "2024-03", rate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !spent.Equal(decimal.NewFromFloat(500.5)) {
			t.Errorf("expected 500.5, got %s", spent)
		}
	})

	t.Run("counts_legacy_expense_tokens", func(t *testing.T) {
		budget := makeBudget("food", "2024-03", "USD", 100)
		txs := []models.Transaction{
			makeTx("Gasto", 15, "USD", "food", march),
		}
		spent, err := SpentAgainst(budget, txs, "2024-03", rate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !spent.Equal(decimal.NewFromInt(15)) {
			t.Errorf("expected 15, got %s", spent)
		}
	})
}

func TestStatus(t *testing.T) {
	cases := []struct {
		name    string
		limit   float64
		spent   float64
		wantPct float64
		want    BudgetState
	}{
		{"under", 100, 50, 50, BudgetStateOK},
		{"at_warning_threshold", 100, 80, 80, BudgetStateWarning},
		{"exactly_at_limit_is_warning_not_exceeded", 100, 100, 100, BudgetStateWarning},
		{"just_over_is_exceeded", 100, 100.01, 100, BudgetStateExceeded},
		{"far_over_caps_percentage", 100, 250, 100, BudgetStateExceeded},
		{"zero_limit_zero_spent", 0, 0, 0, BudgetStateOK},
		{"zero_limit_any_spend_is_exceeded", 0, 1, 100, BudgetStateExceeded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pct, state := Status(decimal.NewFromFloat(tc.limit), decimal.NewFromFloat(tc.spent))
			if pct != tc.wantPct {
				t.Errorf("percentage = %v, want %v", pct, tc.wantPct)
			}
			if state != tc.want {
				t.Errorf("state = %s, want %s", state, tc.want)
			}
		})
	}
}

func TestTrack(t *testing.T) {
	rate := decimal.NewFromFloat(45.5)
	march := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	budgets := []models.Budget{
		makeBudget("food", "2024-01", "USD", 100), // carried forward
		makeBudget("rent", "2024-03", "USD", 900),
	}
	txs := []models.Transaction{
		makeTx(models.TransactionTypeExpense, 90, "USD", "food", march),
		makeTx(models.TransactionTypeExpense, 950, "USD", "rent", march),
	}

	rows, err := Track(budgets, txs, "2024-03", rate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	food := rows[0]
	if food.Category != "food" || food.Month != "2024-01" {
		t.Errorf("expected carried-forward food row, got %+v", food)
	}
	if food.State != BudgetStateWarning {
		t.Errorf("expected food warning at 90%%, got %s", food.State)
	}

	rent := rows[1]
	if rent.State != BudgetStateExceeded {
		t.Errorf("expected rent exceeded, got %s", rent.State)
	}
	if rent.Percentage != 100 {
		t.Errorf("expected capped 100%%, got %v", rent.Percentage)
	}

	t.Run("rejects_malformed_month", func(t *testing.T) {
		if _, err := Track(budgets, txs, "03-2024", rate); err == nil {
			t.Error("expected error for malformed month token")
		}
	})
}

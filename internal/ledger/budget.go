package ledger

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"finanza/internal/models"
)

// BudgetState classifies how far a category's spending has progressed
// against its limit.
type BudgetState string

const (
	BudgetStateOK       BudgetState = "ok"
	BudgetStateWarning  BudgetState = "warning"
	BudgetStateExceeded BudgetState = "exceeded"
)

// warningThreshold is the capped percentage at which a budget moves from
// ok to warning.
const warningThreshold = 80

// EffectiveBudget resolves the budget applicable to a category in the
// target month. An exact (category, month) row always wins; otherwise the
// most recent row strictly before the target month carries forward.
// Rows for months after the target are never considered, even when they
// are nearer than any past row. A category with no row at or before the
// month simply has no effective budget, which is not an error.
func EffectiveBudget(budgets []models.Budget, category, month string) (models.Budget, bool) {
	var best models.Budget
	found := false
	for i := range budgets {
		b := budgets[i]
		if b.Category != category {
			continue
		}
		if b.Month == month {
			return b, true
		}
		if b.Month > month {
			continue
		}
		if !found || b.Month > best.Month {
			best = b
			found = true
		}
	}
	return best, found
}

// ActiveBudgets resolves one effective budget per category for the target
// month, preserving the order in which categories first appear in the
// input.
func ActiveBudgets(budgets []models.Budget, month string) []models.Budget {
	seen := make(map[string]bool)
	var active []models.Budget
	for i := range budgets {
		cat := budgets[i].Category
		if seen[cat] {
			continue
		}
		seen[cat] = true
		if b, ok := EffectiveBudget(budgets, cat, month); ok {
			active = append(active, b)
		}
	}
	return active
}

// SpentAgainst sums the month's expenses in the budget's category,
// converted into the budget's own currency. The conversion direction
// therefore depends on which currency the budget was declared in, not on
// the primary currency.
func SpentAgainst(budget models.Budget, transactions []models.Transaction, month string, rate decimal.Decimal) (decimal.Decimal, error) {
	budgetCur, err := ParseCurrency(budget.Currency)
	if err != nil {
		return decimal.Zero, fmt.Errorf("budget %q: %w", budget.Category, err)
	}

	spent := decimal.Zero
	for i := range transactions {
		tx := &transactions[i]
		if !InMonth(tx.Date, month) || tx.Category != budget.Category {
			continue
		}
		typ, ok := models.ParseTransactionType(string(tx.Type))
		if !ok || typ != models.TransactionTypeExpense {
			continue
		}
		txCur, err := ParseCurrency(tx.Currency)
		if err != nil {
			return decimal.Zero, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		amount, err := Convert(tx.Amount, txCur, budgetCur, rate)
		if err != nil {
			return decimal.Zero, err
		}
		spent = spent.Add(amount)
	}
	return spent, nil
}

// Status computes the consumed percentage (capped at 100) and the budget
// state. The state compares spent to the limit directly rather than going
// through the capped percentage, because the percentage alone cannot tell
// "exactly at the limit" apart from "over it". A zero limit yields 100%
// as soon as anything is spent, and 0% otherwise.
func Status(limit, spent decimal.Decimal) (float64, BudgetState) {
	var percentage float64
	switch {
	case limit.IsPositive():
		p, _ := spent.Div(limit).Mul(decimal.NewFromInt(100)).Float64()
		percentage = math.Min(p, 100)
	case spent.IsPositive():
		percentage = 100
	}

	switch {
	case spent.GreaterThan(limit):
		return percentage, BudgetStateExceeded
	case percentage >= warningThreshold:
		return percentage, BudgetStateWarning
	}
	return percentage, BudgetStateOK
}

// BudgetRow is the per-category tracking row produced for a month: the
// effective limit after carry-forward, what has been spent against it in
// the budget's currency, and the resulting status.
type BudgetRow struct {
	BudgetID   string          `json:"budget_id"`
	Category   string          `json:"category"`
	Month      string          `json:"month"`
	Currency   string          `json:"currency"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Percentage float64         `json:"percentage"`
	State      BudgetState     `json:"state"`
}

// Track resolves every category's effective budget for the month and
// computes its consumption row.
func Track(budgets []models.Budget, transactions []models.Transaction, month string, rate decimal.Decimal) ([]BudgetRow, error) {
	if _, _, err := ParseMonth(month); err != nil {
		return nil, err
	}

	active := ActiveBudgets(budgets, month)
	rows := make([]BudgetRow, 0, len(active))
	for _, b := range active {
		spent, err := SpentAgainst(b, transactions, month, rate)
		if err != nil {
			return nil, err
		}
		percentage, state := Status(b.Limit, spent)
		rows = append(rows, BudgetRow{
			BudgetID:   b.ID,
			Category:   b.Category,
			Month:      b.Month,
			Currency:   b.Currency,
			Limit:      b.Limit,
			Spent:      spent,
			Percentage: percentage,
			State:      state,
		})
	}
	return rows, nil
}

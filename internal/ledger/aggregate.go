package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"finanza/internal/logger"
	"finanza/internal/models"
)

// Flow holds a month's income and expense totals in the primary currency.
type Flow struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// TotalAccountValue sums every account balance converted to the primary
// currency. An account in an unrecognized currency is an error, not a
// record to skip: skipping would silently understate the total.
func TotalAccountValue(accounts []models.Account, rate decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range accounts {
		acc := &accounts[i]
		cur, err := ParseCurrency(acc.Currency)
		if err != nil {
			return decimal.Zero, fmt.Errorf("account %q: %w", acc.Name, err)
		}
		value, err := Convert(acc.Balance, cur, USD, rate)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(value)
	}
	return total, nil
}

// EffectivePrice returns the price used to value a holding: the current
// market price when present and positive, otherwise the buy price.
func EffectivePrice(inv *models.Investment) decimal.Decimal {
	if inv.CurrentPrice != nil && inv.CurrentPrice.IsPositive() {
		return *inv.CurrentPrice
	}
	if inv.BuyPrice.IsPositive() {
		return inv.BuyPrice
	}
	return decimal.Zero
}

// TotalInvestmentValue sums quantity times effective price over the
// portfolio. A holding with no usable price contributes zero; that is a
// data-quality condition worth a warning, not a reason to fail the whole
// aggregation.
func TotalInvestmentValue(investments []models.Investment) decimal.Decimal {
	total := decimal.Zero
	for i := range investments {
		inv := &investments[i]
		price := EffectivePrice(inv)
		if price.IsZero() {
			if inv.Quantity.IsPositive() {
				logger.Get().Warnw("investment has no usable price, valued at zero",
					"investment_id", inv.ID,
					"symbol", inv.Symbol,
				)
			}
			continue
		}
		total = total.Add(inv.Quantity.Mul(price))
	}
	return total
}

// NetWorth is the sum of all account balances and the portfolio value,
// expressed in the primary currency.
func NetWorth(accounts []models.Account, investments []models.Investment, rate decimal.Decimal) (decimal.Decimal, error) {
	cash, err := TotalAccountValue(accounts, rate)
	if err != nil {
		return decimal.Zero, err
	}
	return cash.Add(TotalInvestmentValue(investments)), nil
}

// MonthlyFlow totals income and expense transactions for the target month
// in the primary currency. Transfers and adjustments move money between
// the user's own pockets and are excluded from both sides. Transaction
// type tokens are normalized through the closed variant set before
// branching; a record whose token falls outside both vocabularies is
// skipped with a warning rather than miscounted.
func MonthlyFlow(transactions []models.Transaction, month string, rate decimal.Decimal) (Flow, error) {
	if _, _, err := ParseMonth(month); err != nil {
		return Flow{}, err
	}

	flow := Flow{Income: decimal.Zero, Expense: decimal.Zero}
	for i := range transactions {
		tx := &transactions[i]
		if !InMonth(tx.Date, month) {
			continue
		}

		typ, ok := models.ParseTransactionType(string(tx.Type))
		if !ok {
			logger.Get().Warnw("transaction with unrecognized type excluded from monthly flow",
				"transaction_id", tx.ID,
				"type", tx.Type,
			)
			continue
		}
		if typ != models.TransactionTypeIncome && typ != models.TransactionTypeExpense {
			continue
		}

		cur, err := ParseCurrency(tx.Currency)
		if err != nil {
			return Flow{}, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		amount, err := Convert(tx.Amount, cur, USD, rate)
		if err != nil {
			return Flow{}, err
		}

		if typ == models.TransactionTypeIncome {
			flow.Income = flow.Income.Add(amount)
		} else {
			flow.Expense = flow.Expense.Add(amount)
		}
	}
	return flow, nil
}

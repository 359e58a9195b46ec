package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "income"
	TransactionTypeExpense    TransactionType = "expense"
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// AdjustmentDirection indicates whether an adjustment raises or lowers the
// account balance. It is only meaningful when the transaction type is
// adjustment.
type AdjustmentDirection string

const (
	AdjustmentUp   AdjustmentDirection = "up"
	AdjustmentDown AdjustmentDirection = "down"
)

// legacyTypes maps the Spanish vocabulary still present in imported records
// onto the canonical type set. Records written by older clients carry these
// tokens, so both vocabularies must normalize to the same variant.
var legacyTypes = map[string]TransactionType{
	"ingreso":       TransactionTypeIncome,
	"gasto":         TransactionTypeExpense,
	"transferencia": TransactionTypeTransfer,
	"ajuste":        TransactionTypeAdjustment,
}

// ParseTransactionType normalizes a raw type token (canonical or legacy,
// any casing) into the closed TransactionType set. The second return value
// is false for tokens outside both vocabularies.
func ParseTransactionType(raw string) (TransactionType, bool) {
	token := strings.ToLower(strings.TrimSpace(raw))
	switch TransactionType(token) {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer, TransactionTypeAdjustment:
		return TransactionType(token), true
	}
	if t, ok := legacyTypes[token]; ok {
		return t, true
	}
	return "", false
}

// Transaction represents a financial movement on an account. The amount is
// always non-negative; direction is carried by the type (and, for
// adjustments, by AdjustmentDirection), never by a negative amount.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID   string          `gorm:"type:uuid;not null;index" json:"account_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Currency    string          `gorm:"not null" json:"currency"`
	Category    string          `gorm:"index" json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	// For adjustments
	AdjustmentDirection *AdjustmentDirection `json:"adjustment_direction,omitempty"`

	// For transfers
	ToAccountID *string `gorm:"type:uuid" json:"to_account_id,omitempty"`

	// Relationships
	Account   Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	ToAccount *Account `gorm:"foreignKey:ToAccountID" json:"to_account,omitempty"`
}

package models

import "github.com/shopspring/decimal"

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCash     AccountType = "cash"
	AccountTypeCard     AccountType = "card"
)

// Account represents a bank account in the system. The balance is owned
// exclusively by the account and is only ever mutated through transaction
// application, never written directly by aggregation code.
type Account struct {
	Base
	UserID   string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name     string          `gorm:"not null" json:"name"`
	Type     AccountType     `gorm:"not null" json:"type"`
	Currency string          `gorm:"not null;default:'USD'" json:"currency"`
	Balance  decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"balance"`
	IsActive bool            `gorm:"default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}

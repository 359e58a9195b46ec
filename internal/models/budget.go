package models

import "github.com/shopspring/decimal"

// Budget represents a monthly spending limit for a category. Month is a
// zero-padded "YYYY-MM" token, so lexicographic order on the column is
// chronological order. At most one row may exist per (user, category,
// month); the service layer upserts on that key.
type Budget struct {
	Base
	UserID   string          `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category_month" json:"user_id"`
	Category string          `gorm:"not null;uniqueIndex:idx_budgets_user_category_month" json:"category"`
	Month    string          `gorm:"size:7;not null;uniqueIndex:idx_budgets_user_category_month" json:"month"`
	Currency string          `gorm:"not null;default:'USD'" json:"currency"`
	Limit    decimal.Decimal `gorm:"column:limit_amount;type:decimal(20,8);not null" json:"limit"`
}

package models

import "github.com/shopspring/decimal"

// DefaultExchangeRate is the rate applied before the user supplies one.
var DefaultExchangeRate = decimal.NewFromFloat(45.50)

// Setting holds per-user configuration. ExchangeRate is the number of VES
// per one USD, supplied externally and applied uniformly to every
// conversion; the engine treats it as a read-only scalar.
type Setting struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	ExchangeRate decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"exchange_rate"`
}

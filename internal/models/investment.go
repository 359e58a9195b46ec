package models

import "github.com/shopspring/decimal"

// Investment represents a holding in the user's portfolio. CurrentPrice is
// the latest known market price; when it is absent the buy price stands in
// as the effective price.
type Investment struct {
	Base
	UserID        string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Symbol        string           `gorm:"not null" json:"symbol"`
	Name          string           `json:"name"`
	Quantity      decimal.Decimal  `gorm:"type:decimal(20,8);not null" json:"quantity"`
	BuyPrice      decimal.Decimal  `gorm:"type:decimal(20,8);not null" json:"buy_price"`
	BuyCommission decimal.Decimal  `gorm:"type:decimal(20,8);not null;default:0" json:"buy_commission"`
	CurrentPrice  *decimal.Decimal `gorm:"type:decimal(20,8)" json:"current_price,omitempty"`
}

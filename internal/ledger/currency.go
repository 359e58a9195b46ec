// Package ledger implements the aggregation and budget-tracking engine:
// currency conversion, month scoping, net-worth and flow totals, and
// budget carry-forward resolution. Every function is pure and operates on
// immutable snapshots of the record collections; persistence and
// presentation live elsewhere.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is a supported currency code.
type Currency string

const (
	// USD is the primary currency. Every aggregate total is expressed in it.
	USD Currency = "USD"
	// VES is the secondary currency. The exchange rate is quoted as VES
	// per one USD.
	VES Currency = "VES"
)

var (
	// ErrInvalidRate is returned when a conversion is attempted with a
	// non-positive exchange rate.
	ErrInvalidRate = errors.New("exchange rate must be strictly positive")
	// ErrUnknownCurrency is returned for currency codes outside the
	// supported set.
	ErrUnknownCurrency = errors.New("unknown currency code")
)

// ParseCurrency normalizes a raw currency code into the supported set.
func ParseCurrency(code string) (Currency, error) {
	switch c := Currency(strings.ToUpper(strings.TrimSpace(code))); c {
	case USD, VES:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
}

// Convert converts amount between two supported currencies at the given
// rate (VES per USD). Converting a currency to itself is the identity;
// USD to VES multiplies by the rate and VES to USD divides by it. The
// rate is validated even for same-currency conversions: a non-positive
// rate is always an input error rather than something to proceed with.
func Convert(amount decimal.Decimal, from, to Currency, rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, ErrInvalidRate
	}
	if _, err := ParseCurrency(string(from)); err != nil {
		return decimal.Zero, err
	}
	if _, err := ParseCurrency(string(to)); err != nil {
		return decimal.Zero, err
	}
	if from == to {
		return amount, nil
	}
	if from == USD {
		return amount.Mul(rate), nil
	}
	return amount.Div(rate), nil
}

// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors; intermediate
// arithmetic is never rounded, only storage and serialization are.
type Money = decimal.Decimal

// MoneyScale is the number of fractional digits kept for monetary amounts
// at the storage and response boundaries.
const MoneyScale int32 = 2

// QuantityScale is the number of fractional digits kept for item quantities
// at the storage and response boundaries.
const QuantityScale int32 = 3

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// TaxRate is the flat sales tax rate applied to every receipt.
var TaxRate = decimal.NewFromFloat(0.18)

// RoundMoney rounds a monetary amount to the storage scale (2 decimals).
// Applied only at the persistence boundary, never inside calculations.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// RoundQuantity rounds a quantity to the storage scale (3 decimals).
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityScale)
}

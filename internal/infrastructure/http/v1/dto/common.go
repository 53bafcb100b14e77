// Package dto defines request and response shapes for the HTTP API.
package dto

import "github.com/shopspring/decimal"

// Amount renders a monetary value as a plain JSON number with exactly two
// fractional digits.
type Amount decimal.Decimal

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).StringFixed(2)), nil
}

// Quantity renders an item quantity as a plain JSON number with exactly
// three fractional digits.
type Quantity decimal.Decimal

// MarshalJSON implements json.Marshaler.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(q).StringFixed(3)), nil
}

// IDResponse is a minimal response carrying a created entity id.
type IDResponse struct {
	ID string `json:"id"`
}

// MessageResponse is a confirmation response for operations that do not
// return the full entity.
type MessageResponse struct {
	Message string `json:"message"`
}

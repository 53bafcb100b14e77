// Package receipt provides the electronic sales receipt aggregate.
// A receipt is either an invoice (named, tax-identified recipient) or a
// simplified receipt (walk-in sale, recipient optional).
package receipt

import (
	"time"

	"github.com/shopspring/decimal"

	"emisor/internal/core/apperror"
	"emisor/internal/core/id"
	"emisor/internal/core/types"
)

// Kind discriminates the two receipt types. Fixed at creation.
type Kind string

const (
	KindInvoice           Kind = "Invoice"
	KindSimplifiedReceipt Kind = "SimplifiedReceipt"
)

// IsValid reports whether k is a known receipt kind.
func (k Kind) IsValid() bool {
	return k == KindInvoice || k == KindSimplifiedReceipt
}

// SeriesPrefix returns the letter a series of this kind must start with.
func (k Kind) SeriesPrefix() byte {
	if k == KindInvoice {
		return 'F'
	}
	return 'B'
}

// Status is the receipt lifecycle state.
// Issued is the initial state, Voided is terminal.
type Status string

const (
	StatusIssued Status = "Issued"
	StatusVoided Status = "Voided"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return s == StatusIssued || s == StatusVoided
}

// Receipt is the aggregate root. All monetary fields are computed once at
// construction and never change afterwards, voiding included.
type Receipt struct {
	ID       id.ID  `db:"id" json:"id"`
	Kind     Kind   `db:"kind" json:"kind"`
	Series   string `db:"series" json:"series"`
	Number   int    `db:"number" json:"number"`

	// IssuedAt is set at construction, stored in UTC.
	IssuedAt time.Time `db:"issued_at" json:"issuedAt"`

	IssuerTaxID string `db:"issuer_tax_id" json:"issuerTaxId"`
	IssuerName  string `db:"issuer_name" json:"issuerName"`

	// Recipient is required for invoices; nil represents a walk-in customer
	// on simplified receipts.
	RecipientTaxID *string `db:"recipient_tax_id" json:"recipientTaxId,omitempty"`
	RecipientName  *string `db:"recipient_name" json:"recipientName,omitempty"`

	// Totals (calculated from items, exact decimal arithmetic)
	Subtotal types.Money `db:"subtotal" json:"subtotal"`
	Tax      types.Money `db:"tax" json:"tax"`
	Total    types.Money `db:"total" json:"total"`

	Status Status `db:"status" json:"status"`

	// Table part: line items, fixed after construction
	Items []Item `db:"-" json:"items"`
}

// Item is a line in the receipt. Owned exclusively by one receipt, created
// together with it and never edited afterwards.
type Item struct {
	ID          id.ID           `db:"id" json:"id"`
	LineNo      int             `db:"line_no" json:"lineNo"`
	Description string          `db:"description" json:"description"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unitPrice"`
	Subtotal    decimal.Decimal `db:"subtotal" json:"subtotal"`
}

// ItemInput carries the raw values a line item is built from.
type ItemInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// New constructs a receipt from already-validated input and an allocated
// number. Line subtotals, subtotal, tax and total are computed here in
// exact decimal arithmetic; the entity starts in the Issued state.
//
// Rehydration from storage does not go through New: repositories scan rows
// directly into the struct and do not re-run construction rules.
func New(
	kind Kind,
	series string,
	number int,
	issuerTaxID, issuerName string,
	recipientTaxID, recipientName *string,
	items []ItemInput,
) *Receipt {
	r := &Receipt{
		ID:             id.New(),
		Kind:           kind,
		Series:         series,
		Number:         number,
		IssuedAt:       time.Now().UTC(),
		IssuerTaxID:    issuerTaxID,
		IssuerName:     issuerName,
		RecipientTaxID: recipientTaxID,
		RecipientName:  recipientName,
		Status:         StatusIssued,
		Items:          make([]Item, 0, len(items)),
	}

	for i, in := range items {
		r.Items = append(r.Items, Item{
			ID:          id.New(),
			LineNo:      i + 1,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Subtotal:    in.Quantity.Mul(in.UnitPrice),
		})
	}

	r.calculateTotals()
	return r
}

// calculateTotals derives subtotal, tax and total from the line items.
// Invariants: subtotal = sum of line subtotals, tax = subtotal * 0.18,
// total = subtotal + tax.
func (r *Receipt) calculateTotals() {
	subtotal := types.Zero()
	for _, item := range r.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	r.Subtotal = subtotal
	r.Tax = subtotal.Mul(types.TaxRate)
	r.Total = r.Subtotal.Add(r.Tax)
}

// Void transitions the receipt from Issued to Voided.
// Voided is terminal: a second call is a conflict and leaves the state
// unchanged. Totals are not recalculated.
func (r *Receipt) Void() error {
	if r.Status == StatusVoided {
		return apperror.NewConflict("receipt is already voided").
			WithDetail("id", r.ID.String()).
			WithDetail("series", r.Series).
			WithDetail("number", r.Number)
	}
	r.Status = StatusVoided
	return nil
}

// IsVoided reports whether the receipt has been voided.
func (r *Receipt) IsVoided() bool {
	return r.Status == StatusVoided
}

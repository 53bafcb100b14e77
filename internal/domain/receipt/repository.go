package receipt

import (
	"context"
	"time"

	"emisor/internal/core/apperror"
	"emisor/internal/core/id"
	"emisor/internal/domain"
)

// Repository defines receipt persistence.
//
// Add, Update and NextNumber are expected to run inside a transaction
// started by the service; implementations pick the transaction up from the
// context. Add must surface a duplicate (series, number) pair as a
// Duplicate AppError so the service can retry allocation.
type Repository interface {
	// Add persists a new receipt together with its items.
	Add(ctx context.Context, r *Receipt) error

	// GetByID loads the full aggregate, items included.
	// Returns a NotFound AppError when no receipt has this id.
	GetByID(ctx context.Context, receiptID id.ID) (*Receipt, error)

	// Update persists a changed receipt header. Items are immutable and
	// are not written.
	Update(ctx context.Context, r *Receipt) error

	// Exists reports whether a receipt with this id is stored.
	Exists(ctx context.Context, receiptID id.ID) (bool, error)

	// NextNumber returns max(number)+1 for the series, 1 when the series
	// has never been used. Deleted or voided receipts still occupy their
	// number; gaps are never reused.
	NextNumber(ctx context.Context, series string) (int, error)

	// List returns a page of receipts matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Receipt], error)
}

// ListFilter narrows and paginates receipt listings.
// All criteria are optional and combine with AND semantics.
type ListFilter struct {
	domain.PageFilter

	// DateFrom/DateTo bound IssuedAt, both inclusive.
	DateFrom *time.Time
	DateTo   *time.Time

	Kind           *Kind
	Status         *Status
	RecipientTaxID *string
}

// Validate collects every filter violation into a single validation error.
func (f ListFilter) Validate() error {
	fields := map[string][]string{}
	add := func(field, msg string) {
		fields[field] = append(fields[field], msg)
	}

	if f.Page < 1 {
		add("page", "page must be greater than zero")
	}
	if f.PageSize < 1 {
		add("pageSize", "pageSize must be greater than zero")
	} else if f.PageSize > domain.MaxPageSize {
		add("pageSize", "pageSize must not exceed 50")
	}

	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		add("dateFrom", "dateFrom must not be after dateTo")
	}

	if f.Kind != nil && !f.Kind.IsValid() {
		add("kind", "kind must be Invoice or SimplifiedReceipt")
	}
	if f.Status != nil && !f.Status.IsValid() {
		add("status", "status must be Issued or Voided")
	}
	if f.RecipientTaxID != nil && *f.RecipientTaxID != "" && !taxIDPattern.MatchString(*f.RecipientTaxID) {
		add("recipientTaxId", "recipient tax id must be exactly 11 digits")
	}

	if len(fields) > 0 {
		return apperror.NewValidationFields(fields)
	}
	return nil
}

// Normalized returns a copy with date bounds converted to UTC and DateTo
// pushed to the end of its calendar day, so that a bare date like
// 2026-03-01 includes every receipt issued during that day.
func (f ListFilter) Normalized() ListFilter {
	if f.DateFrom != nil {
		from := f.DateFrom.UTC()
		f.DateFrom = &from
	}
	if f.DateTo != nil {
		d := f.DateTo.UTC()
		to := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999_000_000, time.UTC)
		f.DateTo = &to
	}
	return f
}

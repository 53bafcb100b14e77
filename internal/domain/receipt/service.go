package receipt

import (
	"context"

	"emisor/internal/core/apperror"
	"emisor/internal/core/id"
	"emisor/internal/core/tx"
	"emisor/internal/domain"
	"emisor/pkg/logger"
)

// maxNumberingAttempts bounds the allocate-and-insert retry loop in Create.
// Each attempt runs in its own serializable transaction; a lost race shows
// up as a duplicate (series, number) error and triggers one more attempt.
const maxNumberingAttempts = 3

// Service implements receipt use cases: issue, look up, void and list.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a receipt service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Create validates the input, allocates the next number in the series and
// persists the receipt atomically. Concurrent issuers of the same series
// may collide on the allocated number; the insert then fails on the
// (series, number) uniqueness guarantee and the whole allocate-and-insert
// sequence is retried with a fresh number.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Receipt, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created *Receipt
	var lastErr error

	for attempt := 1; attempt <= maxNumberingAttempts; attempt++ {
		err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
			number, err := s.repo.NextNumber(ctx, in.Series)
			if err != nil {
				return err
			}

			created = New(
				in.Kind,
				in.Series,
				number,
				in.IssuerTaxID,
				in.IssuerName,
				in.RecipientTaxID,
				in.RecipientName,
				in.Items,
			)

			return s.repo.Add(ctx, created)
		})
		if err == nil {
			logger.Info(ctx, "receipt issued",
				"receipt_id", created.ID,
				"kind", created.Kind,
				"series", created.Series,
				"number", created.Number,
				"total", created.Total,
				"attempt", attempt,
			)
			return created, nil
		}

		if apperror.IsDuplicate(err) {
			logger.Warn(ctx, "receipt number collision, retrying",
				"series", in.Series,
				"attempt", attempt,
			)
			lastErr = err
			continue
		}

		logger.Error(ctx, "failed to issue receipt",
			"series", in.Series,
			"error", err,
		)
		return nil, err
	}

	logger.Error(ctx, "receipt number allocation exhausted retries",
		"series", in.Series,
		"attempts", maxNumberingAttempts,
	)
	return nil, apperror.NewConflict("could not allocate a receipt number, please retry").
		WithDetail("series", in.Series).
		WithCause(lastErr)
}

// GetByID returns the full receipt aggregate.
func (s *Service) GetByID(ctx context.Context, receiptID id.ID) (*Receipt, error) {
	return s.repo.GetByID(ctx, receiptID)
}

// Void marks a receipt as voided. The receipt keeps its number, totals and
// items; only the status changes. Voiding an already voided receipt is a
// conflict, voiding a missing one is not found.
func (s *Service) Void(ctx context.Context, receiptID id.ID) (*Receipt, error) {
	var voided *Receipt

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := s.repo.GetByID(ctx, receiptID)
		if err != nil {
			return err
		}

		if err := r.Void(); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, r); err != nil {
			return err
		}

		voided = r
		return nil
	})
	if err != nil {
		if !apperror.IsNotFound(err) && !apperror.IsConflict(err) {
			logger.Error(ctx, "failed to void receipt",
				"receipt_id", receiptID,
				"error", err,
			)
		}
		return nil, err
	}

	logger.Info(ctx, "receipt voided",
		"receipt_id", voided.ID,
		"series", voided.Series,
		"number", voided.Number,
	)
	return voided, nil
}

// List returns a filtered page of receipts ordered by issue time, newest
// first. Date bounds are normalized to UTC, with DateTo extended to the end
// of its day, before they reach storage.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Receipt], error) {
	if err := filter.Validate(); err != nil {
		return domain.ListResult[*Receipt]{}, err
	}

	result, err := s.repo.List(ctx, filter.Normalized())
	if err != nil {
		logger.Error(ctx, "failed to list receipts", "error", err)
		return domain.ListResult[*Receipt]{}, err
	}
	return result, nil
}

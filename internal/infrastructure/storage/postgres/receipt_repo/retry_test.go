package receipt_repo

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emisor/internal/core/apperror"
)

func TestTranslateInsertError(t *testing.T) {
	t.Run("unique violation is retryable", func(t *testing.T) {
		raw := &pgconn.PgError{Code: "23505", ConstraintName: "receipts_series_number_key"}

		err := translateInsertError(raw, "F001", 7)
		require.Error(t, err)
		assert.True(t, apperror.IsDuplicate(err))
		assert.Equal(t, 400, apperror.GetHTTPStatus(err))

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "F001-7", appErr.Details["value"])
	})

	t.Run("serialization abort is retryable", func(t *testing.T) {
		raw := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "40001"})

		err := translateInsertError(raw, "F001", 7)
		require.Error(t, err)
		assert.True(t, apperror.IsDuplicate(err))
		assert.Equal(t, 400, apperror.GetHTTPStatus(err))
	})

	t.Run("other database errors are not retryable", func(t *testing.T) {
		err := translateInsertError(assert.AnError, "F001", 7)
		require.Error(t, err)
		assert.False(t, apperror.IsDuplicate(err))
		assert.ErrorIs(t, err, assert.AnError)
	})
}

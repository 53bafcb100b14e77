package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emisor/internal/core/apperror"
	"emisor/internal/core/types"
)

func item(qty, price string) ItemInput {
	return ItemInput{
		Description: "test item",
		Quantity:    types.MustMoney(qty),
		UnitPrice:   types.MustMoney(price),
	}
}

func TestNew_Totals(t *testing.T) {
	tests := []struct {
		name     string
		items    []ItemInput
		subtotal string
		tax      string
		total    string
	}{
		{
			name:     "fractional quantity",
			items:    []ItemInput{item("1", "1000.00"), item("2.5", "150.00")},
			subtotal: "1375.00",
			tax:      "247.50",
			total:    "1622.50",
		},
		{
			name:     "whole quantities",
			items:    []ItemInput{item("2", "50.00"), item("3", "30.00")},
			subtotal: "190.00",
			tax:      "34.20",
			total:    "224.20",
		},
		{
			name:     "single line",
			items:    []ItemInput{item("1", "100.00")},
			subtotal: "100.00",
			tax:      "18.00",
			total:    "118.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(KindSimplifiedReceipt, "B001", 1, "20123456789", "Acme SA", nil, nil, tt.items)

			assert.True(t, r.Subtotal.Equal(types.MustMoney(tt.subtotal)),
				"subtotal = %s, want %s", r.Subtotal, tt.subtotal)
			assert.True(t, r.Tax.Equal(types.MustMoney(tt.tax)),
				"tax = %s, want %s", r.Tax, tt.tax)
			assert.True(t, r.Total.Equal(types.MustMoney(tt.total)),
				"total = %s, want %s", r.Total, tt.total)
		})
	}
}

func TestNew_InitialState(t *testing.T) {
	recTaxID := "20987654321"
	recName := "Cliente SAC"

	r := New(KindInvoice, "F001", 42, "20123456789", "Acme SA", &recTaxID, &recName,
		[]ItemInput{item("1", "10.00"), item("2", "5.00")})

	assert.Equal(t, StatusIssued, r.Status)
	assert.False(t, r.IsVoided())
	assert.Equal(t, KindInvoice, r.Kind)
	assert.Equal(t, "F001", r.Series)
	assert.Equal(t, 42, r.Number)
	assert.False(t, r.ID.String() == "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, time.UTC, r.IssuedAt.Location())
	assert.WithinDuration(t, time.Now().UTC(), r.IssuedAt, 5*time.Second)

	require.Len(t, r.Items, 2)
	assert.Equal(t, 1, r.Items[0].LineNo)
	assert.Equal(t, 2, r.Items[1].LineNo)
	assert.True(t, r.Items[0].Subtotal.Equal(types.MustMoney("10.00")))
	assert.True(t, r.Items[1].Subtotal.Equal(types.MustMoney("10.00")))
}

func TestVoid(t *testing.T) {
	r := New(KindSimplifiedReceipt, "B001", 1, "20123456789", "Acme SA", nil, nil,
		[]ItemInput{item("1", "100.00")})
	totalBefore := r.Total

	err := r.Void()
	require.NoError(t, err)
	assert.Equal(t, StatusVoided, r.Status)
	assert.True(t, r.IsVoided())

	// Voiding never touches the totals
	assert.True(t, r.Total.Equal(totalBefore))
}

func TestVoid_AlreadyVoided(t *testing.T) {
	r := New(KindSimplifiedReceipt, "B001", 1, "20123456789", "Acme SA", nil, nil,
		[]ItemInput{item("1", "100.00")})
	require.NoError(t, r.Void())

	err := r.Void()
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus)

	// State stays Voided after the failed call
	assert.Equal(t, StatusVoided, r.Status)
}

func TestKind_SeriesPrefix(t *testing.T) {
	assert.Equal(t, byte('F'), KindInvoice.SeriesPrefix())
	assert.Equal(t, byte('B'), KindSimplifiedReceipt.SeriesPrefix())
}

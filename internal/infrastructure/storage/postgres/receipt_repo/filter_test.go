package receipt_repo

import (
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emisor/internal/domain"
	"emisor/internal/domain/receipt"
)

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func TestBuildListQuery_NoFilters(t *testing.T) {
	sql, args, err := buildListQuery(newBuilder(), receipt.ListFilter{}).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, "SELECT "))
	assert.Contains(t, sql, "FROM receipts")
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
}

func TestBuildListQuery_Filters(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 999_000_000, time.UTC)
	kind := receipt.KindInvoice
	status := receipt.StatusIssued
	taxID := "20987654321"

	tests := []struct {
		name     string
		filter   receipt.ListFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "date from",
			filter:   receipt.ListFilter{DateFrom: &from},
			wantSQL:  "issued_at >= $1",
			wantArgs: []any{from},
		},
		{
			name:     "date to",
			filter:   receipt.ListFilter{DateTo: &to},
			wantSQL:  "issued_at <= $1",
			wantArgs: []any{to},
		},
		{
			name:     "kind",
			filter:   receipt.ListFilter{Kind: &kind},
			wantSQL:  "kind = $1",
			wantArgs: []any{kind},
		},
		{
			name:     "status",
			filter:   receipt.ListFilter{Status: &status},
			wantSQL:  "status = $1",
			wantArgs: []any{status},
		},
		{
			name:     "recipient tax id",
			filter:   receipt.ListFilter{RecipientTaxID: &taxID},
			wantSQL:  "recipient_tax_id = $1",
			wantArgs: []any{taxID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := buildListQuery(newBuilder(), tt.filter).ToSql()
			require.NoError(t, err)
			assert.Contains(t, sql, tt.wantSQL)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildListQuery_CombinedFilters(t *testing.T) {
	kind := receipt.KindSimplifiedReceipt
	status := receipt.StatusVoided

	sql, args, err := buildListQuery(newBuilder(), receipt.ListFilter{
		Kind:   &kind,
		Status: &status,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "kind = $1")
	assert.Contains(t, sql, "status = $2")
	assert.Len(t, args, 2)
}

func TestBuildListQuery_EmptyRecipientIgnored(t *testing.T) {
	empty := ""
	sql, _, err := buildListQuery(newBuilder(), receipt.ListFilter{RecipientTaxID: &empty}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "recipient_tax_id")
}

func TestListQuery_Pagination(t *testing.T) {
	filter := receipt.ListFilter{
		PageFilter: domain.PageFilter{Page: 3, PageSize: 10},
	}

	q := buildListQuery(newBuilder(), filter).
		OrderBy("issued_at DESC", "id DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset()))

	sql, _, err := q.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "ORDER BY issued_at DESC, id DESC")
	assert.Contains(t, sql, "LIMIT 10")
	assert.Contains(t, sql, "OFFSET 20")
}

// Package receipt_repo implements receipt persistence on PostgreSQL.
package receipt_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"emisor/internal/core/apperror"
	"emisor/internal/core/id"
	"emisor/internal/core/types"
	"emisor/internal/domain"
	"emisor/internal/domain/receipt"
	"emisor/internal/infrastructure/storage/postgres"
)

const (
	receiptsTable     = "receipts"
	receiptItemsTable = "receipt_items"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// Compile-time check that ReceiptRepo implements receipt.Repository.
var _ receipt.Repository = (*ReceiptRepo)(nil)

// ReceiptRepo stores receipts and their items. All methods resolve their
// querier through the transaction manager, so they participate in whatever
// transaction the caller has opened.
type ReceiptRepo struct {
	txManager *postgres.TxManager
	columns   []string
}

// NewReceiptRepo creates a receipt repository.
func NewReceiptRepo(txManager *postgres.TxManager) *ReceiptRepo {
	return &ReceiptRepo{
		txManager: txManager,
		columns:   postgres.ExtractDBColumns[receipt.Receipt](),
	}
}

// builder returns a squirrel builder with PostgreSQL placeholders.
func (r *ReceiptRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// headerMap converts a receipt to an insert/update map with monetary values
// rounded to the storage scale.
func headerMap(rec *receipt.Receipt) map[string]any {
	m := postgres.StructToMap(rec)
	m["subtotal"] = types.RoundMoney(rec.Subtotal)
	m["tax"] = types.RoundMoney(rec.Tax)
	m["total"] = types.RoundMoney(rec.Total)
	return m
}

// Add inserts the receipt header and its items. A unique violation on
// (series, number) is reported as a Duplicate error so the service can
// re-allocate and retry.
func (r *ReceiptRepo) Add(ctx context.Context, rec *receipt.Receipt) error {
	querier := r.txManager.GetQuerier(ctx)

	sql, args, err := r.builder().
		Insert(receiptsTable).
		SetMap(headerMap(rec)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert receipt: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return translateInsertError(err, rec.Series, rec.Number)
	}

	return r.insertItems(ctx, rec.ID, rec.Items)
}

// translateInsertError classifies insert failures on the numbering path.
// A unique violation means another creator committed this (series, number)
// pair first; a serialization abort means the serializable transaction
// lost the same race before reaching the constraint. Both are retryable.
func translateInsertError(err error, series string, number int) error {
	if isUniqueViolation(err) {
		return apperror.NewDuplicate("receipt", "number",
			fmt.Sprintf("%s-%d", series, number)).WithCause(err)
	}
	if postgres.IsSerializationFailure(err) {
		return apperror.NewSerializationFailure(err)
	}
	return fmt.Errorf("insert receipt: %w", err)
}

func (r *ReceiptRepo) insertItems(ctx context.Context, receiptID id.ID, items []receipt.Item) error {
	if len(items) == 0 {
		return nil
	}

	q := r.builder().
		Insert(receiptItemsTable).
		Columns("id", "receipt_id", "line_no", "description", "quantity", "unit_price", "subtotal")

	for _, item := range items {
		q = q.Values(
			item.ID, receiptID, item.LineNo, item.Description,
			types.RoundQuantity(item.Quantity),
			types.RoundMoney(item.UnitPrice),
			types.RoundMoney(item.Subtotal),
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

// GetByID loads the full aggregate, items included.
func (r *ReceiptRepo) GetByID(ctx context.Context, receiptID id.ID) (*receipt.Receipt, error) {
	sql, args, err := r.builder().
		Select(r.columns...).
		From(receiptsTable).
		Where(squirrel.Eq{"id": receiptID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	var rec receipt.Receipt
	if err := pgxscan.Get(ctx, querier, &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("receipt", receiptID.String())
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}

	items, err := r.getItems(ctx, []id.ID{receiptID})
	if err != nil {
		return nil, err
	}
	rec.Items = items[receiptID]
	if rec.Items == nil {
		rec.Items = []receipt.Item{}
	}

	return &rec, nil
}

// Update rewrites the receipt header. Items never change after creation
// and are left untouched.
func (r *ReceiptRepo) Update(ctx context.Context, rec *receipt.Receipt) error {
	setMap := headerMap(rec)
	delete(setMap, "id")

	sql, args, err := r.builder().
		Update(receiptsTable).
		SetMap(setMap).
		Where(squirrel.Eq{"id": rec.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("receipt", rec.ID.String())
	}
	return nil
}

// Exists reports whether a receipt with this id is stored.
func (r *ReceiptRepo) Exists(ctx context.Context, receiptID id.ID) (bool, error) {
	querier := r.txManager.GetQuerier(ctx)

	var exists bool
	err := querier.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM "+receiptsTable+" WHERE id = $1)", receiptID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check existence: %w", err)
	}
	return exists, nil
}

// NextNumber returns max(number)+1 for the series. Runs inside the
// caller's serializable transaction; the UNIQUE (series, number)
// constraint catches the race two concurrent allocations can still lose.
func (r *ReceiptRepo) NextNumber(ctx context.Context, series string) (int, error) {
	querier := r.txManager.GetQuerier(ctx)

	var next int
	err := querier.QueryRow(ctx,
		"SELECT COALESCE(MAX(number), 0) + 1 FROM "+receiptsTable+" WHERE series = $1", series,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next number for series %s: %w", series, err)
	}
	return next, nil
}

// List returns a filtered page ordered by issue time descending, with the
// receipt id as a deterministic tie-breaker.
func (r *ReceiptRepo) List(ctx context.Context, filter receipt.ListFilter) (domain.ListResult[*receipt.Receipt], error) {
	result := domain.ListResult[*receipt.Receipt]{
		Items:    []*receipt.Receipt{},
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	q := buildListQuery(r.builder(), filter)

	countQ := r.builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("issued_at DESC", "id DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset()))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select receipts: %w", err)
	}

	if err := r.attachItems(ctx, result.Items); err != nil {
		return result, err
	}

	return result, nil
}

// buildListQuery translates the filter to a select. Split out so filter
// translation can be tested without a database.
func buildListQuery(b squirrel.StatementBuilderType, filter receipt.ListFilter) squirrel.SelectBuilder {
	q := b.Select(postgres.ExtractDBColumns[receipt.Receipt]()...).From(receiptsTable)

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"issued_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"issued_at": *filter.DateTo})
	}
	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.RecipientTaxID != nil && *filter.RecipientTaxID != "" {
		q = q.Where(squirrel.Eq{"recipient_tax_id": *filter.RecipientTaxID})
	}

	return q
}

// attachItems loads all items for the page in one query and distributes
// them to their receipts.
func (r *ReceiptRepo) attachItems(ctx context.Context, receipts []*receipt.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}

	ids := make([]id.ID, 0, len(receipts))
	for _, rec := range receipts {
		ids = append(ids, rec.ID)
	}

	itemsByReceipt, err := r.getItems(ctx, ids)
	if err != nil {
		return err
	}

	for _, rec := range receipts {
		rec.Items = itemsByReceipt[rec.ID]
		if rec.Items == nil {
			rec.Items = []receipt.Item{}
		}
	}
	return nil
}

// itemRow carries an item together with its owning receipt id.
type itemRow struct {
	ReceiptID id.ID `db:"receipt_id"`
	receipt.Item
}

func (r *ReceiptRepo) getItems(ctx context.Context, ids []id.ID) (map[id.ID][]receipt.Item, error) {
	sql, args, err := r.builder().
		Select("receipt_id", "id", "line_no", "description", "quantity", "unit_price", "subtotal").
		From(receiptItemsTable).
		Where(squirrel.Eq{"receipt_id": ids}).
		OrderBy("receipt_id", "line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	var rows []itemRow
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	byReceipt := make(map[id.ID][]receipt.Item, len(ids))
	for _, row := range rows {
		byReceipt[row.ReceiptID] = append(byReceipt[row.ReceiptID], row.Item)
	}
	return byReceipt, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

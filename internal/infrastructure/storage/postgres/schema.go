package postgres

import (
	"context"
	"fmt"
)

// schemaDDL creates the receipt tables. The UNIQUE constraint on
// (series, number) is the storage-level guarantee behind number
// allocation: two concurrent inserts of the same number cannot both
// commit, the loser gets a unique violation and retries.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS receipts (
    id                UUID PRIMARY KEY,
    kind              TEXT NOT NULL CHECK (kind IN ('Invoice', 'SimplifiedReceipt')),
    series            TEXT NOT NULL,
    number            INTEGER NOT NULL CHECK (number > 0),
    issued_at         TIMESTAMPTZ NOT NULL,
    issuer_tax_id     TEXT NOT NULL,
    issuer_name       TEXT NOT NULL,
    recipient_tax_id  TEXT,
    recipient_name    TEXT,
    subtotal          NUMERIC(12, 2) NOT NULL,
    tax               NUMERIC(12, 2) NOT NULL,
    total             NUMERIC(12, 2) NOT NULL,
    status            TEXT NOT NULL CHECK (status IN ('Issued', 'Voided')),
    CONSTRAINT receipts_series_number_key UNIQUE (series, number)
);

CREATE INDEX IF NOT EXISTS idx_receipts_issued_at ON receipts (issued_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_receipts_recipient ON receipts (recipient_tax_id) WHERE recipient_tax_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS receipt_items (
    id          UUID PRIMARY KEY,
    receipt_id  UUID NOT NULL REFERENCES receipts (id) ON DELETE CASCADE,
    line_no     INTEGER NOT NULL,
    description TEXT NOT NULL,
    quantity    NUMERIC(12, 3) NOT NULL CHECK (quantity > 0),
    unit_price  NUMERIC(12, 2) NOT NULL CHECK (unit_price > 0),
    subtotal    NUMERIC(12, 2) NOT NULL,
    CONSTRAINT receipt_items_line_key UNIQUE (receipt_id, line_no)
);
`

// EnsureSchema creates the tables if they do not exist yet.
// Used by the seed tool and by tests against a disposable database.
func EnsureSchema(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

package domain

import "context"

// Connector is a live handle to one database. It is owned by a single
// backup run and must not be shared across concurrent operations.
type Connector interface {
	// Tables returns the table names visible in the live schema at call
	// time, in a stable discovery order. Results are never cached.
	Tables(ctx context.Context) ([]string, error)

	// RowCount is informational only: under concurrent writes on the
	// source it may not match what FetchBatch ultimately returns.
	RowCount(ctx context.Context, table string) (int64, error)

	// FetchBatch returns at most limit rows starting at offset. An empty
	// result signals exhaustion. Pagination is pure LIMIT/OFFSET, so
	// batches can be fetched independently.
	FetchBatch(ctx context.Context, table string, limit, offset int) ([]Row, error)

	// Close releases the underlying connection. Idempotent and safe to
	// call after a failure.
	Close() error
}

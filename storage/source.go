package storage

// RowCursor is one pass over a row source. Cursors are single-consumer and
// forward-only; re-scanning means opening a fresh cursor.
type RowCursor interface {
	// Next advances to the next row, returning false at end-of-stream or on
	// failure. After false, Error distinguishes the two.
	Next() bool

	// Current returns the row most recently read by Next.
	Current() Row

	// Error returns the failure that terminated the cursor, if any.
	Error() error

	// Close releases resources held by the cursor.
	Close() error
}

// RowSource is the abstract iterator over base-table rows the engine reads
// from; physical storage lives behind this interface. A source must support
// multiple independent cursors, since a nested-loop join re-scans its right
// side once per outer row, and opening a cursor must be cheap.
type RowSource interface {
	// Schema returns the fixed schema every row of this source conforms to.
	Schema() *Schema

	// Open acquires a new independent cursor positioned before the first
	// row.
	Open() (RowCursor, error)
}

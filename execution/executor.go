package execution

import (
	"github.com/steindb/stein/planner"
	"github.com/steindb/stein/storage"
)

// Executor is the interface that all pull-based execution nodes implement.
// The pipeline is single-threaded: Next on a parent recursively calls Next
// on children until a row or end-of-stream surfaces. When a consumer stops
// pulling (e.g. past a Limit), streaming operators simply stop being
// invoked; no cancellation signal exists or is needed.
type Executor interface {
	// PlanNode returns the plan node this executor realizes.
	PlanNode() planner.PlanNode

	// Init prepares the executor for a (re-)run under the given context.
	// Init may be called again to restart the stream from the beginning;
	// nested-loop joins and correlated subqueries rely on restarts being
	// cheap.
	Init(ctx *ExecutorContext) error

	// Next advances to the next row, returning false at end-of-stream or
	// on error. After false, Error distinguishes the two.
	Next() bool

	// Current returns the row most recently read by Next.
	Current() storage.Row

	// Error returns the first error encountered by the executor, if any.
	Error() error

	// Close releases any resources held by the executor.
	Close() error
}

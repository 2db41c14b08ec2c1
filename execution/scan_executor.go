package execution

import (
	"github.com/steindb/stein/common"
	"github.com/steindb/stein/planner"
	"github.com/steindb/stein/storage"
)

// ScanExecutor streams a base table through a catalog-resolved row source.
type ScanExecutor struct {
	plan *planner.ScanNode

	// Runtime state
	cursor  storage.RowCursor
	current storage.Row
	err     error
}

// NewScanExecutor creates a new ScanExecutor.
func NewScanExecutor(plan *planner.ScanNode) *ScanExecutor {
	return &ScanExecutor{plan: plan}
}

func (e *ScanExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *ScanExecutor) Init(ctx *ExecutorContext) error {
	// Restarts open a fresh independent cursor; the previous one is
	// released first so re-scans (nested-loop right sides) do not leak.
	if e.cursor != nil {
		if err := e.cursor.Close(); err != nil {
			return common.Errorf(common.RowSourceFailure,
				"closing cursor on %s: %v", e.plan.Table, err)
		}
	}
	e.current = storage.Row{}
	e.err = nil

	source, err := ctx.Catalog().Resolve(e.plan.Table)
	if err != nil {
		return err
	}
	cursor, err := source.Open()
	if err != nil {
		return common.Errorf(common.RowSourceFailure,
			"opening cursor on %s: %v", e.plan.Table, err)
	}
	e.cursor = cursor
	return nil
}

func (e *ScanExecutor) Next() bool {
	common.Assert(e.cursor != nil, "ScanExecutor.Init() must be called before Next()")
	if e.err != nil {
		return false
	}
	if !e.cursor.Next() {
		if cerr := e.cursor.Error(); cerr != nil {
			// External failures are propagated unchanged, never retried.
			e.err = cerr
		}
		return false
	}
	// Stamp the base row with the alias-qualified scan schema so column
	// references of the form "s.price" resolve.
	e.current = e.cursor.Current().WithSchema(e.plan.OutputSchema())
	return true
}

func (e *ScanExecutor) Current() storage.Row {
	return e.current
}

func (e *ScanExecutor) Error() error {
	return e.err
}

func (e *ScanExecutor) Close() error {
	if e.cursor != nil {
		cursor := e.cursor
		e.cursor = nil
		return cursor.Close()
	}
	return nil
}

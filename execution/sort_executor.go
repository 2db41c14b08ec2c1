package execution

import (
	"sort"

	"github.com/steindb/stein/planner"
	"github.com/steindb/stein/storage"
)

// SortExecutor orders the input rows by the plan's order-by clauses. It is
// a blocking operator but sorts lazily, on the first Next.
//
// The sort is stable, so rows with equal keys keep their relative input
// order. NULL keys sort lowest in ascending order (Value.Compare treats
// NULL as less than every non-NULL value).
type SortExecutor struct {
	plan  *planner.SortNode
	child Executor

	// Runtime state
	sortedRows   []storage.Row
	computed     bool
	currentIndex int
	err          error
}

// NewSortExecutor creates a new SortExecutor.
func NewSortExecutor(plan *planner.SortNode, child Executor) *SortExecutor {
	return &SortExecutor{plan: plan, child: child, currentIndex: -1}
}

func (e *SortExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *SortExecutor) Init(ctx *ExecutorContext) error {
	e.sortedRows = nil
	e.computed = false
	e.currentIndex = -1
	e.err = nil
	return e.child.Init(ctx)
}

func (e *SortExecutor) sortAllRows() error {
	for e.child.Next() {
		e.sortedRows = append(e.sortedRows, e.child.Current())
	}
	if err := e.child.Error(); err != nil {
		return err
	}

	var sortErr error
	sort.SliceStable(e.sortedRows, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		r1 := e.sortedRows[i]
		r2 := e.sortedRows[j]
		for _, order := range e.plan.OrderBy {
			v1, err := order.Expr.Eval(r1)
			if err != nil {
				sortErr = err
				return false
			}
			v2, err := order.Expr.Eval(r2)
			if err != nil {
				sortErr = err
				return false
			}
			cmp, err := v1.Compare(v2)
			if err != nil {
				sortErr = err
				return false
			}
			if cmp == 0 {
				continue
			}
			if order.Direction == planner.SortAscending {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})
	return sortErr
}

func (e *SortExecutor) Next() bool {
	if e.err != nil {
		return false
	}
	if !e.computed {
		if err := e.sortAllRows(); err != nil {
			e.err = err
			return false
		}
		e.computed = true
	}
	e.currentIndex++
	return e.currentIndex < len(e.sortedRows)
}

func (e *SortExecutor) Current() storage.Row {
	return e.sortedRows[e.currentIndex]
}

func (e *SortExecutor) Error() error {
	return e.err
}

func (e *SortExecutor) Close() error {
	e.sortedRows = nil
	return e.child.Close()
}

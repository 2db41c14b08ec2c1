package execution

import (
	"github.com/steindb/stein/planner"
	"github.com/steindb/stein/storage"
)

// FilterExecutor filters rows from its child based on a predicate. A
// predicate result of false or NULL excludes the row; only true admits it.
type FilterExecutor struct {
	plan  *planner.FilterNode
	child Executor

	err error
}

// NewFilterExecutor creates a new FilterExecutor.
func NewFilterExecutor(plan *planner.FilterNode, child Executor) *FilterExecutor {
	return &FilterExecutor{plan: plan, child: child}
}

func (e *FilterExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *FilterExecutor) Init(ctx *ExecutorContext) error {
	e.err = nil
	return e.child.Init(ctx)
}

func (e *FilterExecutor) Next() bool {
	if e.err != nil {
		return false
	}
	for e.child.Next() {
		res, err := e.plan.Predicate.Eval(e.child.Current())
		if err != nil {
			e.err = err
			return false
		}
		if planner.ExprIsTrue(res) {
			return true
		}
	}
	return false
}

func (e *FilterExecutor) Current() storage.Row {
	return e.child.Current()
}

func (e *FilterExecutor) Error() error {
	if e.err != nil {
		return e.err
	}
	return e.child.Error()
}

func (e *FilterExecutor) Close() error {
	return e.child.Close()
}

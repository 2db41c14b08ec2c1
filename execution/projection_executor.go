package execution

import (
	"github.com/steindb/stein/common"
	"github.com/steindb/stein/planner"
	"github.com/steindb/stein/storage"
)

// ProjectionExecutor computes one output row per input row from the plan's
// projection clauses.
type ProjectionExecutor struct {
	plan  *planner.ProjectionNode
	child Executor

	current storage.Row
	err     error
}

// NewProjectionExecutor creates a new ProjectionExecutor.
func NewProjectionExecutor(plan *planner.ProjectionNode, child Executor) *ProjectionExecutor {
	return &ProjectionExecutor{plan: plan, child: child}
}

func (e *ProjectionExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *ProjectionExecutor) Init(ctx *ExecutorContext) error {
	e.current = storage.Row{}
	e.err = nil
	return e.child.Init(ctx)
}

func (e *ProjectionExecutor) Next() bool {
	if e.err != nil {
		return false
	}
	if !e.child.Next() {
		return false
	}
	in := e.child.Current()
	values := make([]common.Value, len(e.plan.Clauses))
	for i, clause := range e.plan.Clauses {
		v, err := clause.Expr.Eval(in)
		if err != nil {
			e.err = err
			return false
		}
		values[i] = v
	}
	e.current = storage.NewRow(e.plan.OutputSchema(), values)
	return true
}

func (e *ProjectionExecutor) Current() storage.Row {
	return e.current
}

func (e *ProjectionExecutor) Error() error {
	if e.err != nil {
		return e.err
	}
	return e.child.Error()
}

func (e *ProjectionExecutor) Close() error {
	return e.child.Close()
}

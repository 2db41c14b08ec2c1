package execution

import (
	"github.com/steindb/stein/planner"
	"github.com/steindb/stein/storage"
)

// LimitExecutor emits at most the plan's limit of rows, then reports
// end-of-stream without pulling further from its child. Upstream streaming
// operators simply stop being invoked; blocking operators below have
// already done their work by the time the limit applies.
type LimitExecutor struct {
	plan  *planner.LimitNode
	child Executor

	numEmitted int
}

// NewLimitExecutor creates a new LimitExecutor.
func NewLimitExecutor(plan *planner.LimitNode, child Executor) *LimitExecutor {
	return &LimitExecutor{plan: plan, child: child}
}

func (e *LimitExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *LimitExecutor) Init(ctx *ExecutorContext) error {
	e.numEmitted = 0
	return e.child.Init(ctx)
}

func (e *LimitExecutor) Next() bool {
	if e.numEmitted >= e.plan.Limit {
		return false
	}
	if e.child.Next() {
		e.numEmitted++
		return true
	}
	return false
}

func (e *LimitExecutor) Current() storage.Row {
	return e.child.Current()
}

func (e *LimitExecutor) Error() error {
	return e.child.Error()
}

func (e *LimitExecutor) Close() error {
	return e.child.Close()
}

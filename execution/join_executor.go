package execution

import (
	"github.com/steindb/stein/planner"
	"github.com/steindb/stein/storage"
)

// JoinExecutor implements a tuple-at-a-time nested loop join. The left
// child is the outer loop and the right child is re-initialized and fully
// scanned once per left row, so output order is left-major, right-minor.
// That is the order any downstream Sort sees.
//
// In LeftOuter mode, a left row that matched nothing on the right is
// emitted once concatenated with an all-NULL right-side row. Inner mode
// emits nothing for such rows.
type JoinExecutor struct {
	plan        *planner.JoinNode
	left, right Executor

	// Runtime state
	ctx      *ExecutorContext
	leftRow  storage.Row
	haveLeft bool
	matched  bool
	current  storage.Row
	err      error
}

// NewJoinExecutor creates a new JoinExecutor.
func NewJoinExecutor(plan *planner.JoinNode, left, right Executor) *JoinExecutor {
	return &JoinExecutor{plan: plan, left: left, right: right}
}

func (e *JoinExecutor) PlanNode() planner.PlanNode {
	return e.plan
}

func (e *JoinExecutor) Init(ctx *ExecutorContext) error {
	e.ctx = ctx
	e.leftRow = storage.Row{}
	e.haveLeft = false
	e.matched = false
	e.current = storage.Row{}
	e.err = nil
	// The right child is initialized lazily, once per left row.
	return e.left.Init(ctx)
}

func (e *JoinExecutor) Next() bool {
	if e.err != nil {
		return false
	}

	for {
		if !e.haveLeft {
			if !e.left.Next() {
				e.err = e.left.Error()
				return false
			}
			e.leftRow = e.left.Current()
			e.haveLeft = true
			e.matched = false
			if err := e.right.Init(e.ctx); err != nil {
				e.err = err
				return false
			}
		}

		if e.right.Next() {
			joined := e.leftRow.Concat(e.right.Current())
			res, err := e.plan.Predicate.Eval(joined)
			if err != nil {
				e.err = err
				return false
			}
			if planner.ExprIsTrue(res) {
				e.matched = true
				e.current = joined
				return true
			}
			continue
		}

		if rerr := e.right.Error(); rerr != nil {
			e.err = rerr
			return false
		}

		// Right side exhausted for this left row.
		e.haveLeft = false
		if e.plan.Mode == planner.LeftOuterJoin && !e.matched {
			e.current = e.leftRow.Concat(storage.NullRow(e.plan.Right.OutputSchema()))
			return true
		}
	}
}

func (e *JoinExecutor) Current() storage.Row {
	return e.current
}

func (e *JoinExecutor) Error() error {
	return e.err
}

func (e *JoinExecutor) Close() error {
	lerr := e.left.Close()
	rerr := e.right.Close()
	if lerr != nil {
		return lerr
	}
	return rerr
}

package execution

import (
	"github.com/steindb/stein/planner"
)

// existsRunner is the executable form of a correlated EXISTS subquery. The
// inner executor tree is built once; each outer row re-initializes it
// (parameter slots already rebound by the ExistsExpr) and pulls at most one
// row. Re-initialization is the same restart a nested-loop join uses for
// its right side; the tree is never rebuilt.
type existsRunner struct {
	inner planner.PlanNode
	exec  Executor
	ctx   *ExecutorContext
}

func newExistsRunner(inner planner.PlanNode, exec Executor, ctx *ExecutorContext) *existsRunner {
	return &existsRunner{inner: inner, exec: exec, ctx: ctx}
}

func (r *existsRunner) RunOnce() (bool, error) {
	if err := r.exec.Init(r.ctx); err != nil {
		return false, err
	}
	defer r.exec.Close()

	// Short-circuit on the first row; how many more would qualify is
	// irrelevant to EXISTS.
	if r.exec.Next() {
		return true, nil
	}
	if err := r.exec.Error(); err != nil {
		return false, err
	}
	return false, nil
}

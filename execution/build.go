package execution

import (
	"fmt"

	"github.com/steindb/stein/planner"
)

// Build turns a plan tree into an executor tree. Plans are executed as
// given, with no rewriting or operator substitution. The context is needed at
// build time (in addition to Init) because EXISTS subqueries get their own
// executor pipelines built and attached here, and those pipelines restart
// against the same context once per outer row.
func Build(plan planner.PlanNode, ctx *ExecutorContext) (Executor, error) {
	switch n := plan.(type) {
	case *planner.ScanNode:
		return NewScanExecutor(n), nil

	case *planner.FilterNode:
		child, err := Build(n.Child, ctx)
		if err != nil {
			return nil, err
		}
		if err := bindSubqueries(ctx, n.Predicate); err != nil {
			return nil, err
		}
		return NewFilterExecutor(n, child), nil

	case *planner.JoinNode:
		left, err := Build(n.Left, ctx)
		if err != nil {
			return nil, err
		}
		right, err := Build(n.Right, ctx)
		if err != nil {
			return nil, err
		}
		if err := bindSubqueries(ctx, n.Predicate); err != nil {
			return nil, err
		}
		return NewJoinExecutor(n, left, right), nil

	case *planner.AggregateNode:
		child, err := Build(n.Child, ctx)
		if err != nil {
			return nil, err
		}
		exprs := make([]planner.Expr, 0, len(n.GroupBy)+len(n.Aggregates)+1)
		exprs = append(exprs, n.GroupBy...)
		for _, agg := range n.Aggregates {
			exprs = append(exprs, agg.Expr)
		}
		if n.Having != nil {
			exprs = append(exprs, n.Having)
		}
		if err := bindSubqueries(ctx, exprs...); err != nil {
			return nil, err
		}
		return NewAggregateExecutor(n, child), nil

	case *planner.ProjectionNode:
		child, err := Build(n.Child, ctx)
		if err != nil {
			return nil, err
		}
		exprs := make([]planner.Expr, len(n.Clauses))
		for i, c := range n.Clauses {
			exprs[i] = c.Expr
		}
		if err := bindSubqueries(ctx, exprs...); err != nil {
			return nil, err
		}
		return NewProjectionExecutor(n, child), nil

	case *planner.SortNode:
		child, err := Build(n.Child, ctx)
		if err != nil {
			return nil, err
		}
		exprs := make([]planner.Expr, len(n.OrderBy))
		for i, o := range n.OrderBy {
			exprs[i] = o.Expr
		}
		if err := bindSubqueries(ctx, exprs...); err != nil {
			return nil, err
		}
		return NewSortExecutor(n, child), nil

	case *planner.LimitNode:
		child, err := Build(n.Child, ctx)
		if err != nil {
			return nil, err
		}
		return NewLimitExecutor(n, child), nil
	}

	return nil, fmt.Errorf("unknown plan node %T", plan)
}

// bindSubqueries walks the given expressions and attaches an executable
// pipeline to every ExistsExpr found. Inner plans may themselves contain
// subqueries; the recursive Build handles arbitrary nesting.
func bindSubqueries(ctx *ExecutorContext, exprs ...planner.Expr) error {
	var buildErr error
	for _, expr := range exprs {
		planner.WalkExpr(expr, func(e planner.Expr) {
			exists, ok := e.(*planner.ExistsExpr)
			if !ok || buildErr != nil {
				return
			}
			inner, err := Build(exists.Inner, ctx)
			if err != nil {
				buildErr = err
				return
			}
			exists.BindRunner(newExistsRunner(exists.Inner, inner, ctx))
		})
	}
	return buildErr
}

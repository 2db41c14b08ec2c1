package planner

import (
	"github.com/steindb/stein/common"
	"github.com/steindb/stein/storage"
)

// ParamExpr is a free-variable slot inside a correlated subquery plan. The
// slot is built once with the plan; per outer row the enclosing ExistsExpr
// rebinds it to a concrete value. This is explicit rebinding of a prebuilt
// expression tree, not lexical capture: nothing is re-parsed or re-planned
// between outer rows.
type ParamExpr struct {
	name       string
	outputType common.Type

	val   common.Value
	bound bool
}

func NewParam(name string, outputType common.Type) *ParamExpr {
	return &ParamExpr{name: name, outputType: outputType}
}

// Bind sets the slot's value for the current outer row.
func (e *ParamExpr) Bind(v common.Value) {
	e.val = v
	e.bound = true
}

func (e *ParamExpr) Eval(r storage.Row) (common.Value, error) {
	if !e.bound {
		return common.Value{}, common.Errorf(common.UnresolvedColumn,
			"correlated parameter %q evaluated before binding", e.name)
	}
	return e.val, nil
}

func (e *ParamExpr) OutputType() common.Type {
	return e.outputType
}

func (e *ParamExpr) String() string {
	return "$" + e.name
}

// CorrelatedBinding ties a parameter slot in the inner plan to the outer
// expression whose per-row value it takes.
type CorrelatedBinding struct {
	Param *ParamExpr
	Outer Expr
}

// SubqueryRunner executes a prepared inner pipeline until it yields its
// first row. The execution layer installs the runner when it builds the
// executor tree; the planner never constructs executors itself.
type SubqueryRunner interface {
	// RunOnce re-runs the inner pipeline from the start against the current
	// parameter bindings, returning whether it produced at least one row.
	RunOnce() (bool, error)
}

// ExistsExpr is a correlated EXISTS predicate. It owns the inner plan tree
// and the bindings from outer columns to the plan's parameter slots.
//
// Evaluation per outer row: bind every slot, re-run the inner pipeline,
// return true on the first inner row (short-circuiting regardless of how
// many rows would qualify), false when the inner stream is exhausted empty.
// EXISTS never yields NULL.
type ExistsExpr struct {
	Inner    PlanNode
	Bindings []CorrelatedBinding

	runner SubqueryRunner
}

func NewExists(inner PlanNode, bindings []CorrelatedBinding) *ExistsExpr {
	return &ExistsExpr{Inner: inner, Bindings: bindings}
}

// BindRunner installs the executable form of the inner plan. Called exactly
// once, by the executor builder, before the first Eval.
func (e *ExistsExpr) BindRunner(r SubqueryRunner) {
	e.runner = r
}

func (e *ExistsExpr) Eval(r storage.Row) (common.Value, error) {
	common.Assert(e.runner != nil, "EXISTS expression evaluated before its runner was bound")

	for _, b := range e.Bindings {
		v, err := b.Outer.Eval(r)
		if err != nil {
			return common.Value{}, err
		}
		b.Param.Bind(v)
	}

	found, err := e.runner.RunOnce()
	if err != nil {
		return common.Value{}, err
	}
	return common.NewBoolValue(found), nil
}

func (e *ExistsExpr) OutputType() common.Type {
	return common.BoolType
}

func (e *ExistsExpr) String() string {
	return "EXISTS(" + e.Inner.String() + ")"
}

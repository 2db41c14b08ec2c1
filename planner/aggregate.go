package planner

import (
	"fmt"

	"github.com/steindb/stein/common"
	"github.com/steindb/stein/storage"
)

// AggregatorType is the closed set of aggregate functions. Aggregates are
// enumerated at plan-construction time; there is no runtime dispatch by
// function name.
type AggregatorType int

const (
	AggSum AggregatorType = iota
	AggCount
	AggMin
	AggMax
)

func (a AggregatorType) String() string {
	switch a {
	case AggSum:
		return "sum"
	case AggCount:
		return "count"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	}
	return "???"
}

// AggregateClause is one aggregate computation over a group: the function
// and the argument expression evaluated per input row.
//
// COUNT(expr) counts non-NULL evaluations of expr; COUNT(*) is spelled as
// COUNT over the literal 1, which never evaluates to NULL and therefore
// counts rows.
type AggregateClause struct {
	Type AggregatorType
	Expr Expr
}

// OutputName is the synthesized column name the aggregation operator emits
// this clause's result under, e.g. "sum(s.price)". Expressions above the
// aggregation (HAVING, projections) reach the result through this column.
func (c AggregateClause) OutputName() string {
	return fmt.Sprintf("%s(%s)", c.Type, c.Expr)
}

// OutputType is the result type: COUNT is always an integer, the rest take
// their argument's type.
func (c AggregateClause) OutputType() common.Type {
	if c.Type == AggCount {
		return common.IntType
	}
	return c.Expr.OutputType()
}

// AggregateRefExpr references an aggregate result from HAVING or from a
// projection above the aggregation. It resolves the clause's synthesized
// output column in the row it is evaluated against; when that column is
// absent the reference is outside any aggregation context, which is an
// InvalidAggregateContext error. The check is lazy, at evaluation time.
type AggregateRefExpr struct {
	clause AggregateClause
}

func NewAggregateRef(aggType AggregatorType, arg Expr) *AggregateRefExpr {
	return &AggregateRefExpr{clause: AggregateClause{Type: aggType, Expr: arg}}
}

// Clause returns the clause this reference resolves to. The aggregation
// node matches clauses by output name, so a reference and a clause built
// from equal expressions find each other without shared pointers.
func (e *AggregateRefExpr) Clause() AggregateClause {
	return e.clause
}

func (e *AggregateRefExpr) Eval(r storage.Row) (common.Value, error) {
	idx, err := r.Schema().Resolve("", e.clause.OutputName())
	if err != nil {
		return common.Value{}, common.Errorf(common.InvalidAggregateContext,
			"aggregate %s referenced outside aggregation context", e.clause.OutputName())
	}
	return r.Value(idx), nil
}

func (e *AggregateRefExpr) OutputType() common.Type {
	return e.clause.OutputType()
}

func (e *AggregateRefExpr) String() string {
	return e.clause.OutputName()
}

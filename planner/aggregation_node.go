package planner

import (
	"fmt"

	"github.com/steindb/stein/storage"
)

// AggregateNode partitions its input by the group-by expressions, computes
// one accumulator per aggregate clause per group, and keeps only groups
// whose HAVING predicate is true (false and NULL both drop the group).
// Having may be nil.
//
// The output schema is the group-by columns followed by one synthesized
// column per aggregate clause, named by the clause's OutputName. Group-by
// columns that are plain column references keep their qualifier and name;
// computed group keys are named by their expression text.
type AggregateNode struct {
	Child      PlanNode
	GroupBy    []Expr
	Aggregates []AggregateClause
	Having     Expr

	outputSchema *storage.Schema
}

func NewAggregateNode(child PlanNode, groupBy []Expr, aggregates []AggregateClause, having Expr) *AggregateNode {
	columns := make([]storage.Column, 0, len(groupBy)+len(aggregates))
	for _, expr := range groupBy {
		if ref, ok := expr.(*ColumnRefExpr); ok {
			columns = append(columns, storage.Column{
				Table: ref.Table(),
				Name:  ref.Name(),
				Type:  ref.OutputType(),
			})
			continue
		}
		columns = append(columns, storage.Column{Name: expr.String(), Type: expr.OutputType()})
	}
	for _, agg := range aggregates {
		columns = append(columns, storage.Column{Name: agg.OutputName(), Type: agg.OutputType()})
	}

	return &AggregateNode{
		Child:        child,
		GroupBy:      groupBy,
		Aggregates:   aggregates,
		Having:       having,
		outputSchema: storage.NewSchema(columns...),
	}
}

func (n *AggregateNode) OutputSchema() *storage.Schema {
	return n.outputSchema
}

func (n *AggregateNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *AggregateNode) String() string {
	return fmt.Sprintf("Aggregate(groupBy=%v)", n.GroupBy)
}

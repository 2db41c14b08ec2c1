package planner

import (
	"github.com/steindb/stein/storage"
)

// ProjectionClause is one output column: the expression computing it and an
// optional alias. Without an alias the column is named by the expression
// text; a plain column reference keeps its own name and qualifier.
type ProjectionClause struct {
	Expr  Expr
	Alias string
}

// ProjectionNode computes a new row per input row from its clauses.
type ProjectionNode struct {
	Child   PlanNode
	Clauses []ProjectionClause

	outputSchema *storage.Schema
}

func NewProjectionNode(child PlanNode, clauses []ProjectionClause) *ProjectionNode {
	columns := make([]storage.Column, len(clauses))
	for i, c := range clauses {
		switch {
		case c.Alias != "":
			columns[i] = storage.Column{Name: c.Alias, Type: c.Expr.OutputType()}
		default:
			if ref, ok := c.Expr.(*ColumnRefExpr); ok {
				columns[i] = storage.Column{Table: ref.Table(), Name: ref.Name(), Type: ref.OutputType()}
			} else {
				columns[i] = storage.Column{Name: c.Expr.String(), Type: c.Expr.OutputType()}
			}
		}
	}
	return &ProjectionNode{
		Child:        child,
		Clauses:      clauses,
		outputSchema: storage.NewSchema(columns...),
	}
}

func (n *ProjectionNode) OutputSchema() *storage.Schema {
	return n.outputSchema
}

func (n *ProjectionNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *ProjectionNode) String() string {
	return "Projection"
}

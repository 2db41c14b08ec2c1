package planner

import (
	"fmt"

	"github.com/steindb/stein/storage"
)

// FilterNode passes through child rows whose predicate evaluates to true.
// Rows where the predicate is false or NULL are excluded.
type FilterNode struct {
	Child     PlanNode
	Predicate Expr
}

func NewFilterNode(child PlanNode, predicate Expr) *FilterNode {
	return &FilterNode{Child: child, Predicate: predicate}
}

func (n *FilterNode) OutputSchema() *storage.Schema {
	return n.Child.OutputSchema()
}

func (n *FilterNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *FilterNode) String() string {
	return fmt.Sprintf("Filter(%s)", n.Predicate.String())
}

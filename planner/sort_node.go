package planner

import (
	"github.com/steindb/stein/storage"
)

type SortDirection int

const (
	SortAscending SortDirection = iota
	SortDescending
)

type OrderByClause struct {
	Expr      Expr
	Direction SortDirection
}

// SortNode orders its input by the order-by clauses, first clause most
// significant. The sort is stable: rows with equal keys keep their input
// order. NULL sorts lowest in ascending order.
type SortNode struct {
	Child   PlanNode
	OrderBy []OrderByClause
}

func NewSortNode(child PlanNode, orderBy []OrderByClause) *SortNode {
	return &SortNode{Child: child, OrderBy: orderBy}
}

func (n *SortNode) OutputSchema() *storage.Schema {
	return n.Child.OutputSchema()
}

func (n *SortNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *SortNode) String() string {
	return "Sort"
}

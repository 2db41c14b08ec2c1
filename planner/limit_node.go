package planner

import (
	"fmt"

	"github.com/steindb/stein/storage"
)

// LimitNode emits at most Limit rows, then signals end-of-stream without
// pulling further from its child.
type LimitNode struct {
	Child PlanNode
	Limit int
}

func NewLimitNode(child PlanNode, limit int) *LimitNode {
	return &LimitNode{Child: child, Limit: limit}
}

func (n *LimitNode) OutputSchema() *storage.Schema {
	return n.Child.OutputSchema()
}

func (n *LimitNode) Children() []PlanNode {
	return []PlanNode{n.Child}
}

func (n *LimitNode) String() string {
	return fmt.Sprintf("Limit(%d)", n.Limit)
}

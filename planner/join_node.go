package planner

import (
	"fmt"

	"github.com/steindb/stein/storage"
)

type JoinMode int

const (
	InnerJoin JoinMode = iota
	LeftOuterJoin
)

func (m JoinMode) String() string {
	switch m {
	case InnerJoin:
		return "Inner"
	case LeftOuterJoin:
		return "LeftOuter"
	}
	return "???"
}

// JoinNode joins two children under a predicate with nested-loop semantics.
// The output schema is the left schema followed by the right, qualifiers
// preserved. In LeftOuter mode a left row with no matching right rows is
// emitted once, padded with an all-NULL right side.
type JoinNode struct {
	Left      PlanNode
	Right     PlanNode
	Predicate Expr
	Mode      JoinMode

	outputSchema *storage.Schema
}

func NewJoinNode(left, right PlanNode, predicate Expr, mode JoinMode) *JoinNode {
	return &JoinNode{
		Left:         left,
		Right:        right,
		Predicate:    predicate,
		Mode:         mode,
		outputSchema: left.OutputSchema().Concat(right.OutputSchema()),
	}
}

func (n *JoinNode) OutputSchema() *storage.Schema {
	return n.outputSchema
}

func (n *JoinNode) Children() []PlanNode {
	return []PlanNode{n.Left, n.Right}
}

func (n *JoinNode) String() string {
	return fmt.Sprintf("%sJoin(%s)", n.Mode, n.Predicate.String())
}

package planner

import (
	"github.com/steindb/stein/storage"
)

// PlanNode represents the static structure of a query plan. Nodes are
// immutable, own their children, and carry schema information. A tree is
// built once by the (external) planning stage and consumed by exactly one
// execution.
type PlanNode interface {
	// OutputSchema returns the schema of the rows produced by this node.
	OutputSchema() *storage.Schema

	// Children returns the child plan nodes.
	Children() []PlanNode

	// String returns a string representation of the plan node.
	String() string
}

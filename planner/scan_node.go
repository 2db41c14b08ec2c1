package planner

import (
	"fmt"

	"github.com/steindb/stein/storage"
)

// ScanNode reads a base table from the catalog. The schema is the table's
// schema re-qualified under the alias the plan refers to the table by, so
// "sells s" resolves column references of the form "s.price".
type ScanNode struct {
	Table string
	Alias string

	outputSchema *storage.Schema
}

func NewScanNode(table, alias string, tableSchema *storage.Schema) *ScanNode {
	schema := tableSchema
	if alias != "" {
		schema = tableSchema.WithQualifier(alias)
	}
	return &ScanNode{
		Table:        table,
		Alias:        alias,
		outputSchema: schema,
	}
}

func (n *ScanNode) OutputSchema() *storage.Schema {
	return n.outputSchema
}

func (n *ScanNode) Children() []PlanNode {
	return nil
}

func (n *ScanNode) String() string {
	if n.Alias == "" || n.Alias == n.Table {
		return fmt.Sprintf("Scan(%s)", n.Table)
	}
	return fmt.Sprintf("Scan(%s %s)", n.Table, n.Alias)
}

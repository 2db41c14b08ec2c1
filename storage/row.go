package storage

import (
	"fmt"
	"strings"

	"github.com/steindb/stein/common"
)

// Column describes one attribute of a schema. Table holds the qualifying
// alias ("b" in "b.name") and may be empty for computed columns.
type Column struct {
	Table string
	Name  string
	Type  common.Type
}

func (c Column) String() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

// Schema is an ordered sequence of named, optionally table-qualified
// columns. Schemas are immutable once built; operators derive new schemas
// (Concat, WithQualifier) rather than mutating existing ones.
type Schema struct {
	columns []Column
}

func NewSchema(columns ...Column) *Schema {
	return &Schema{columns: columns}
}

// NumColumns returns the number of columns in the schema.
func (s *Schema) NumColumns() int {
	return len(s.columns)
}

// Column returns the column at index i.
func (s *Schema) Column(i int) Column {
	return s.columns[i]
}

// Resolve finds the index of the column identified by an optional table
// qualifier and a name. Resolution is lazy by design: it happens when an
// expression is evaluated, not when the plan is built.
//
// An unqualified name that matches columns from more than one source is
// ambiguous; both the ambiguous and the not-found case surface as
// UnresolvedColumn, aborting the query.
func (s *Schema) Resolve(table, name string) (int, error) {
	found := -1
	for i, c := range s.columns {
		if c.Name != name {
			continue
		}
		if table != "" {
			if c.Table == table {
				return i, nil
			}
			continue
		}
		if found >= 0 {
			return 0, common.Errorf(common.UnresolvedColumn,
				"ambiguous column reference %q: matches %s and %s", name, s.columns[found], c)
		}
		found = i
	}
	if found < 0 {
		ref := name
		if table != "" {
			ref = table + "." + name
		}
		return 0, common.Errorf(common.UnresolvedColumn, "no column %q in schema %s", ref, s)
	}
	return found, nil
}

// Concat returns the schema of a joined row: all of s's columns followed by
// all of other's, qualifiers preserved.
func (s *Schema) Concat(other *Schema) *Schema {
	combined := make([]Column, 0, len(s.columns)+len(other.columns))
	combined = append(combined, s.columns...)
	combined = append(combined, other.columns...)
	return &Schema{columns: combined}
}

// WithQualifier returns a copy of the schema with every column re-qualified
// by the given table alias. Scans use this to stamp base-table rows with the
// alias the plan refers to them by.
func (s *Schema) WithQualifier(alias string) *Schema {
	columns := make([]Column, len(s.columns))
	for i, c := range s.columns {
		c.Table = alias
		columns[i] = c
	}
	return &Schema{columns: columns}
}

func (s *Schema) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, c := range s.columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", c.String(), c.Type)
	}
	b.WriteByte(')')
	return b.String()
}

// Row is an immutable tuple of Values described by a Schema. Operators
// construct new rows rather than mutating inputs; the values slice must not
// be written after a Row is built.
type Row struct {
	schema *Schema
	values []common.Value
}

func NewRow(schema *Schema, values []common.Value) Row {
	common.Assert(schema.NumColumns() == len(values),
		"row arity %d does not match schema %s", len(values), schema)
	return Row{schema: schema, values: values}
}

// NullRow builds a row whose every column is NULL of its declared type.
// This is the right-side padding emitted for unmatched left-outer rows.
func NullRow(schema *Schema) Row {
	values := make([]common.Value, schema.NumColumns())
	for i := range values {
		values[i] = common.NewNullValue(schema.Column(i).Type)
	}
	return Row{schema: schema, values: values}
}

// IsNil returns true for the zero Row.
func (r Row) IsNil() bool {
	return r.schema == nil
}

// Schema returns the row's schema.
func (r Row) Schema() *Schema {
	return r.schema
}

// Value returns the value at column index i.
func (r Row) Value(i int) common.Value {
	return r.values[i]
}

// Values returns the row's values. Callers must treat the slice as
// read-only.
func (r Row) Values() []common.Value {
	return r.values
}

// Concat builds the joined row r ++ other with the concatenated schema.
func (r Row) Concat(other Row) Row {
	values := make([]common.Value, 0, len(r.values)+len(other.values))
	values = append(values, r.values...)
	values = append(values, other.values...)
	return Row{schema: r.schema.Concat(other.schema), values: values}
}

// WithSchema rebinds the row's values to an equivalent schema, typically to
// re-qualify base-table columns under a scan alias.
func (r Row) WithSchema(schema *Schema) Row {
	common.Assert(schema.NumColumns() == len(r.values),
		"row arity %d does not match schema %s", len(r.values), schema)
	return Row{schema: schema, values: r.values}
}

func (r Row) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range r.values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteByte(')')
	return b.String()
}

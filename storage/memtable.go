package storage

import (
	"github.com/tidwall/btree"

	"github.com/steindb/stein/common"
)

type memRow struct {
	seq uint64
	row Row
}

// MemTable is the in-memory reference RowSource. Rows are kept in a btree
// keyed by insertion sequence, so scans replay insertion order and every
// Open is a cheap copy-on-write snapshot iterator, which suits the
// repeated right-side scans of a nested-loop join.
type MemTable struct {
	schema  *Schema
	tree    *btree.BTreeG[memRow]
	nextSeq uint64
}

func NewMemTable(schema *Schema) *MemTable {
	less := func(a, b memRow) bool {
		return a.seq < b.seq
	}
	return &MemTable{
		schema: schema,
		tree:   btree.NewBTreeG(less),
	}
}

// Schema returns the table's fixed schema.
func (t *MemTable) Schema() *Schema {
	return t.schema
}

// Len returns the number of stored rows.
func (t *MemTable) Len() int {
	return t.tree.Len()
}

// Insert appends one row. The value list must match the schema's arity, and
// each value must be of the declared column type (NULLs of the declared type
// are fine).
func (t *MemTable) Insert(values ...common.Value) error {
	if len(values) != t.schema.NumColumns() {
		return common.Errorf(common.TypeMismatch,
			"insert arity %d does not match schema %s", len(values), t.schema)
	}
	for i, v := range values {
		if v.Type() != t.schema.Column(i).Type {
			return common.Errorf(common.TypeMismatch,
				"column %s expects %s, got %s",
				t.schema.Column(i), t.schema.Column(i).Type, v.Type())
		}
	}
	stored := make([]common.Value, len(values))
	copy(stored, values)
	t.tree.Set(memRow{seq: t.nextSeq, row: NewRow(t.schema, stored)})
	t.nextSeq++
	return nil
}

// MustInsert is Insert for fixture code that treats a mismatch as a bug.
func (t *MemTable) MustInsert(values ...common.Value) {
	if err := t.Insert(values...); err != nil {
		panic(err)
	}
}

// Open acquires an independent snapshot cursor over the table.
func (t *MemTable) Open() (RowCursor, error) {
	// Copy-on-write snapshot: the cursor stays consistent even if the
	// table is appended to mid-scan.
	snapshot := t.tree.Copy()
	return &memTableCursor{iter: snapshot.Iter()}, nil
}

type memTableCursor struct {
	iter     btree.IterG[memRow]
	released bool
}

func (c *memTableCursor) Next() bool {
	if c.released {
		return false
	}
	return c.iter.Next()
}

func (c *memTableCursor) Current() Row {
	return c.iter.Item().row
}

func (c *memTableCursor) Error() error {
	return nil
}

func (c *memTableCursor) Close() error {
	if !c.released {
		c.iter.Release()
		c.released = true
	}
	return nil
}

// Package catalog maps table names to the row sources that back them.
//
// The catalog is an explicit object handed to the executor context at
// plan-execution start; there is no process-wide registry, so separate
// executions stay independent.
package catalog

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/steindb/stein/common"
	"github.com/steindb/stein/storage"
)

// Catalog is a concurrency-safe table registry. The engine itself is
// single-threaded per query, but one catalog is commonly shared by many
// independently executing queries, so registration and resolution must not
// race.
type Catalog struct {
	tables *xsync.MapOf[string, storage.RowSource]
}

func NewCatalog() *Catalog {
	return &Catalog{
		tables: xsync.NewMapOf[string, storage.RowSource](),
	}
}

// Register binds a table name to a row source. Registering a name twice is
// a DuplicateTable error; the catalog is append-only.
func (c *Catalog) Register(name string, source storage.RowSource) error {
	if _, loaded := c.tables.LoadOrStore(name, source); loaded {
		return common.Errorf(common.DuplicateTable, "table %q already registered", name)
	}
	return nil
}

// Resolve returns the row source backing the named table.
func (c *Catalog) Resolve(name string) (storage.RowSource, error) {
	source, ok := c.tables.Load(name)
	if !ok {
		return nil, common.Errorf(common.NoSuchTable, "no table %q in catalog", name)
	}
	return source, nil
}

// Tables returns the registered table names in lexical order.
func (c *Catalog) Tables() []string {
	var names []string
	c.tables.Range(func(name string, _ storage.RowSource) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

package engine

import (
	"context"
	"fmt"

	"github.com/zhangyunhao116/skipmap"

	"github.com/roach88/simpledb/internal/store"
)

type tableMap = skipmap.FuncMap[string, *store.Table]

// registry is the engine's catalogue of the tables present in storage.
//
// It is loaded from the store when the engine starts and kept in step by the
// engine's own writes, so table listings and existence checks never touch the
// database. This holds only while the engine is the store's sole writer.
// Names are case-sensitive and used verbatim.
//
// All methods are called with the engine mutex held.
type registry struct {
	store  *store.Store
	tables *tableMap
}

func loadRegistry(ctx context.Context, st *store.Store) (*registry, error) {
	names, err := st.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	r := &registry{
		store:  st,
		tables: newTableMap(),
	}
	for _, name := range names {
		r.tables.Store(name, st.Table(name))
	}
	return r, nil
}

func newTableMap() *tableMap {
	return skipmap.NewFunc[string, *store.Table](func(a, b string) bool {
		return a < b
	})
}

// lookup returns the handle of an existing table.
func (r *registry) lookup(name string) (*store.Table, bool) {
	return r.tables.Load(name)
}

// resolve returns the handle for name and whether the table already exists.
// A handle for a new table is not remembered until add is called.
func (r *registry) resolve(name string) (*store.Table, bool) {
	if t, ok := r.tables.Load(name); ok {
		return t, true
	}
	return r.store.Table(name), false
}

// add records a table that now exists in storage.
func (r *registry) add(t *store.Table) {
	r.tables.Store(t.Name(), t)
}

// drop removes the table's records from storage and forgets it.
// Dropping an unknown table is a no-op.
func (r *registry) drop(ctx context.Context, name string) error {
	t, ok := r.tables.Load(name)
	if !ok {
		return nil
	}
	if err := t.Drop(ctx); err != nil {
		return err
	}
	r.tables.Delete(name)
	return nil
}

// dropAll removes every table from storage and forgets them all.
func (r *registry) dropAll(ctx context.Context) error {
	if err := r.store.DropAll(ctx); err != nil {
		return err
	}
	r.tables = newTableMap()
	return nil
}

// names returns every known table in binary order.
func (r *registry) names() []string {
	names := make([]string, 0, r.tables.Len())
	r.tables.Range(func(name string, _ *store.Table) bool {
		names = append(names, name)
		return true
	})
	return names
}

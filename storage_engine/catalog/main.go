package catalog

import (
	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"

	"LeafDB/logger"
	"LeafDB/storage_engine/bufferpool"
	"LeafDB/storage_engine/table"
	"LeafDB/types"
)

func NewCatalog(pool *bufferpool.BufferPool, maxTables int64) (*Catalog, error) {
	if maxTables <= 0 {
		maxTables = DefaultMaxTables
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, *table.Table]{
		NumCounters:        maxTables * 10,
		MaxCost:            maxTables,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "NewCatalog: failed to create table cache")
	}
	return &Catalog{pool: pool, tables: cache}, nil
}

// Get returns the handle for a table, opening it from its meta page on a miss.
func (c *Catalog) Get(id types.PageID) (*table.Table, error) {
	if tbl, ok := c.tables.Get(uint64(id)); ok {
		return tbl, nil
	}

	tbl, err := table.Open(c.pool, id)
	if err != nil {
		return nil, err
	}
	c.loads++
	logger.Debugf("[Catalog] loaded table=%d numKeyElems=%d", id, tbl.NumKeyElems)

	c.Put(tbl)
	return tbl, nil
}

// Put registers a freshly created table.
func (c *Catalog) Put(tbl *table.Table) {
	c.tables.Set(uint64(tbl.MetaPageID), tbl, 1)
	c.tables.Wait()
}

// Loads counts the handles opened from disk so far.
func (c *Catalog) Loads() uint64 {
	return c.loads
}

func (c *Catalog) Close() {
	c.tables.Close()
}

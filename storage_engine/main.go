package storageengine

import (
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"LeafDB/config"
	"LeafDB/logger"
	"LeafDB/storage_engine/bufferpool"
	"LeafDB/storage_engine/catalog"
	diskmanager "LeafDB/storage_engine/disk_manager"
	"LeafDB/types"
)

/*
The main file of the storage engine. New wires the page store, the buffer
pool and the catalog together; every command goes through Execute or one
of the typed methods below.

	Execute(cmd)
	     ├── CreateTable → table.Create → bplus.Create (meta + empty root leaf)
	     ├── Insert      → catalog.Get → table.Insert → bplus.Insert
	     └── Query       → executor.Build → Collect
*/

// New opens the data file named by cfg (or an in-memory store when
// cfg.InMemory is set). The file is locked until Close.
func New(cfg *config.Cfg) (*StorageEngine, error) {
	if cfg == nil {
		cfg = config.NewCfg()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var pager diskmanager.Pager
	if cfg.InMemory {
		pager = diskmanager.NewMemoryDiskManager()
	} else {
		dm, err := diskmanager.Open(cfg.DataFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open data file")
		}
		pager = dm
	}

	bp, err := bufferpool.NewBufferPool(cfg.BufferPoolSize, pager)
	if err != nil {
		pager.Close()
		return nil, errors.Wrap(err, "failed to init buffer pool")
	}

	cat, err := catalog.NewCatalog(bp, catalog.DefaultMaxTables)
	if err != nil {
		pager.Close()
		return nil, errors.Wrap(err, "failed to init catalog")
	}

	logger.Infof("[StorageEngine] opened data_file=%q in_memory=%t pages=%d (%s) pool=%d",
		cfg.DataFile, cfg.InMemory, pager.NumPages(),
		humanize.IBytes(pager.NumPages()*types.PageSize), cfg.BufferPoolSize)

	return &StorageEngine{
		Cfg:         cfg,
		DiskManager: pager,
		BufferPool:  bp,
		Catalog:     cat,
	}, nil
}

// Execute runs one command and materialises its result.
func (se *StorageEngine) Execute(cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case CreateTable:
		id, err := se.CreateTable(c)
		if err != nil {
			return nil, err
		}
		return CreateTableResult{TablePageID: id}, nil
	case Insert:
		if err := se.Insert(c); err != nil {
			return nil, err
		}
		return InsertResult{}, nil
	case Query:
		rows, err := se.QueryAll(c)
		if err != nil {
			return nil, err
		}
		return QueryResult{Rows: rows}, nil
	default:
		return nil, errors.Errorf("unknown command %T", cmd)
	}
}

// Flush writes every dirty frame and syncs the data file.
func (se *StorageEngine) Flush() error {
	if err := se.BufferPool.FlushAllPages(); err != nil {
		return err
	}
	return se.DiskManager.Sync()
}

// Stats reports the buffer pool counters.
func (se *StorageEngine) Stats() bufferpool.BufferPoolStats {
	return se.BufferPool.GetStats()
}

// Close flushes the pool and closes the data file. Calling it twice is a no-op.
func (se *StorageEngine) Close() error {
	if se.closed {
		return nil
	}
	se.closed = true
	se.Catalog.Close()

	stats := se.BufferPool.GetStats()
	logger.Infof("[StorageEngine] closing: hits=%d misses=%d hit_rate=%.2f evictions=%d",
		stats.Hits, stats.Misses, stats.HitRate(), stats.Evictions)

	// BufferPool.Close flushes and closes the page store
	if err := se.BufferPool.Close(); err != nil {
		return errors.Wrap(err, "failed to close storage engine")
	}
	return nil
}

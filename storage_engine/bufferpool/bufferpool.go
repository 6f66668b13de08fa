package bufferpool

import (
	"github.com/pkg/errors"

	"LeafDB/logger"
	diskmanager "LeafDB/storage_engine/disk_manager"
	"LeafDB/storage_engine/page"
	"LeafDB/types"
)

/*
This file is the main file of the bufferpool.
The buffer pool works on LRU based caching and holds the disk manager for
flushing dirty frames to disk. If a page is not found in the cache, the disk
manager loads it and it is kept in the cache for future access.

Rules:
  - never more than capacity resident frames
  - a frame with PinCount > 0 is never evicted
  - at most one frame per page id
  - a fetch and the final unpin both count as a use for LRU
*/

// NewBufferPool creates a new buffer pool with the given capacity.
func NewBufferPool(capacity int, diskManager diskmanager.Pager) (*BufferPool, error) {
	if capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}
	return &BufferPool{
		pages:       make(map[types.PageID]*page.Page, capacity),
		capacity:    capacity,
		diskManager: diskManager,
		accessOrder: make([]types.PageID, 0, capacity),
	}, nil
}

// FetchPage returns the frame for pageID with its pin count incremented,
// loading it from disk if necessary. The caller must UnpinPage it.
func (bp *BufferPool) FetchPage(pageID types.PageID) (*page.Page, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if pg, exists := bp.pages[pageID]; exists {
		bp.hits++
		pg.PinCount++
		bp.updateAccessOrder(pageID)
		logger.Debugf("[BufferPool] HIT  pageID=%d pinCount=%d", pageID, pg.PinCount)
		return pg, nil
	}

	bp.misses++
	logger.Debugf("[BufferPool] MISS pageID=%d, loading from disk", pageID)

	pg, err := bp.acquireFrame(pageID)
	if err != nil {
		return nil, errors.Wrapf(err, "FetchPage: page %d", pageID)
	}

	if err := bp.diskManager.ReadPage(pageID, pg.Data); err != nil {
		return nil, errors.Wrapf(err, "FetchPage: failed to read page %d from disk", pageID)
	}

	pg.PinCount = 1
	bp.pages[pageID] = pg
	bp.updateAccessOrder(pageID)
	return pg, nil
}

// NewPage allocates the next page id from the disk manager and returns a
// zeroed, pinned and dirty frame for it.
func (bp *BufferPool) NewPage() (*page.Page, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	// Find a frame first so an exhausted pool does not leak a page on disk.
	pg, err := bp.acquireFrame(types.InvalidPageID)
	if err != nil {
		return nil, errors.Wrap(err, "NewPage")
	}

	pageID, err := bp.diskManager.AllocatePage()
	if err != nil {
		return nil, errors.Wrap(err, "NewPage: failed to allocate page")
	}

	pg.ID = pageID
	pg.IsDirty = true
	pg.PinCount = 1
	bp.pages[pageID] = pg
	bp.updateAccessOrder(pageID)

	logger.Debugf("[BufferPool] NEW  pageID=%d", pageID)
	return pg, nil
}

// UnpinPage decrements the pin count of a page and ORs in the dirty flag.
func (bp *BufferPool) UnpinPage(pageID types.PageID, isDirty bool) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	pg, exists := bp.pages[pageID]
	if !exists || pg.PinCount <= 0 {
		return errors.Wrapf(ErrPageNotPinned, "UnpinPage: page %d", pageID)
	}

	pg.PinCount--
	if isDirty {
		pg.IsDirty = true
	}
	if pg.PinCount == 0 {
		bp.updateAccessOrder(pageID)
	}
	return nil
}

// FlushPage writes a specific page to disk if dirty.
func (bp *BufferPool) FlushPage(pageID types.PageID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	pg, exists := bp.pages[pageID]
	if !exists {
		return errors.Wrapf(ErrPageNotResident, "FlushPage: page %d", pageID)
	}
	return bp.flush(pg)
}

// FlushAllPages writes all dirty pages to disk.
func (bp *BufferPool) FlushAllPages() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	logger.Debugf("[BufferPool] FlushAllPages pool size=%d", len(bp.pages))

	// accessOrder gives a deterministic write order
	for _, pageID := range bp.accessOrder {
		if err := bp.flush(bp.pages[pageID]); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes every dirty frame, then syncs and closes the disk manager.
func (bp *BufferPool) Close() error {
	if err := bp.FlushAllPages(); err != nil {
		return errors.Wrap(err, "Close: failed to flush pages")
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	if err := bp.diskManager.Sync(); err != nil {
		return errors.Wrap(err, "Close: failed to sync disk")
	}
	if err := bp.diskManager.Close(); err != nil {
		return errors.Wrap(err, "Close")
	}
	bp.pages = make(map[types.PageID]*page.Page)
	bp.accessOrder = bp.accessOrder[:0]
	return nil
}

// flush writes pg back if dirty. Assumes lock is already held.
func (bp *BufferPool) flush(pg *page.Page) error {
	if !pg.IsDirty {
		return nil
	}
	if err := bp.diskManager.WritePage(pg.ID, pg.Data); err != nil {
		return errors.Wrapf(err, "failed to flush page %d", pg.ID)
	}
	pg.IsDirty = false
	bp.flushes++
	logger.Debugf("[BufferPool] FLUSH pageID=%d", pg.ID)
	return nil
}

// acquireFrame returns a free, zeroed frame bound to pageID, evicting the
// LRU unpinned frame when the pool is full. The frame is not registered yet.
// Assumes lock is already held.
func (bp *BufferPool) acquireFrame(pageID types.PageID) (*page.Page, error) {
	if len(bp.pages) < bp.capacity {
		return page.New(pageID), nil
	}

	victim, err := bp.evictLRU()
	if err != nil {
		return nil, err
	}
	victim.Reset(pageID)
	return victim, nil
}

// evictLRU removes the least recently used unpinned frame, flushing it
// first if dirty, and hands it back for reuse.
// Assumes lock is already held.
func (bp *BufferPool) evictLRU() (*page.Page, error) {
	for i, pageID := range bp.accessOrder {
		pg := bp.pages[pageID]

		// Skip pinned pages
		if pg.PinCount > 0 {
			continue
		}

		logger.Debugf("[BufferPool] EVICT pageID=%d dirty=%v", pageID, pg.IsDirty)
		if err := bp.flush(pg); err != nil {
			return nil, errors.Wrapf(err, "failed to write page %d during eviction", pageID)
		}

		delete(bp.pages, pageID)
		bp.accessOrder = append(bp.accessOrder[:i], bp.accessOrder[i+1:]...)
		bp.evictions++
		return pg, nil
	}

	return nil, ErrBufferPoolExhausted
}

// updateAccessOrder moves a page to the end of access order (most recently used).
// Assumes lock is already held.
func (bp *BufferPool) updateAccessOrder(pageID types.PageID) {
	for i, id := range bp.accessOrder {
		if id == pageID {
			bp.accessOrder = append(bp.accessOrder[:i], bp.accessOrder[i+1:]...)
			break
		}
	}
	bp.accessOrder = append(bp.accessOrder, pageID)
}

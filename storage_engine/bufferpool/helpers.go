package bufferpool

import (
	"LeafDB/types"
)

/*
This file holds helper functions for the bufferpool
*/

// GetStats returns current buffer pool statistics
func (bp *BufferPool) GetStats() BufferPoolStats {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	stats := BufferPoolStats{
		TotalPages: len(bp.pages),
		Capacity:   bp.capacity,
		Hits:       bp.hits,
		Misses:     bp.misses,
		Evictions:  bp.evictions,
		Flushes:    bp.flushes,
	}

	for _, pg := range bp.pages {
		if pg.PinCount > 0 {
			stats.PinnedPages++
		}
		if pg.IsDirty {
			stats.DirtyPages++
		}
	}

	return stats
}

// Size returns the current number of pages in the buffer pool
func (bp *BufferPool) Size() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.pages)
}

// Capacity returns the maximum capacity of the buffer pool
func (bp *BufferPool) Capacity() int {
	return bp.capacity
}

// PinCount returns the pin count of a resident page, 0 if it is not resident.
func (bp *BufferPool) PinCount(pageID types.PageID) int32 {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if pg, ok := bp.pages[pageID]; ok {
		return pg.PinCount
	}
	return 0
}

// IsResident reports whether pageID currently occupies a frame.
func (bp *BufferPool) IsResident(pageID types.PageID) bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	_, ok := bp.pages[pageID]
	return ok
}

// NumPages is the number of pages allocated in the backing store.
func (bp *BufferPool) NumPages() uint64 {
	return bp.diskManager.NumPages()
}

package bufferpool

import (
	"sync"

	diskmanager "LeafDB/storage_engine/disk_manager"
	"LeafDB/storage_engine/page"
	"LeafDB/types"
)

// ############################################# BUFFER POOL #############################################

// BufferPool caches up to capacity pages in memory with LRU eviction.
// Every page of every tree goes through it: meta, leaf and branch pages alike.
type BufferPool struct {
	pages       map[types.PageID]*page.Page // pageID -> frame
	capacity    int
	diskManager diskmanager.Pager
	accessOrder []types.PageID // LRU tracking: most recently used at end

	hits      uint64
	misses    uint64
	evictions uint64
	flushes   uint64

	mu sync.Mutex
}

// BufferPoolStats is a point-in-time snapshot of the pool.
type BufferPoolStats struct {
	TotalPages  int // resident frames
	PinnedPages int
	DirtyPages  int
	Capacity    int
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Flushes     uint64
}

// HitRate is hits over all fetches, 0 before the first fetch.
func (s BufferPoolStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

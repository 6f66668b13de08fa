package diskmanager

import (
	"os"

	"LeafDB/types"
)

// Pager is block I/O over a flat array of fixed-size pages.
// Page ids are handed out append-only and never reused.
type Pager interface {
	AllocatePage() (types.PageID, error)
	ReadPage(id types.PageID, buf []byte) error
	WritePage(id types.PageID, data []byte) error
	NumPages() uint64
	Sync() error
	Close() error
}

// ############################################# DISK MANAGER #############################################

// DiskManager stores pages in one backing file, page i at offset i*PageSize.
type DiskManager struct {
	file       *os.File
	filePath   string
	nextPageID uint64 // derived from file size on open
}

// ######################################### MEMORY DISK MANAGER ##########################################

// MemoryDiskManager keeps pages in a map. Used by tests and in_memory databases.
type MemoryDiskManager struct {
	pages      map[types.PageID][]byte
	nextPageID uint64
	closed     bool
}

var (
	_ Pager = (*DiskManager)(nil)
	_ Pager = (*MemoryDiskManager)(nil)
)

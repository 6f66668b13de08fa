package catalog

import (
	"github.com/dgraph-io/ristretto/v2"

	"LeafDB/storage_engine/bufferpool"
	"LeafDB/storage_engine/table"
)

// Catalog caches open table handles keyed by meta page id.
//
// Only immutable facts live in a handle (meta page id, NumKeyElems), the
// root page id is still read from the meta page on every tree operation,
// so a cached handle never goes stale. A dropped or evicted entry just
// costs one more meta page read on the next Get.
type Catalog struct {
	pool   *bufferpool.BufferPool
	tables *ristretto.Cache[uint64, *table.Table]
	loads  uint64 // handles opened from disk
}

// DefaultMaxTables bounds how many handles stay cached.
const DefaultMaxTables = 1024

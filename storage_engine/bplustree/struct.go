// Structure of B+ Tree
/*
Tree
 ├── Meta page (root page id, owner payload, checksum)
 └── Root node
       ├── Branch nodes (separator keys + child page ids)
       │      └── ...
       └── Leaf nodes (keys + values + next pointer)

- keys: sorted ascending by bytes.Compare, unique
- branch nodes: children length == len(keys)+1
- leaf nodes: values length == len(keys)
- leaf nodes linked with `next` for range scans
- all leaf nodes at same depth
- the root page id lives only on the meta page and is read on every operation
*/
package bplus

import (
	"LeafDB/storage_engine/bufferpool"
	"LeafDB/types"
)

const (
	// nodeBodySize is what a node page has left after its header.
	nodeBodySize = types.PageSize - types.NodeHeaderSize

	// MaxEntrySize caps one cell plus its slot at a quarter of the node body,
	// so a split of an overflowing node always yields two non-empty halves
	// that each fit in a page.
	MaxEntrySize = nodeBodySize / 4

	// MaxKeySize leaves room for the key in a branch cell (keyLen + key + child id).
	MaxKeySize = MaxEntrySize - types.SlotSize - cellKeyLenSize - childIDSize
)

// Node is the decoded form of a leaf or branch page.
type Node struct {
	pageID   types.PageID
	nodeType types.PageType
	keys     [][]byte       // sorted keys
	values   [][]byte       // leaf only
	children []types.PageID // branch only, last one is stored in the link field
	next     types.PageID   // leaf only
}

type BPlusTree struct {
	metaPageID types.PageID
	pool       *bufferpool.BufferPool
	cmp        func(a, b []byte) int // key comparator (bytes.Compare)
}

// TreeStats summarises the shape of a tree.
type TreeStats struct {
	Height   int // 1 for a lone root leaf
	Leaves   int
	Branches int
	Pairs    int
}

package types

import (
	"fmt"
	"math"
)

const (
	PageSize = 4096 // 4KB page

	NodeHeaderSize = 16 // type(1) reserved(1) slots(2) freeOffset(2) reserved(2) link(8)
	SlotSize       = 4  // 4 bytes per slot entry (offset: 2B, length: 2B)
)

// PageID identifies a page by its position in the backing store.
// Ids are handed out append-only and never reused.
type PageID uint64

// InvalidPageID marks a missing link (end of the leaf chain, unset root).
const InvalidPageID PageID = math.MaxUint64

func (id PageID) Valid() bool {
	return id != InvalidPageID
}

func (id PageID) String() string {
	if !id.Valid() {
		return "invalid"
	}
	return fmt.Sprintf("%d", uint64(id))
}

type PageType uint8

const (
	PageTypeUnknown PageType = iota
	PageTypeMeta
	PageTypeLeaf
	PageTypeBranch
)

func (t PageType) String() string {
	switch t {
	case PageTypeMeta:
		return "meta"
	case PageTypeLeaf:
		return "leaf"
	case PageTypeBranch:
		return "branch"
	default:
		return "unknown"
	}
}

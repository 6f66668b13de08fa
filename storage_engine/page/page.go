package page

import (
	"LeafDB/types"
)

const PageSize = types.PageSize

/*
Page is one buffer pool frame.

The buffer pool is the only owner of frames: it hands them out pinned and
takes them back on unpin. What lives inside Data (node, meta) is decided by
the layer above, the first byte always carries the types.PageType stamp.

A frame is only meaningful while its PinCount is above zero. After the last
unpin the bytes may be written back and reused for a different page at any
time, so callers never keep Data slices across an unpin.
*/
type Page struct {
	ID       types.PageID
	Data     []byte
	IsDirty  bool
	PinCount int32
}

func New(id types.PageID) *Page {
	return &Page{
		ID:   id,
		Data: make([]byte, PageSize),
	}
}

// Type reads the page type stamp from the first byte.
func (p *Page) Type() types.PageType {
	return types.PageType(p.Data[0])
}

// Reset zeroes the frame and rebinds it to id.
func (p *Page) Reset(id types.PageID) {
	p.ID = id
	clear(p.Data)
	p.IsDirty = false
	p.PinCount = 0
}

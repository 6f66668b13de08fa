package bufferpool

import (
	"LeafDB/logger"
	"LeafDB/storage_engine/page"
	"LeafDB/types"
)

// PageGuard is a pinned frame that unpins itself exactly once.
//
//	g, err := bp.Fetch(id)
//	if err != nil {
//		return err
//	}
//	defer g.Release()
type PageGuard struct {
	pool     *BufferPool
	page     *page.Page
	dirty    bool
	released bool
}

// Fetch is FetchPage wrapped in a guard.
func (bp *BufferPool) Fetch(pageID types.PageID) (*PageGuard, error) {
	pg, err := bp.FetchPage(pageID)
	if err != nil {
		return nil, err
	}
	return &PageGuard{pool: bp, page: pg}, nil
}

// New is NewPage wrapped in a guard. The page is already dirty.
func (bp *BufferPool) New() (*PageGuard, error) {
	pg, err := bp.NewPage()
	if err != nil {
		return nil, err
	}
	return &PageGuard{pool: bp, page: pg, dirty: true}, nil
}

func (g *PageGuard) ID() types.PageID {
	return g.page.ID
}

// Data is the frame's bytes, valid until Release.
func (g *PageGuard) Data() []byte {
	return g.page.Data
}

func (g *PageGuard) MarkDirty() {
	g.dirty = true
}

// Release unpins the page. Calling it again is a no-op.
func (g *PageGuard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	if err := g.pool.UnpinPage(g.page.ID, g.dirty); err != nil {
		logger.Errorf("[BufferPool] release pageID=%d: %v", g.page.ID, err)
	}
}

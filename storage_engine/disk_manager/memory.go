package diskmanager

import (
	"github.com/pkg/errors"

	"LeafDB/types"
)

func NewMemoryDiskManager() *MemoryDiskManager {
	return &MemoryDiskManager{
		pages: make(map[types.PageID][]byte),
	}
}

func (m *MemoryDiskManager) AllocatePage() (types.PageID, error) {
	if m.closed {
		return types.InvalidPageID, ErrClosed
	}
	id := types.PageID(m.nextPageID)
	m.nextPageID++
	m.pages[id] = make([]byte, types.PageSize)
	return id, nil
}

// ReadPage copies the stored page so the caller cannot modify internal
// state without calling WritePage.
func (m *MemoryDiskManager) ReadPage(id types.PageID, buf []byte) error {
	if m.closed {
		return ErrClosed
	}
	if len(buf) != types.PageSize {
		return errors.Wrapf(ErrBadPageSize, "ReadPage: got %d bytes", len(buf))
	}
	data, ok := m.pages[id]
	if !ok {
		return errors.Wrapf(ErrPageOutOfRange, "ReadPage: page %d, %d pages allocated", uint64(id), m.nextPageID)
	}
	copy(buf, data)
	return nil
}

func (m *MemoryDiskManager) WritePage(id types.PageID, data []byte) error {
	if m.closed {
		return ErrClosed
	}
	if len(data) != types.PageSize {
		return errors.Wrapf(ErrBadPageSize, "WritePage: got %d bytes", len(data))
	}
	dest, ok := m.pages[id]
	if !ok {
		return errors.Wrapf(ErrPageOutOfRange, "WritePage: page %d, %d pages allocated", uint64(id), m.nextPageID)
	}
	copy(dest, data)
	return nil
}

func (m *MemoryDiskManager) NumPages() uint64 {
	return m.nextPageID
}

func (m *MemoryDiskManager) Sync() error {
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *MemoryDiskManager) Close() error {
	m.closed = true
	return nil
}

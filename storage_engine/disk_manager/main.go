package diskmanager

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"LeafDB/logger"
	"LeafDB/types"
)

/*
This is the main file for the disk manager.
It owns the file descriptor of the data file and the raw byte I/O at page
offsets (ReadAt, WriteAt). It knows nothing about what is inside a page.

	page id i  <->  bytes [i*PageSize, (i+1)*PageSize) of the file

The next page id is derived from the file size when the file is opened, so
nothing has to be persisted to remember it. AllocatePage grows the file by
one page right away, which keeps that derivation valid even if the process
dies before the buffer pool flushes the new page.

Bufferpool on page hits returns cached frames, on a miss it is the disk
manager that reads the bytes in (and writes them back on eviction).
*/

// Open creates or opens the data file at path and takes an exclusive lock on it.
// A second Open of the same file fails with ErrLocked until the first is closed.
func Open(path string) (*DiskManager, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, newIOError("open", types.InvalidPageID, err)
		}
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, newIOError("open", types.InvalidPageID, err)
	}

	if err := lockFile(file); err != nil {
		file.Close()
		if errors.Is(err, ErrLocked) {
			return nil, errors.Wrapf(ErrLocked, "Open: %s", path)
		}
		return nil, newIOError("lock", types.InvalidPageID, err)
	}

	stat, err := file.Stat()
	if err != nil {
		unlockFile(file)
		file.Close()
		return nil, newIOError("stat", types.InvalidPageID, err)
	}

	// A torn trailing page is ignored, it will be reallocated and overwritten.
	numPages := uint64(stat.Size()) / types.PageSize

	logger.Debugf("[DiskManager] open path=%s pages=%d", path, numPages)

	return &DiskManager{
		file:       file,
		filePath:   path,
		nextPageID: numPages,
	}, nil
}

// AllocatePage reserves the next page id and extends the file to cover it.
// The new page reads as zeros until it is written.
func (dm *DiskManager) AllocatePage() (types.PageID, error) {
	if dm.file == nil {
		return types.InvalidPageID, ErrClosed
	}

	id := types.PageID(dm.nextPageID)
	newSize := int64(dm.nextPageID+1) * types.PageSize
	if err := dm.file.Truncate(newSize); err != nil {
		return types.InvalidPageID, newIOError("allocate", id, err)
	}
	dm.nextPageID++

	logger.Debugf("[DiskManager] ALLOC pageID=%d", id)
	return id, nil
}

// ReadPage fills buf with page id. Short reads are padded with zeros.
func (dm *DiskManager) ReadPage(id types.PageID, buf []byte) error {
	if dm.file == nil {
		return ErrClosed
	}
	if len(buf) != types.PageSize {
		return errors.Wrapf(ErrBadPageSize, "ReadPage: got %d bytes", len(buf))
	}
	if uint64(id) >= dm.nextPageID {
		return errors.Wrapf(ErrPageOutOfRange, "ReadPage: page %d, %d pages allocated", uint64(id), dm.nextPageID)
	}

	offset := int64(id) * types.PageSize
	n, err := dm.file.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return newIOError("read", id, err)
	}

	// Pad with zeros if partial read
	if n < types.PageSize {
		clear(buf[n:])
	}
	return nil
}

// WritePage writes exactly one page at id.
func (dm *DiskManager) WritePage(id types.PageID, data []byte) error {
	if dm.file == nil {
		return ErrClosed
	}
	if len(data) != types.PageSize {
		return errors.Wrapf(ErrBadPageSize, "WritePage: got %d bytes", len(data))
	}
	if uint64(id) >= dm.nextPageID {
		return errors.Wrapf(ErrPageOutOfRange, "WritePage: page %d, %d pages allocated", uint64(id), dm.nextPageID)
	}

	offset := int64(id) * types.PageSize
	if _, err := dm.file.WriteAt(data, offset); err != nil {
		return newIOError("write", id, err)
	}
	return nil
}

func (dm *DiskManager) NumPages() uint64 {
	return dm.nextPageID
}

// Sync flushes the file buffers to stable storage.
func (dm *DiskManager) Sync() error {
	if dm.file == nil {
		return ErrClosed
	}
	if err := dm.file.Sync(); err != nil {
		return newIOError("sync", types.InvalidPageID, err)
	}
	return nil
}

// Close syncs, releases the lock and closes the file. Closing twice is a no-op.
func (dm *DiskManager) Close() error {
	if dm.file == nil {
		return nil
	}

	syncErr := dm.file.Sync()
	_ = unlockFile(dm.file)
	closeErr := dm.file.Close()
	dm.file = nil

	logger.Debugf("[DiskManager] closed path=%s pages=%d", dm.filePath, dm.nextPageID)

	if syncErr != nil {
		return newIOError("sync", types.InvalidPageID, syncErr)
	}
	if closeErr != nil {
		return newIOError("close", types.InvalidPageID, closeErr)
	}
	return nil
}

// Path returns the backing file path.
func (dm *DiskManager) Path() string {
	return dm.filePath
}

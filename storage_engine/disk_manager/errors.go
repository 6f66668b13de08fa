package diskmanager

import (
	"fmt"

	"github.com/pkg/errors"

	"LeafDB/types"
)

var (
	// ErrIO matches every *IOError.
	ErrIO = errors.New("page store I/O error")

	ErrPageOutOfRange = errors.New("page id beyond allocated range")
	ErrLocked         = errors.New("data file is locked by another process")
	ErrClosed         = errors.New("page store is closed")
	ErrBadPageSize    = errors.New("buffer length does not match page size")
)

// IOError records the failed operation and the page it touched.
type IOError struct {
	Op     string
	PageID types.PageID
	Err    error
}

func (e *IOError) Error() string {
	if e.PageID.Valid() {
		return fmt.Sprintf("%s page %d: %v", e.Op, uint64(e.PageID), e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func newIOError(op string, id types.PageID, err error) error {
	return &IOError{Op: op, PageID: id, Err: errors.WithStack(err)}
}

// IsIOError reports whether err came from the backing store.
func IsIOError(err error) bool {
	return errors.Is(err, ErrIO)
}

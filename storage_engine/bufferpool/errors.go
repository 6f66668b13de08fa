package bufferpool

import (
	"github.com/pkg/errors"
)

var (
	// ErrBufferPoolExhausted is returned when a frame is needed and every resident frame is pinned.
	ErrBufferPoolExhausted = errors.New("all pages are pinned, cannot evict")
	ErrPageNotPinned       = errors.New("page is not pinned")
	ErrPageNotResident     = errors.New("page is not in buffer pool")
	ErrInvalidCapacity     = errors.New("buffer pool capacity must be at least 1")
)

func IsExhausted(err error) bool {
	return errors.Is(err, ErrBufferPoolExhausted)
}

func IsNotPinned(err error) bool {
	return errors.Is(err, ErrPageNotPinned)
}

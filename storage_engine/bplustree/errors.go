package bplus

import "github.com/pkg/errors"

var (
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrKeyTooLarge     = errors.New("key too large")
	ErrPairTooLarge    = errors.New("key/value pair too large")
	ErrCorruptMeta     = errors.New("corrupt meta page")
	ErrCorruptNode     = errors.New("corrupt node page")
	ErrPayloadTooLarge = errors.New("meta payload too large")
)

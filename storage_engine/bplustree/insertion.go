package bplus

import (
	"github.com/pkg/errors"
)

// Insert adds a new key/value pair. An existing key fails with
// ErrDuplicateKey and leaves the tree unchanged.
func (t *BPlusTree) Insert(key []byte, value []byte) error {
	if len(key) > MaxKeySize {
		return errors.Wrapf(ErrKeyTooLarge, "Insert: %d bytes, max %d", len(key), MaxKeySize)
	}
	if entrySize(len(key), len(value)) > MaxEntrySize {
		return errors.Wrapf(ErrPairTooLarge, "Insert: %d+%d bytes, max entry %d", len(key), len(value), MaxEntrySize)
	}

	leafID, path, err := t.findLeaf(key)
	if err != nil {
		return errors.Wrap(err, "Insert: failed to find leaf")
	}

	leaf, err := t.pool.Fetch(leafID)
	if err != nil {
		return errors.Wrap(err, "Insert")
	}
	defer leaf.Release()

	data := leaf.Data()
	if binarySearch(data, key, t.cmp) != -1 {
		return errors.Wrapf(ErrDuplicateKey, "Insert: key %x", key)
	}

	// Insert key/value in sorted position.
	pos := lowerBound(data, key, t.cmp)
	if insertCell(data, pos, key, value) {
		leaf.MarkDirty()
		return nil
	}

	// Split if overflow.
	sepKey, rightID, err := t.splitLeaf(leaf, pos, key, value)
	if err != nil {
		return err
	}
	leaf.Release()

	return t.insertIntoParent(path, leafID, sepKey, rightID)
}

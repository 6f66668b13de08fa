package bplus

import (
	"github.com/pkg/errors"

	"LeafDB/types"
)

// Iterator provides a forward-only range scan over the leaves.
//
// Between pulls it remembers only the current leaf id and the last key it
// returned, no page stays pinned. Each Next re-fetches the leaf and resumes
// at the first key greater than the last one, following next links, so
// inserts and splits between pulls do not invalidate it. It is not a
// snapshot: pairs inserted ahead of the cursor are seen.
type Iterator struct {
	tree    *BPlusTree
	leafID  types.PageID
	seek    []byte // first pull starts at the first key >= seek, nil for the leaf start
	lastKey []byte
	started bool
	done    bool
}

// Scan returns an iterator over every pair in ascending key order.
func (t *BPlusTree) Scan() (*Iterator, error) {
	leafID, err := t.leftmostLeaf()
	if err != nil {
		return nil, errors.Wrap(err, "Scan")
	}
	return &Iterator{tree: t, leafID: leafID}, nil
}

// SeekGE positions the iterator at the first key >= target.
func (t *BPlusTree) SeekGE(target []byte) (*Iterator, error) {
	leafID, _, err := t.findLeaf(target)
	if err != nil {
		return nil, errors.Wrap(err, "SeekGE")
	}
	return &Iterator{tree: t, leafID: leafID, seek: clone(target)}, nil
}

// Next returns the next pair, ok is false once the iterator is exhausted.
// Returned slices are copies owned by the caller.
func (it *Iterator) Next() (key, value []byte, ok bool, err error) {
	if it.done {
		return nil, nil, false, nil
	}

	for it.leafID.Valid() {
		g, err := it.tree.pool.Fetch(it.leafID)
		if err != nil {
			it.done = true
			return nil, nil, false, errors.Wrapf(err, "Iterator.Next: leaf %d", it.leafID)
		}

		data := g.Data()
		var idx int
		switch {
		case it.started:
			idx = upperBound(data, it.lastKey, it.tree.cmp)
		case it.seek != nil:
			idx = lowerBound(data, it.seek, it.tree.cmp)
		default:
			idx = 0
		}

		if idx < numSlots(data) {
			key = clone(cellKey(data, idx))
			value = clone(cellValue(data, idx))
			g.Release()
			it.lastKey = key
			it.started = true
			return key, value, true, nil
		}

		next := link(data)
		g.Release()
		it.leafID = next
	}

	it.done = true
	return nil, nil, false, nil
}

// Close marks the iterator exhausted. It holds no pins, so this never fails.
func (it *Iterator) Close() {
	it.done = true
	it.lastKey = nil
}

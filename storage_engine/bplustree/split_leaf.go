package bplus

import (
	"github.com/pkg/errors"

	"LeafDB/logger"
	"LeafDB/storage_engine/bufferpool"
	"LeafDB/types"
)

// splitLeaf inserts key/value at pos into an overflowing leaf and moves
// the upper half (by bytes) to a new right sibling. It returns the first
// key of the right sibling, which becomes the separator in the parent.
func (t *BPlusTree) splitLeaf(leaf *bufferpool.PageGuard, pos int, key, value []byte) ([]byte, types.PageID, error) {
	node, err := decodeNode(leaf.ID(), leaf.Data())
	if err != nil {
		return nil, types.InvalidPageID, errors.Wrap(err, "splitLeaf")
	}
	node.keys = insert(node.keys, pos, clone(key))
	node.values = insert(node.values, pos, clone(value))

	mid := leafSplitPoint(node.entrySizes())

	rightPage, err := t.pool.New()
	if err != nil {
		return nil, types.InvalidPageID, errors.Wrap(err, "splitLeaf: failed to allocate right sibling")
	}
	defer rightPage.Release()

	right := &Node{
		pageID:   rightPage.ID(),
		nodeType: types.PageTypeLeaf,
		keys:     node.keys[mid:],
		values:   node.values[mid:],
		next:     node.next, // right inherits leaf's old next pointer
	}

	node.keys = node.keys[:mid]
	node.values = node.values[:mid]
	node.next = right.pageID

	if err := encodeNode(right, rightPage.Data()); err != nil {
		return nil, types.InvalidPageID, err
	}
	if err := encodeNode(node, leaf.Data()); err != nil {
		return nil, types.InvalidPageID, err
	}
	leaf.MarkDirty()

	logger.Debugf("[BTree] split leaf %d -> %d (%d|%d keys)", node.pageID, right.pageID, len(node.keys), len(right.keys))
	return right.keys[0], right.pageID, nil
}

// leafSplitPoint returns mid so that entries [0:mid] stay and [mid:] move.
// mid is the first point where the left side holds at least half the bytes.
func leafSplitPoint(sizes []int) int {
	total := 0
	for _, s := range sizes {
		total += s
	}

	mid := len(sizes) - 1
	acc := 0
	for i, s := range sizes {
		acc += s
		if 2*acc >= total {
			mid = i + 1
			break
		}
	}
	return max(1, min(mid, len(sizes)-1))
}

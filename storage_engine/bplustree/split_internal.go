package bplus

import (
	"github.com/pkg/errors"

	"LeafDB/logger"
	"LeafDB/storage_engine/bufferpool"
	"LeafDB/types"
)

// splitInternal splits an overflowing branch (already decoded and edited
// in node) and promotes the middle separator. The promoted key moves up,
// it is not kept in either half.
func (t *BPlusTree) splitInternal(g *bufferpool.PageGuard, node *Node) ([]byte, types.PageID, error) {
	mid := branchSplitPoint(node.entrySizes())
	promoteKey := node.keys[mid]

	rightPage, err := t.pool.New()
	if err != nil {
		return nil, types.InvalidPageID, errors.Wrap(err, "splitInternal: failed to allocate right sibling")
	}
	defer rightPage.Release()

	right := &Node{
		pageID:   rightPage.ID(),
		nodeType: types.PageTypeBranch,
		keys:     node.keys[mid+1:],
		children: node.children[mid+1:],
	}

	// Shrink left.
	node.keys = node.keys[:mid]
	node.children = node.children[:mid+1]

	if err := encodeNode(right, rightPage.Data()); err != nil {
		return nil, types.InvalidPageID, err
	}
	if err := encodeNode(node, g.Data()); err != nil {
		return nil, types.InvalidPageID, err
	}
	g.MarkDirty()

	logger.Debugf("[BTree] split branch %d -> %d (%d|%d keys)", node.pageID, right.pageID, len(node.keys), len(right.keys))
	return promoteKey, right.pageID, nil
}

// branchSplitPoint returns the index of the separator to promote: the
// first one at which the left side reaches half the bytes. Both sides keep
// at least one separator.
func branchSplitPoint(sizes []int) int {
	total := 0
	for _, s := range sizes {
		total += s
	}

	mid := len(sizes) / 2
	acc := 0
	for i, s := range sizes {
		acc += s
		if 2*acc >= total {
			mid = i
			break
		}
	}
	return max(1, min(mid, len(sizes)-2))
}

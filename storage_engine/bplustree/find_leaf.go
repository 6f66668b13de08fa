package bplus

import (
	"github.com/pkg/errors"

	"LeafDB/types"
)

// maxHeight bounds descents so a corrupt cycle of child links cannot loop forever.
const maxHeight = 64

// findLeaf descends from the root to the leaf that owns key. path holds the
// branch page ids visited, root first. Nothing stays pinned on return.
func (t *BPlusTree) findLeaf(key []byte) (types.PageID, []types.PageID, error) {
	return t.descend(func(data []byte) types.PageID {
		return childFor(data, key, t.cmp)
	})
}

// leftmostLeaf always descends into child 0.
func (t *BPlusTree) leftmostLeaf() (types.PageID, error) {
	leaf, _, err := t.descend(func(data []byte) types.PageID {
		if numSlots(data) == 0 {
			return link(data)
		}
		return cellChild(data, 0)
	})
	return leaf, err
}

func (t *BPlusTree) descend(pick func(data []byte) types.PageID) (types.PageID, []types.PageID, error) {
	nodeID, err := t.rootID()
	if err != nil {
		return types.InvalidPageID, nil, err
	}

	var path []types.PageID
	for depth := 0; depth < maxHeight; depth++ {
		if !nodeID.Valid() {
			return types.InvalidPageID, nil, errors.Wrapf(ErrCorruptNode, "findLeaf: invalid child link under %v", path)
		}
		g, err := t.pool.Fetch(nodeID)
		if err != nil {
			return types.InvalidPageID, nil, errors.Wrapf(err, "findLeaf: failed to fetch node %d", nodeID)
		}

		data := g.Data()
		nt := nodeType(data)
		switch nt {
		case types.PageTypeLeaf:
			g.Release()
			return nodeID, path, nil
		case types.PageTypeBranch:
			next := pick(data)
			g.Release()
			path = append(path, nodeID)
			nodeID = next
		default:
			g.Release()
			return types.InvalidPageID, nil, errors.Wrapf(ErrCorruptNode, "findLeaf: page %d has type %s", nodeID, nt)
		}
	}
	return types.InvalidPageID, nil, errors.Wrapf(ErrCorruptNode, "findLeaf: deeper than %d levels", maxHeight)
}

package bplus

import (
	"github.com/pkg/errors"

	"LeafDB/types"
)

// insertIntoParent inserts sepKey and rightID into the parent of leftID.
// path is the chain of branch ids from the root down to that parent.
// If the parent overflows, it splits and propagates upward.
func (t *BPlusTree) insertIntoParent(path []types.PageID, leftID types.PageID, sepKey []byte, rightID types.PageID) error {
	if len(path) == 0 {
		return t.createNewRoot(leftID, sepKey, rightID)
	}
	parentID := path[len(path)-1]

	parent, err := t.pool.Fetch(parentID)
	if err != nil {
		return errors.Wrapf(err, "insertIntoParent: failed to fetch parent %d", parentID)
	}
	defer parent.Release()

	node, err := decodeNode(parentID, parent.Data())
	if err != nil {
		return errors.Wrap(err, "insertIntoParent")
	}

	// Find leftID in parent's children.
	idx := 0
	for idx < len(node.children) && node.children[idx] != leftID {
		idx++
	}
	if idx == len(node.children) {
		return errors.Wrapf(ErrCorruptNode, "insertIntoParent: page %d is not a child of %d", leftID, parentID)
	}

	// Insert sepKey at idx, rightID at idx+1.
	node.keys = insert(node.keys, idx, sepKey)
	node.children = insert(node.children, idx+1, rightID)

	if node.fits() {
		if err := encodeNode(node, parent.Data()); err != nil {
			return err
		}
		parent.MarkDirty()
		return nil
	}

	// Split parent if overflow.
	promoteKey, newRightID, err := t.splitInternal(parent, node)
	if err != nil {
		return err
	}
	parent.Release()

	return t.insertIntoParent(path[:len(path)-1], parentID, promoteKey, newRightID)
}

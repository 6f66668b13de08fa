package bplus

import (
	"github.com/pkg/errors"

	"LeafDB/logger"
	"LeafDB/types"
)

// createNewRoot creates a new root branch with leftPageID and rightPageID
// as its two children, separated by promoteKey, and points the meta page at it.
func (t *BPlusTree) createNewRoot(leftPageID types.PageID, promoteKey []byte, rightPageID types.PageID) error {
	g, err := t.pool.New()
	if err != nil {
		return errors.Wrap(err, "createNewRoot: failed to allocate new root")
	}

	root := &Node{
		pageID:   g.ID(),
		nodeType: types.PageTypeBranch,
		keys:     [][]byte{promoteKey},
		children: []types.PageID{leftPageID, rightPageID},
	}
	err = encodeNode(root, g.Data())
	g.Release()
	if err != nil {
		return err
	}

	logger.Debugf("[BTree] new root %d children=[%d %d]", root.pageID, leftPageID, rightPageID)
	return t.saveRoot(root.pageID)
}

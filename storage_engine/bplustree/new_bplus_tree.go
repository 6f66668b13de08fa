package bplus

import (
	"bytes"

	"github.com/pkg/errors"

	"LeafDB/logger"
	"LeafDB/storage_engine/bufferpool"
	"LeafDB/types"
)

// Create allocates a meta page and an empty root leaf and returns the new
// tree. The meta page id identifies the tree from then on. payload is
// opaque owner data kept on the meta page (at most MaxPayloadSize bytes).
func Create(pool *bufferpool.BufferPool, payload []byte) (*BPlusTree, error) {
	if len(payload) > MaxPayloadSize {
		return nil, errors.Wrapf(ErrPayloadTooLarge, "Create: %d bytes", len(payload))
	}

	meta, err := pool.New()
	if err != nil {
		return nil, errors.Wrap(err, "Create: failed to allocate meta page")
	}
	defer meta.Release()

	root, err := pool.New()
	if err != nil {
		return nil, errors.Wrap(err, "Create: failed to allocate root")
	}
	defer root.Release()

	initNode(root.Data(), types.PageTypeLeaf)
	if err := writeMeta(meta.Data(), root.ID(), payload); err != nil {
		return nil, errors.Wrap(err, "Create")
	}

	logger.Debugf("[BTree] new tree meta=%d root=%d", meta.ID(), root.ID())

	return &BPlusTree{
		metaPageID: meta.ID(),
		pool:       pool,
		cmp:        bytes.Compare,
	}, nil
}

// Open attaches to an existing tree by its meta page id.
func Open(pool *bufferpool.BufferPool, metaPageID types.PageID) (*BPlusTree, error) {
	t := &BPlusTree{
		metaPageID: metaPageID,
		pool:       pool,
		cmp:        bytes.Compare,
	}
	root, err := t.rootID()
	if err != nil {
		return nil, errors.Wrap(err, "Open")
	}
	logger.Debugf("[BTree] loaded tree meta=%d root=%d", metaPageID, root)
	return t, nil
}

func (t *BPlusTree) MetaPageID() types.PageID {
	return t.metaPageID
}

// MetaPayload returns a copy of the owner payload stored on the meta page.
func (t *BPlusTree) MetaPayload() ([]byte, error) {
	g, err := t.pool.Fetch(t.metaPageID)
	if err != nil {
		return nil, errors.Wrap(err, "MetaPayload")
	}
	defer g.Release()

	_, payload, err := readMeta(t.metaPageID, g.Data())
	if err != nil {
		return nil, err
	}
	return clone(payload), nil
}

// rootID reads the current root from the meta page.
func (t *BPlusTree) rootID() (types.PageID, error) {
	g, err := t.pool.Fetch(t.metaPageID)
	if err != nil {
		return types.InvalidPageID, errors.Wrapf(err, "rootID: failed to fetch meta page %d", t.metaPageID)
	}
	defer g.Release()

	root, _, err := readMeta(t.metaPageID, g.Data())
	return root, err
}

// saveRoot persists a new root page id to the meta page.
// Called after every operation that changes the root.
func (t *BPlusTree) saveRoot(root types.PageID) error {
	g, err := t.pool.Fetch(t.metaPageID)
	if err != nil {
		return errors.Wrap(err, "saveRoot: failed to fetch meta page")
	}
	defer g.Release()

	if _, _, err := readMeta(t.metaPageID, g.Data()); err != nil {
		return err
	}
	setMetaRoot(g.Data(), root)
	g.MarkDirty()
	return nil
}

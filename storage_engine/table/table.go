package table

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"LeafDB/logger"
	bplus "LeafDB/storage_engine/bplustree"
	"LeafDB/storage_engine/bufferpool"
	"LeafDB/storage_engine/tuple"
	"LeafDB/types"
)

/*
A table is one B+ tree. A row is split at NumKeyElems:

	key   = tuple.Encode(row[:NumKeyElems])
	value = tuple.Encode(row[NumKeyElems:])

The tree's meta page payload holds NumKeyElems as a little-endian uint32,
so the meta page id alone is enough to reopen the table.
*/

var ErrSchemaMismatch = errors.New("schema mismatch")

const payloadSize = 4

type Table struct {
	MetaPageID  types.PageID
	NumKeyElems int
	tree        *bplus.BPlusTree
}

// Create allocates a new empty table.
func Create(pool *bufferpool.BufferPool, numKeyElems int) (*Table, error) {
	if numKeyElems < 0 {
		return nil, errors.Wrapf(ErrSchemaMismatch, "Create: num_key_elems %d", numKeyElems)
	}

	payload := make([]byte, payloadSize)
	binary.LittleEndian.PutUint32(payload, uint32(numKeyElems))

	tree, err := bplus.Create(pool, payload)
	if err != nil {
		return nil, errors.Wrap(err, "table.Create")
	}

	logger.Debugf("[Table] created table=%d numKeyElems=%d", tree.MetaPageID(), numKeyElems)
	return &Table{
		MetaPageID:  tree.MetaPageID(),
		NumKeyElems: numKeyElems,
		tree:        tree,
	}, nil
}

// Open reads the table definition back from its meta page.
func Open(pool *bufferpool.BufferPool, metaPageID types.PageID) (*Table, error) {
	tree, err := bplus.Open(pool, metaPageID)
	if err != nil {
		return nil, errors.Wrapf(err, "table.Open: table %d", metaPageID)
	}
	payload, err := tree.MetaPayload()
	if err != nil {
		return nil, errors.Wrapf(err, "table.Open: table %d", metaPageID)
	}
	if len(payload) != payloadSize {
		return nil, errors.Wrapf(bplus.ErrCorruptMeta, "table.Open: table %d payload is %d bytes", metaPageID, len(payload))
	}

	return &Table{
		MetaPageID:  metaPageID,
		NumKeyElems: int(binary.LittleEndian.Uint32(payload)),
		tree:        tree,
	}, nil
}

// Insert stores one row. Rows shorter than NumKeyElems fail with ErrSchemaMismatch.
func (t *Table) Insert(record tuple.Tuple) error {
	if len(record) < t.NumKeyElems {
		return errors.Wrapf(ErrSchemaMismatch, "Insert: table %d needs at least %d columns, got %d", t.MetaPageID, t.NumKeyElems, len(record))
	}

	key := tuple.Encode(record[:t.NumKeyElems])
	value := tuple.Encode(record[t.NumKeyElems:])
	if err := t.tree.Insert(key, value); err != nil {
		return errors.Wrapf(err, "Insert: table %d", t.MetaPageID)
	}
	return nil
}

// Get looks a row up by its key columns.
func (t *Table) Get(keyCols tuple.Tuple) (tuple.Tuple, bool, error) {
	if len(keyCols) != t.NumKeyElems {
		return nil, false, errors.Wrapf(ErrSchemaMismatch, "Get: table %d has %d key columns, got %d", t.MetaPageID, t.NumKeyElems, len(keyCols))
	}

	key := tuple.Encode(keyCols)
	value, found, err := t.tree.Search(key)
	if err != nil || !found {
		return nil, false, err
	}
	row, err := joinRow(key, value)
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

// Scan iterates every row in key order.
func (t *Table) Scan() (*Iterator, error) {
	it, err := t.tree.Scan()
	if err != nil {
		return nil, err
	}
	return &Iterator{inner: it}, nil
}

// ScanFrom iterates rows whose key is >= the encoding of keyCols.
// keyCols may name only a prefix of the key columns.
func (t *Table) ScanFrom(keyCols tuple.Tuple) (*Iterator, error) {
	if len(keyCols) > t.NumKeyElems {
		return nil, errors.Wrapf(ErrSchemaMismatch, "ScanFrom: table %d has %d key columns, got %d", t.MetaPageID, t.NumKeyElems, len(keyCols))
	}
	it, err := t.tree.SeekGE(tuple.Encode(keyCols))
	if err != nil {
		return nil, err
	}
	return &Iterator{inner: it}, nil
}

// Stats exposes the shape of the underlying tree.
func (t *Table) Stats() (bplus.TreeStats, error) {
	return t.tree.Stats()
}

// Tree is the underlying index, for inspection tools.
func (t *Table) Tree() *bplus.BPlusTree {
	return t.tree
}

// Iterator yields rows as key columns followed by value columns.
type Iterator struct {
	inner *bplus.Iterator
}

func (it *Iterator) Next() (tuple.Tuple, bool, error) {
	key, value, ok, err := it.inner.Next()
	if err != nil || !ok {
		return nil, false, err
	}
	row, err := joinRow(key, value)
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

func (it *Iterator) Close() {
	it.inner.Close()
}

func joinRow(key, value []byte) (tuple.Tuple, error) {
	keyCols, err := tuple.Decode(key)
	if err != nil {
		return nil, errors.Wrap(err, "decode key")
	}
	valueCols, err := tuple.Decode(value)
	if err != nil {
		return nil, errors.Wrap(err, "decode value")
	}
	return append(keyCols, valueCols...), nil
}

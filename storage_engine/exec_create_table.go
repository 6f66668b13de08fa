package storageengine

import (
	"github.com/pkg/errors"

	"LeafDB/logger"
	"LeafDB/storage_engine/table"
	"LeafDB/types"
)

/*
CreateTable allocates a meta page and an empty root leaf. The meta page id
is the table id: the first table of a fresh file is table 0.
*/

func (se *StorageEngine) CreateTable(cmd CreateTable) (types.PageID, error) {
	if se.closed {
		return types.InvalidPageID, ErrClosed
	}

	tbl, err := table.Create(se.BufferPool, cmd.NumKeyElems)
	if err != nil {
		return types.InvalidPageID, errors.Wrap(err, "CreateTable")
	}
	se.Catalog.Put(tbl)

	logger.Debugf("[StorageEngine] CreateTable table=%d numKeyElems=%d", tbl.MetaPageID, tbl.NumKeyElems)
	return tbl.MetaPageID, nil
}

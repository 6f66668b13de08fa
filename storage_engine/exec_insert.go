package storageengine

import (
	"github.com/pkg/errors"

	"LeafDB/logger"
	"LeafDB/storage_engine/table"
)

// Insert adds one row. The declared NumKeyElems must match the table's.
func (se *StorageEngine) Insert(cmd Insert) error {
	if se.closed {
		return ErrClosed
	}

	tbl, err := se.Catalog.Get(cmd.Table)
	if err != nil {
		return errors.Wrapf(err, "Insert: table %d", cmd.Table)
	}
	if tbl.NumKeyElems != cmd.NumKeyElems {
		return errors.Wrapf(table.ErrSchemaMismatch,
			"Insert: table %d has %d key columns, request says %d",
			cmd.Table, tbl.NumKeyElems, cmd.NumKeyElems)
	}

	if err := tbl.Insert(cmd.Record); err != nil {
		return err
	}
	logger.Debugf("[StorageEngine] Insert table=%d cols=%d", cmd.Table, len(cmd.Record))
	return nil
}

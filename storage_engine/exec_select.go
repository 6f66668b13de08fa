package storageengine

import (
	"github.com/pkg/errors"

	executor "LeafDB/query_executor"
	"LeafDB/storage_engine/tuple"
)

/*
Query builds a lazy executor tree over the catalog:

	Filter{From: SeqScan{Table: 0}, Where: ...}
	     ↓
	filterExec ── pulls ──▶ seqScanExec ── table.Iterator ──▶ bplus.Iterator

Rows are decoded one at a time; no page stays pinned between pulls.
*/

func (se *StorageEngine) Query(cmd Query) (executor.Executor, error) {
	if se.closed {
		return nil, ErrClosed
	}
	if cmd.Plan == nil {
		return nil, errors.Wrap(executor.ErrUnknownPlan, "Query: empty plan")
	}
	return executor.Build(cmd.Plan, se.Catalog)
}

// QueryAll runs a query to completion.
func (se *StorageEngine) QueryAll(cmd Query) ([]tuple.Tuple, error) {
	exec, err := se.Query(cmd)
	if err != nil {
		return nil, err
	}
	rows, err := executor.Collect(exec, 0)
	if err != nil {
		return nil, errors.Wrap(err, "Query")
	}
	return rows, nil
}

package executor

import (
	"github.com/pkg/errors"

	"LeafDB/storage_engine/table"
	"LeafDB/storage_engine/tuple"
)

/*
Executors are lazy: Build only opens iterators, rows are produced one per
Next call. A SeqScan holds a table iterator, which keeps no buffer pool
pin between calls, so an abandoned executor leaks nothing.
*/

// Build turns a plan into an executor tree.
func Build(plan Plan, tables TableResolver) (Executor, error) {
	switch p := plan.(type) {
	case SeqScan:
		return buildSeqScan(p, tables)
	case *SeqScan:
		return buildSeqScan(*p, tables)
	case Filter:
		return buildFilter(p, tables)
	case *Filter:
		return buildFilter(*p, tables)
	default:
		return nil, errors.Wrapf(ErrUnknownPlan, "%T", plan)
	}
}

func buildSeqScan(p SeqScan, tables TableResolver) (Executor, error) {
	tbl, err := tables.Get(p.Table)
	if err != nil {
		return nil, errors.Wrapf(err, "SeqScan: table %d", p.Table)
	}

	var it *table.Iterator
	if len(p.Key) > 0 {
		it, err = tbl.ScanFrom(p.Key)
	} else {
		it, err = tbl.Scan()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "SeqScan: table %d", p.Table)
	}
	return &seqScanExec{iter: it, while: p.While, numKeyElems: tbl.NumKeyElems}, nil
}

func buildFilter(p Filter, tables TableResolver) (Executor, error) {
	if p.Where == nil {
		return nil, errors.Wrap(ErrTypeMismatch, "Filter: missing predicate")
	}
	from, err := Build(p.From, tables)
	if err != nil {
		return nil, err
	}
	return &filterExec{from: from, where: p.Where}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SeqScan
// ─────────────────────────────────────────────────────────────────────────────

type seqScanExec struct {
	iter        *table.Iterator
	while       Expr
	numKeyElems int
	done        bool
}

func (e *seqScanExec) Next() (tuple.Tuple, bool, error) {
	if e.done {
		return nil, false, nil
	}
	row, ok, err := e.iter.Next()
	if err != nil || !ok {
		e.done = true
		return nil, false, err
	}

	if e.while != nil {
		keep, err := EvalBool(e.while, row[:e.numKeyElems])
		if err != nil {
			e.done = true
			return nil, false, errors.Wrap(err, "SeqScan: while")
		}
		if !keep {
			e.Close()
			return nil, false, nil
		}
	}
	return row, true, nil
}

func (e *seqScanExec) Close() {
	e.done = true
	e.iter.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Filter
// ─────────────────────────────────────────────────────────────────────────────

type filterExec struct {
	from  Executor
	where Expr
}

func (e *filterExec) Next() (tuple.Tuple, bool, error) {
	for {
		row, ok, err := e.from.Next()
		if err != nil || !ok {
			return nil, false, err
		}
		keep, err := EvalBool(e.where, row)
		if err != nil {
			return nil, false, errors.Wrap(err, "Filter: where")
		}
		if keep {
			return row, true, nil
		}
	}
}

func (e *filterExec) Close() {
	e.from.Close()
}

// Collect drains exec into a slice, stopping after limit rows when limit > 0.
// exec is closed on return.
func Collect(exec Executor, limit int) ([]tuple.Tuple, error) {
	defer exec.Close()

	var rows []tuple.Tuple
	for limit <= 0 || len(rows) < limit {
		row, ok, err := exec.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		rows = append(rows, row)
	}
	return rows, nil
}

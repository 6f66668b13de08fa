package executor

import (
	"LeafDB/storage_engine/table"
	"LeafDB/storage_engine/tuple"
	"LeafDB/types"
)

// ############################################# PLAN NODES #############################################

// Plan is a closed set: SeqScan, Filter.
type Plan interface {
	isPlan()
}

// SeqScan walks a table in key order.
//
// Key, when set, starts the scan at the first row whose key columns are
// >= Key (a prefix of the key columns is allowed). While, when set, is
// evaluated against the key columns of each row and ends the scan at the
// first row for which it is false.
type SeqScan struct {
	Table types.PageID
	Key   tuple.Tuple
	While Expr
}

// Filter yields the rows of From for which Where is true.
type Filter struct {
	From  Plan
	Where Expr
}

func (SeqScan) isPlan() {}
func (Filter) isPlan()  {}

// ############################################# EXPRESSIONS #############################################

// Expr is a closed set of scalar expressions evaluated per row.
type Expr interface {
	isExpr()
}

type (
	Literal struct{ Value []byte }
	Column  struct{ Index int }

	True  struct{}
	False struct{}

	And struct{ Left, Right Expr }
	Or  struct{ Left, Right Expr }
	Not struct{ Expr Expr }

	Eq  struct{ Left, Right Expr }
	Lt  struct{ Left, Right Expr }
	Lte struct{ Left, Right Expr }
	Gt  struct{ Left, Right Expr }
	Gte struct{ Left, Right Expr }

	// RowCompare orders the whole row against Values, column by column,
	// a shorter tuple sorting first on a common prefix. It is the usual
	// SeqScan While bound: RowCompare{Op: OpLt, Values: ...}.
	RowCompare struct {
		Op     CmpOp
		Values tuple.Tuple
	}
)

type CmpOp uint8

const (
	OpEq CmpOp = iota
	OpLt
	OpLte
	OpGt
	OpGte
)

func (op CmpOp) holds(c int) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpLt:
		return c < 0
	case OpLte:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGte:
		return c >= 0
	default:
		return false
	}
}

func (Literal) isExpr()    {}
func (Column) isExpr()     {}
func (True) isExpr()       {}
func (False) isExpr()      {}
func (And) isExpr()        {}
func (Or) isExpr()         {}
func (Not) isExpr()        {}
func (Eq) isExpr()         {}
func (Lt) isExpr()         {}
func (Lte) isExpr()        {}
func (Gt) isExpr()         {}
func (Gte) isExpr()        {}
func (RowCompare) isExpr() {}

// ############################################# EXECUTORS #############################################

// Executor is a pull-based row source.
type Executor interface {
	// Next returns the next row, ok is false when the source is exhausted.
	Next() (row tuple.Tuple, ok bool, err error)
	Close()
}

// TableResolver maps a table id to an open table.
type TableResolver interface {
	Get(id types.PageID) (*table.Table, error)
}

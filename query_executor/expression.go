package executor

import (
	"bytes"

	"github.com/pkg/errors"

	"LeafDB/storage_engine/tuple"
)

// Eval evaluates expr against row. Both sides of And/Or are always
// evaluated, so an error on either side surfaces.
func Eval(expr Expr, row tuple.Tuple) (Value, error) {
	switch e := expr.(type) {
	case Literal:
		return BytesValue(e.Value), nil
	case Column:
		if e.Index < 0 || e.Index >= len(row) {
			return Value{}, errors.Wrapf(ErrColumnOutOfRange, "column %d of a %d column row", e.Index, len(row))
		}
		return BytesValue(row[e.Index]), nil
	case True:
		return BoolValue(true), nil
	case False:
		return BoolValue(false), nil
	case And:
		l, r, err := evalBools(e.Left, e.Right, row)
		return BoolValue(l && r), err
	case Or:
		l, r, err := evalBools(e.Left, e.Right, row)
		return BoolValue(l || r), err
	case Not:
		v, err := evalBool(e.Expr, row)
		return BoolValue(!v), err
	case Eq:
		return compare(e.Left, e.Right, row, OpEq)
	case Lt:
		return compare(e.Left, e.Right, row, OpLt)
	case Lte:
		return compare(e.Left, e.Right, row, OpLte)
	case Gt:
		return compare(e.Left, e.Right, row, OpGt)
	case Gte:
		return compare(e.Left, e.Right, row, OpGte)
	case RowCompare:
		return BoolValue(e.Op.holds(compareRows(row, e.Values))), nil
	default:
		return Value{}, errors.Wrapf(ErrUnknownExpr, "%T", expr)
	}
}

// EvalBool evaluates a predicate, anything but a bool is ErrTypeMismatch.
func EvalBool(expr Expr, row tuple.Tuple) (bool, error) {
	return evalBool(expr, row)
}

func evalBool(expr Expr, row tuple.Tuple) (bool, error) {
	v, err := Eval(expr, row)
	if err != nil {
		return false, err
	}
	return v.Bool()
}

func evalBools(left, right Expr, row tuple.Tuple) (bool, bool, error) {
	l, err := evalBool(left, row)
	if err != nil {
		return false, false, err
	}
	r, err := evalBool(right, row)
	if err != nil {
		return false, false, err
	}
	return l, r, nil
}

func evalBytes(expr Expr, row tuple.Tuple) ([]byte, error) {
	v, err := Eval(expr, row)
	if err != nil {
		return nil, err
	}
	return v.Bytes()
}

// compare orders two byte operands with bytes.Compare.
func compare(left, right Expr, row tuple.Tuple, op CmpOp) (Value, error) {
	l, err := evalBytes(left, row)
	if err != nil {
		return Value{}, err
	}
	r, err := evalBytes(right, row)
	if err != nil {
		return Value{}, err
	}
	return BoolValue(op.holds(bytes.Compare(l, r))), nil
}

func compareRows(a, b tuple.Tuple) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := bytes.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

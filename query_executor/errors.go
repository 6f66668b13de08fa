package executor

import "github.com/pkg/errors"

var (
	ErrColumnOutOfRange = errors.New("column index out of range")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrUnknownPlan      = errors.New("unknown plan node")
	ErrUnknownExpr      = errors.New("unknown expression")
)

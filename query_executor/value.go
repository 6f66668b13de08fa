package executor

import (
	"fmt"

	"github.com/pkg/errors"
)

type valueKind uint8

const (
	kindBytes valueKind = iota
	kindBool
)

// Value is the result of evaluating an expression: a byte string or a bool.
type Value struct {
	kind  valueKind
	bytes []byte
	b     bool
}

func BytesValue(b []byte) Value {
	return Value{kind: kindBytes, bytes: b}
}

func BoolValue(b bool) Value {
	return Value{kind: kindBool, b: b}
}

func (v Value) IsBool() bool {
	return v.kind == kindBool
}

func (v Value) Bytes() ([]byte, error) {
	if v.kind != kindBytes {
		return nil, errors.Wrap(ErrTypeMismatch, "expected bytes, got bool")
	}
	return v.bytes, nil
}

func (v Value) Bool() (bool, error) {
	if v.kind != kindBool {
		return false, errors.Wrap(ErrTypeMismatch, "expected bool, got bytes")
	}
	return v.b, nil
}

func (v Value) String() string {
	if v.kind == kindBool {
		return fmt.Sprintf("%t", v.b)
	}
	return fmt.Sprintf("%q", v.bytes)
}

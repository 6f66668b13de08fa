package request

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	executor "LeafDB/query_executor"
	storageengine "LeafDB/storage_engine"
	"LeafDB/storage_engine/tuple"
	"LeafDB/types"
)

/*
One command per line, one JSON object per command:

	{"CreateTable":{"num_key_elems":1}}
	{"Insert":{"table":0,"num_key_elems":1,"record":["z","Alice","Smith"]}}
	{"Query":{"Filter":{"from":{"SeqScan":{"table":0}},"where":{"Eq":[{"Column":1},{"Literal":"Alice"}]}}}}

A SeqScan may carry "key" (a list of strings to start at) and "while".
Predicates are "True", "False", {"Not":p}, {"And":[p,q]}, {"Or":[p,q]} and
the comparisons Eq, Lt, Lte, Gt, Gte. A comparison takes either two
operands ({"Literal":"..."} or {"Column":n}) or a list of strings, which
compares the whole row against that tuple:

	{"SeqScan":{"table":0,"key":["w"],"while":{"Lt":["y"]}}}
*/

var ErrCommandParse = errors.New("command parse error")

func parseErr(format string, args ...interface{}) error {
	return errors.Wrapf(ErrCommandParse, format, args...)
}

// Parse decodes one command.
func Parse(line []byte) (storageengine.Command, error) {
	name, body, err := variant(line)
	if err != nil {
		return nil, err
	}

	switch name {
	case "CreateTable":
		var req struct {
			NumKeyElems *int `json:"num_key_elems"`
		}
		if err := decodeStrict(body, &req); err != nil {
			return nil, parseErr("CreateTable: %v", err)
		}
		if req.NumKeyElems == nil || *req.NumKeyElems < 0 {
			return nil, parseErr("CreateTable: num_key_elems must be a non-negative integer")
		}
		return storageengine.CreateTable{NumKeyElems: *req.NumKeyElems}, nil

	case "Insert":
		var req struct {
			Table       *uint64  `json:"table"`
			NumKeyElems *int     `json:"num_key_elems"`
			Record      []string `json:"record"`
		}
		if err := decodeStrict(body, &req); err != nil {
			return nil, parseErr("Insert: %v", err)
		}
		if req.Table == nil || req.NumKeyElems == nil || req.Record == nil {
			return nil, parseErr("Insert: table, num_key_elems and record are required")
		}
		return storageengine.Insert{
			Table:       types.PageID(*req.Table),
			NumKeyElems: *req.NumKeyElems,
			Record:      tuple.FromStrings(req.Record...),
		}, nil

	case "Query":
		plan, err := parsePlan(body)
		if err != nil {
			return nil, err
		}
		return storageengine.Query{Plan: plan}, nil

	default:
		return nil, parseErr("unknown command %q", name)
	}
}

func parsePlan(raw json.RawMessage) (executor.Plan, error) {
	name, body, err := variant(raw)
	if err != nil {
		return nil, err
	}

	switch name {
	case "SeqScan":
		var req struct {
			Table *uint64         `json:"table"`
			Key   []string        `json:"key"`
			While json.RawMessage `json:"while"`
		}
		if err := decodeStrict(body, &req); err != nil {
			return nil, parseErr("SeqScan: %v", err)
		}
		if req.Table == nil {
			return nil, parseErr("SeqScan: table is required")
		}
		plan := executor.SeqScan{Table: types.PageID(*req.Table)}
		if req.Key != nil {
			plan.Key = tuple.FromStrings(req.Key...)
		}
		if len(req.While) > 0 {
			if plan.While, err = parsePredicate(req.While); err != nil {
				return nil, err
			}
		}
		return plan, nil

	case "Filter":
		var req struct {
			From  json.RawMessage `json:"from"`
			Where json.RawMessage `json:"where"`
		}
		if err := decodeStrict(body, &req); err != nil {
			return nil, parseErr("Filter: %v", err)
		}
		if len(req.From) == 0 || len(req.Where) == 0 {
			return nil, parseErr("Filter: from and where are required")
		}
		from, err := parsePlan(req.From)
		if err != nil {
			return nil, err
		}
		where, err := parsePredicate(req.Where)
		if err != nil {
			return nil, err
		}
		return executor.Filter{From: from, Where: where}, nil

	default:
		return nil, parseErr("unknown plan %q", name)
	}
}

var cmpOps = map[string]executor.CmpOp{
	"Eq":  executor.OpEq,
	"Lt":  executor.OpLt,
	"Lte": executor.OpLte,
	"Gt":  executor.OpGt,
	"Gte": executor.OpGte,
}

func parsePredicate(raw json.RawMessage) (executor.Expr, error) {
	var unit string
	if err := json.Unmarshal(raw, &unit); err == nil {
		switch unit {
		case "True":
			return executor.True{}, nil
		case "False":
			return executor.False{}, nil
		default:
			return nil, parseErr("unknown predicate %q", unit)
		}
	}

	name, body, err := variant(raw)
	if err != nil {
		return nil, err
	}

	switch name {
	case "Not":
		inner, err := parsePredicate(body)
		if err != nil {
			return nil, err
		}
		return executor.Not{Expr: inner}, nil
	case "And", "Or":
		left, right, err := pair(name, body, parsePredicate)
		if err != nil {
			return nil, err
		}
		if name == "And" {
			return executor.And{Left: left, Right: right}, nil
		}
		return executor.Or{Left: left, Right: right}, nil
	}

	op, ok := cmpOps[name]
	if !ok {
		return nil, parseErr("unknown predicate %q", name)
	}

	var values []string
	if err := json.Unmarshal(body, &values); err == nil {
		return executor.RowCompare{Op: op, Values: tuple.FromStrings(values...)}, nil
	}

	left, right, err := pair(name, body, parseOperand)
	if err != nil {
		return nil, err
	}
	switch op {
	case executor.OpEq:
		return executor.Eq{Left: left, Right: right}, nil
	case executor.OpLt:
		return executor.Lt{Left: left, Right: right}, nil
	case executor.OpLte:
		return executor.Lte{Left: left, Right: right}, nil
	case executor.OpGt:
		return executor.Gt{Left: left, Right: right}, nil
	default:
		return executor.Gte{Left: left, Right: right}, nil
	}
}

func parseOperand(raw json.RawMessage) (executor.Expr, error) {
	name, body, err := variant(raw)
	if err != nil {
		return nil, err
	}
	switch name {
	case "Literal":
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, parseErr("Literal: %v", err)
		}
		return executor.Literal{Value: []byte(s)}, nil
	case "Column":
		var idx int
		if err := json.Unmarshal(body, &idx); err != nil || idx < 0 {
			return nil, parseErr("Column: want a non-negative index, got %s", body)
		}
		return executor.Column{Index: idx}, nil
	default:
		return nil, parseErr("unknown operand %q", name)
	}
}

// pair decodes a two element array with parse.
func pair(name string, raw json.RawMessage, parse func(json.RawMessage) (executor.Expr, error)) (executor.Expr, executor.Expr, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) != 2 {
		return nil, nil, parseErr("%s: want a two element array, got %s", name, raw)
	}
	left, err := parse(items[0])
	if err != nil {
		return nil, nil, err
	}
	right, err := parse(items[1])
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// variant unpacks an externally tagged value: an object with exactly one key.
func variant(raw []byte) (string, json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", nil, parseErr("%v", err)
	}
	if len(obj) != 1 {
		return "", nil, parseErr("want an object with exactly one key, got %d", len(obj))
	}
	for name, body := range obj {
		return name, body, nil
	}
	return "", nil, nil
}

func decodeStrict(raw json.RawMessage, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

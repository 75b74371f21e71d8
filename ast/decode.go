package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// jsonOps lists the operator names accepted by Decode.
var jsonOps = map[string]Op{
	"=":   Equal,
	"==":  Equal,
	"<>":  NotEqual,
	"!=":  NotEqual,
	"<":   LessThan,
	"<=":  LessOrEqual,
	">":   GreaterThan,
	">=":  GreaterOrEqual,
	"and": And,
	"or":  Or,
	"&&":  AndAlso,
	"||":  OrElse,
	"??":  Coalesce,
	"+":   Add,
	"-":   Subtract,
	"*":   Multiply,
	"/":   Divide,
	"%":   Modulo,
	"&":   BitAnd,
	"|":   BitOr,
	"^":   BitXor,
	"<<":  LeftShift,
	">>":  RightShift,
}

/*
Decode builds a tree from its JSON representation. Expressions are Lisp-style
lists whose first element is an operator:

	["&&",
	  ["=", "Author", "Tolkien"],
	  [">", "PublicationDate", {"time": "1950-01-01T00:00:00Z"}]
	]

The first operand of a comparison or of "??" is a property name when it is a
string. Elsewhere strings are string constants. Objects are used for values
that JSON cannot express directly:

	{"field": "Title"}                  a property of the subject
	{"time": "1950-01-01T00:00:00Z"}    a time.Time constant (RFC 3339)

Integral numbers decode to int64, other numbers to float64. A top-level
string decodes to a property, which is the form expected for selectors.

"&&" and "||" accept more than two operands and are chained from the left.
*/
func Decode(input []byte) (Node, error) {
	if isJSONString(input) {
		var name string
		if err := json.Unmarshal(input, &name); err != nil {
			return nil, fmt.Errorf("cannot decode property name: %w", err)
		}
		return Field(name), nil
	}
	n, err := decodeNode(input)
	if err != nil {
		return nil, fmt.Errorf("cannot decode expression: %w", err)
	}
	return n, nil
}

func decodeNode(input []byte) (Node, error) {
	switch {
	case isJSONList(input):
		return decodeList(input)
	case isJSONDict(input):
		return decodeDict(input)
	case isJSONString(input):
		var s string
		if err := json.Unmarshal(input, &s); err != nil {
			return nil, err
		}
		return Value(s), nil
	}
	return decodeScalar(input)
}

// decodeOperand decodes the first operand of a comparison, where a bare
// string names a property.
func decodeOperand(input []byte) (Node, error) {
	if isJSONString(input) {
		var name string
		if err := json.Unmarshal(input, &name); err != nil {
			return nil, err
		}
		return Field(name), nil
	}
	return decodeNode(input)
}

func decodeList(input []byte) (Node, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(input, &list); err != nil {
		return nil, fmt.Errorf("cannot unmarshal list: %w", err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("lists must have at least one element, found empty list")
	}

	head, args := list[0], list[1:]
	if !isJSONString(head) {
		return nil, fmt.Errorf("first list element must be a string, found %s", head)
	}
	var name string
	if err := json.Unmarshal(head, &name); err != nil {
		return nil, err
	}
	op, ok := jsonOps[name]
	if !ok {
		return nil, fmt.Errorf("unknown operator %q", name)
	}

	if op == AndAlso || op == OrElse {
		if len(args) < 2 {
			return nil, fmt.Errorf("operator %q needs at least 2 arguments, found %d", name, len(args))
		}
	} else if len(args) != 2 {
		return nil, fmt.Errorf("operator %q needs exactly 2 arguments, found %d", name, len(args))
	}

	if op.IsLogical() {
		var out Node
		for _, arg := range args {
			n, err := decodeNode(arg)
			if err != nil {
				return nil, err
			}
			if out == nil {
				out = n
			} else {
				out = New(op, out, n)
			}
		}
		return out, nil
	}

	left, err := decodeOperand(args[0])
	if err != nil {
		return nil, err
	}
	right, err := decodeNode(args[1])
	if err != nil {
		return nil, err
	}
	return New(op, left, right), nil
}

func decodeDict(input []byte) (Node, error) {
	var dict map[string]json.RawMessage
	if err := json.Unmarshal(input, &dict); err != nil {
		return nil, fmt.Errorf("cannot unmarshal object: %w", err)
	}
	if len(dict) != 1 {
		return nil, fmt.Errorf(`objects must have exactly one key, "field" or "time", found %d`, len(dict))
	}
	if raw, ok := dict["field"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, fmt.Errorf("field name must be a string: %w", err)
		}
		return Field(name), nil
	}
	if raw, ok := dict["time"]; ok {
		var t time.Time
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("invalid time: %w", err)
		}
		return Value(t), nil
	}
	for key := range dict {
		return nil, fmt.Errorf("unexpected object key %q", key)
	}
	return nil, nil
}

// decodeScalar decodes numbers, booleans and null.
func decodeScalar(input []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if num, ok := v.(json.Number); ok {
		if i, err := num.Int64(); err == nil {
			return Value(i), nil
		}
		f, err := num.Float64()
		if err != nil {
			return nil, err
		}
		return Value(f), nil
	}
	return Value(v), nil
}

func isJSONDict(val []byte) bool   { return firstMeaningfulByte(val) == '{' }
func isJSONList(val []byte) bool   { return firstMeaningfulByte(val) == '[' }
func isJSONString(val []byte) bool { return firstMeaningfulByte(val) == '"' }

func firstMeaningfulByte(val []byte) byte {
	val = bytes.TrimSpace(val)
	if len(val) > 0 {
		return val[0]
	}
	return 0
}

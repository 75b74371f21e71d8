// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

/*
Package ast defines the predicate and selector trees consumed by sqlclause.

A tree is made of three node kinds:

  - [Binary]: an operator applied to a left and a right operand.
  - [Member]: access to a property. Root members access the subject of the
    predicate directly (the row being filtered). Non-root members are captured
    values from the caller's scope and are evaluated when the tree is
    translated.
  - [Constant]: a typed Go value.

Trees are built with the helper functions in this package, or decoded from
JSON with [Decode]. They are never mutated by the translator.
*/
package ast

import (
	"fmt"
)

// Node is a node of a predicate or selector tree.
type Node interface {
	// String returns a representation of the node for debugging and error
	// messages.
	String() string

	// node is a marker method.
	node()
}

// Op is the operator of a Binary node.
type Op int

const (
	Equal Op = iota + 1
	NotEqual
	LessThan
	LessOrEqual
	GreaterThan
	GreaterOrEqual
	And
	Or
	AndAlso
	OrElse
	Coalesce

	// The operators below can be expressed in a tree but have no SQL
	// translation.
	Add
	Subtract
	Multiply
	Divide
	Modulo
	BitAnd
	BitOr
	BitXor
	LeftShift
	RightShift
)

var opNames = map[Op]string{
	Equal:          "==",
	NotEqual:       "!=",
	LessThan:       "<",
	LessOrEqual:    "<=",
	GreaterThan:    ">",
	GreaterOrEqual: ">=",
	And:            "and",
	Or:             "or",
	AndAlso:        "&&",
	OrElse:         "||",
	Coalesce:       "??",
	Add:            "+",
	Subtract:       "-",
	Multiply:       "*",
	Divide:         "/",
	Modulo:         "%",
	BitAnd:         "&",
	BitOr:          "|",
	BitXor:         "^",
	LeftShift:      "<<",
	RightShift:     ">>",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// IsComparison reports whether op compares two values.
func (op Op) IsComparison() bool {
	return op >= Equal && op <= GreaterOrEqual
}

// IsLogical reports whether op combines two boolean expressions.
func (op Op) IsLogical() bool {
	return op >= And && op <= OrElse
}

// Binary applies Op to Left and Right.
type Binary struct {
	Op          Op
	Left, Right Node
}

func (b *Binary) String() string {
	return "Binary[" + b.Op.String() + " " + nodeString(b.Left) + " " + nodeString(b.Right) + "]"
}

func (b *Binary) node() {}

// Member accesses a property by name.
type Member struct {
	Name string

	// Root is true when the member is accessed directly on the subject of
	// the predicate. A non-root member is a captured value.
	Root bool

	// Eval produces the current value of a captured member. It is not used
	// for root members.
	Eval func() (any, error)
}

func (m *Member) String() string {
	if m.Root {
		return "Field[" + m.Name + "]"
	}
	return "Captured[" + m.Name + "]"
}

func (m *Member) node() {}

// Constant is a literal value.
type Constant struct {
	Value any
}

func (c *Constant) String() string {
	if s, ok := c.Value.(string); ok {
		return fmt.Sprintf("Constant[%q]", s)
	}
	return fmt.Sprintf("Constant[%v]", c.Value)
}

func (c *Constant) node() {}

func nodeString(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}


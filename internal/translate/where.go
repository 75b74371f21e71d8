// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package translate

import (
	"fmt"
	"strings"

	"github.com/canonical/sqlclause/ast"
)

// Mapping resolves the properties of one entity to column names.
type Mapping interface {
	// Entity returns the name of the mapped entity.
	Entity() string

	// Column returns the column of property, and false if the property is
	// not mapped.
	Column(property string) (string, bool)
}

var sqlOps = map[ast.Op]string{
	ast.Equal:          "=",
	ast.NotEqual:       "<>",
	ast.LessThan:       "<",
	ast.LessOrEqual:    "<=",
	ast.GreaterThan:    ">",
	ast.GreaterOrEqual: ">=",
	ast.And:            "AND",
	ast.Or:             "OR",
	ast.AndAlso:        "AND",
	ast.OrElse:         "OR",
}

// Where returns the WHERE clause for pred, or an empty string when pred is nil
// or produces no condition.
func Where(m Mapping, pred ast.Node) (string, error) {
	cond, err := Condition(m, pred)
	if err != nil || cond == "" {
		return "", err
	}
	return "WHERE " + cond, nil
}

// Condition returns the text of the condition for pred, without the WHERE
// keyword. Comparisons on unmapped properties are left out.
func Condition(m Mapping, pred ast.Node) (string, error) {
	if m == nil || pred == nil {
		return "", nil
	}
	s := &state{mapping: m}
	if err := s.visit(pred); err != nil {
		return "", err
	}
	return s.buf.String(), nil
}

// state is the traversal state of one translation. Grouped combinators
// translate each of their operands with a fresh state so that siblings never
// see each other's output; AndAlso operands share the enclosing state.
type state struct {
	mapping Mapping

	// lastMember is the name of the last root member visited.
	lastMember string

	// lastValue is the literal of the last value visited, valid when
	// hasValue is set.
	lastValue string
	hasValue  bool

	// pendingCoalesce is the COALESCE expression waiting to be used as the
	// left term of the enclosing comparison.
	pendingCoalesce string
	coalesceActive  bool

	buf strings.Builder
}

func (s *state) visit(n ast.Node) error {
	switch n := n.(type) {
	case *ast.Binary:
		return s.visitBinary(n)
	case *ast.Member:
		return s.visitMember(n)
	case *ast.Constant:
		s.setValue(Literal(n.Value))
		return nil
	case nil:
		return fmt.Errorf("missing operand")
	}
	return fmt.Errorf("unsupported node type %T", n)
}

func (s *state) visitBinary(b *ast.Binary) error {
	switch {
	case b.Op == ast.AndAlso:
		return s.visitConjunction(b)
	case b.Op.IsLogical():
		return s.visitGroup(b)
	case b.Op.IsComparison():
		return s.visitComparison(b)
	case b.Op == ast.Coalesce:
		return s.visitCoalesce(b)
	}
	return &OperatorError{Op: b.Op}
}

// visitGroup translates And, Or and OrElse as a parenthesised group. A group
// written after other conditions is separated from them by a space only.
func (s *state) visitGroup(b *ast.Binary) error {
	left, err := s.isolated(b.Left)
	if err != nil {
		return err
	}
	right, err := s.isolated(b.Right)
	if err != nil {
		return err
	}
	if s.buf.Len() > 0 {
		s.buf.WriteByte(' ')
	}
	s.buf.WriteString("(" + left + " " + sqlOps[b.Op] + " " + right + ")")
	return nil
}

// visitConjunction translates AndAlso. Both operands write into the
// enclosing buffer: comparisons are joined with AND, while a logical group
// is joined with a single space. An operand producing no condition is left
// out.
func (s *state) visitConjunction(b *ast.Binary) error {
	if err := s.visit(b.Left); err != nil {
		return err
	}
	return s.visit(b.Right)
}

func (s *state) isolated(n ast.Node) (string, error) {
	child := &state{mapping: s.mapping}
	if err := child.visit(n); err != nil {
		return "", err
	}
	return child.buf.String(), nil
}

func (s *state) visitComparison(b *ast.Binary) error {
	s.clearCoalesce()
	s.lastMember, s.hasValue = "", false
	if err := s.visit(b.Left); err != nil {
		return err
	}
	property := s.lastMember
	leftTerm, fromCoalesce := s.pendingCoalesce, s.coalesceActive
	s.clearCoalesce()

	// Only a value found on the right-hand side counts.
	s.hasValue = false
	if err := s.visit(b.Right); err != nil {
		return err
	}
	s.clearCoalesce()
	if !s.hasValue {
		return nil
	}
	literal := s.lastValue

	column, ok := s.mapping.Column(property)
	if !ok {
		return nil
	}
	if !fromCoalesce {
		leftTerm = column
	}
	op := sqlOps[b.Op]
	if literal == Null {
		// Any comparison with null becomes IS, including <>.
		op = "IS"
	}
	s.appendCondition(leftTerm + " " + op + " " + literal)
	return nil
}

func (s *state) visitCoalesce(b *ast.Binary) error {
	s.lastMember = ""
	if err := s.visit(b.Left); err != nil {
		return err
	}
	property := s.lastMember

	// The fallback must not leak to the enclosing comparison as its value.
	hadValue, lastValue := s.hasValue, s.lastValue
	s.hasValue = false
	if err := s.visit(b.Right); err != nil {
		return err
	}
	fallback, ok := s.lastValue, s.hasValue
	s.hasValue, s.lastValue = hadValue, lastValue
	if !ok {
		return nil
	}

	if column, mapped := s.mapping.Column(property); mapped {
		s.pendingCoalesce = "COALESCE(" + column + ", " + fallback + ")"
		s.coalesceActive = true
	}
	return nil
}

func (s *state) visitMember(m *ast.Member) error {
	if m.Root {
		s.lastMember = m.Name
		return nil
	}
	if m.Eval == nil {
		return fmt.Errorf("captured member %q cannot be evaluated", m.Name)
	}
	v, err := m.Eval()
	if err != nil {
		return fmt.Errorf("cannot evaluate captured member %q: %w", m.Name, err)
	}
	s.setValue(Literal(v))
	return nil
}

func (s *state) setValue(literal string) {
	s.lastValue = literal
	s.hasValue = true
}

func (s *state) clearCoalesce() {
	s.pendingCoalesce = ""
	s.coalesceActive = false
}

// appendCondition appends cond to the buffer, joined with AND.
func (s *state) appendCondition(cond string) {
	if s.buf.Len() > 0 {
		s.buf.WriteString(" AND ")
	}
	s.buf.WriteString(cond)
}

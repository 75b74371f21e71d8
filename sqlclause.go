// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlclause

import (
	"github.com/canonical/sqlclause/ast"
	"github.com/canonical/sqlclause/internal/translate"
	"github.com/canonical/sqlclause/internal/typeinfo"
)

var (
	ErrUnsupportedOperator = translate.ErrUnsupportedOperator
	ErrInvalidSelector     = translate.ErrInvalidSelector
	ErrUnmappedProperty    = translate.ErrUnmappedProperty
)

// OperatorError reports an operator with no SQL translation. It matches
// [ErrUnsupportedOperator] with errors.Is.
type OperatorError = translate.OperatorError

// PropertyError reports a property with no column. It matches
// [ErrUnmappedProperty] with errors.Is.
type PropertyError = translate.PropertyError

// Field is a named value of a [Patch].
type Field struct {
	Name  string
	Value any
}

// Patch is an ordered list of property values. It can be passed to [Update]
// in place of a struct.
type Patch []Field

// Where translates pred into a WHERE clause for the entity of m.
//
// It returns an empty string when m or pred is nil, or when pred yields no
// condition. Comparisons on properties missing from m are left out, and so
// are comparisons whose right operand is not a value.
func Where(m *ColumnMap, pred ast.Node) (string, error) {
	if m == nil {
		return "", nil
	}
	return translate.Where(m, pred)
}

// OrderBy translates sel, which must be a field of the entity of m, into an
// ORDER BY clause.
func OrderBy(m *ColumnMap, sel ast.Node) (string, error) {
	if m == nil {
		return translate.OrderBy(nil, sel)
	}
	return translate.OrderBy(m, sel)
}

type updateOptions struct {
	onlyUpdated bool
}

// UpdateOption configures [Update].
type UpdateOption func(*updateOptions)

// OnlyUpdatedProperties controls whether a patch without changed values
// yields no statement. It is on by default.
func OnlyUpdatedProperties(only bool) UpdateOption {
	return func(o *updateOptions) {
		o.onlyUpdated = only
	}
}

// Update returns an UPDATE statement for table setting the changed values of
// patch on the rows matching pred.
//
// patch is a [Patch], a struct or a pointer to a struct. Nil and zero values
// are not changes. When nothing changes Update returns an empty string, which
// the caller must not run. The WHERE keyword is written even when pred yields
// no condition.
//
// Literals are not escaped. Never build a patch or a predicate from untrusted
// input.
func Update(m *ColumnMap, pred ast.Node, patch any, table string, opts ...UpdateOption) (string, error) {
	o := updateOptions{onlyUpdated: true}
	for _, opt := range opts {
		opt(&o)
	}
	if m == nil {
		return "", nil
	}
	assignments, err := patchAssignments(patch)
	if err != nil {
		return "", err
	}
	return translate.Update(m, pred, assignments, table, o.onlyUpdated)
}

func patchAssignments(patch any) ([]translate.Assignment, error) {
	switch p := patch.(type) {
	case nil:
		return nil, nil
	case Patch:
		assignments := make([]translate.Assignment, len(p))
		for i, f := range p {
			assignments[i] = translate.Assignment{Property: f.Name, Value: f.Value}
		}
		return assignments, nil
	case *Patch:
		if p == nil {
			return nil, nil
		}
		return patchAssignments(*p)
	}
	values, err := typeinfo.PatchValues(patch)
	if err != nil {
		return nil, err
	}
	assignments := make([]translate.Assignment, len(values))
	for i, v := range values {
		assignments[i] = translate.Assignment{Property: v.Name, Value: v.Value}
	}
	return assignments, nil
}

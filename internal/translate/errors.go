package translate

import (
	"errors"
	"fmt"

	"github.com/canonical/sqlclause/ast"
)

var (
	// ErrUnsupportedOperator is returned when a tree contains an operator
	// with no SQL translation.
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrInvalidSelector is returned when an ordering selector is not a
	// direct property access on the subject.
	ErrInvalidSelector = errors.New("selector is not a direct property access")

	// ErrUnmappedProperty is returned when an ordering selector names a
	// property with no column.
	ErrUnmappedProperty = errors.New("property has no column mapping")
)

// OperatorError reports an operator that cannot be translated.
type OperatorError struct {
	Op ast.Op
}

func (e *OperatorError) Error() string {
	return fmt.Sprintf("unsupported operator %q", e.Op.String())
}

// Is reports whether target is ErrUnsupportedOperator.
func (e *OperatorError) Is(target error) bool {
	return target == ErrUnsupportedOperator
}

// PropertyError reports a property missing from a column mapping.
type PropertyError struct {
	Entity   string
	Property string
}

func (e *PropertyError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("property %q has no column mapping", e.Property)
	}
	return fmt.Sprintf("property %q of %q has no column mapping", e.Property, e.Entity)
}

// Is reports whether target is ErrUnmappedProperty.
func (e *PropertyError) Is(target error) bool {
	return target == ErrUnmappedProperty
}

package translate

import (
	"fmt"

	"github.com/canonical/sqlclause/ast"
)

// OrderBy returns the ORDER BY clause for a selector, which must be a root
// member naming a mapped property. Only a single ascending column is
// supported.
func OrderBy(m Mapping, sel ast.Node) (string, error) {
	member, ok := sel.(*ast.Member)
	if !ok || member == nil || !member.Root {
		return "", fmt.Errorf("cannot order by %s: %w", describe(sel), ErrInvalidSelector)
	}
	if m == nil {
		return "", &PropertyError{Property: member.Name}
	}
	column, ok := m.Column(member.Name)
	if !ok {
		return "", &PropertyError{Entity: m.Entity(), Property: member.Name}
	}
	return "ORDER BY " + column, nil
}

func describe(n ast.Node) string {
	if n == nil {
		return "nil selector"
	}
	return n.String()
}

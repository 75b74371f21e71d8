package translate

import (
	"strings"

	"github.com/canonical/sqlclause/ast"
	"github.com/canonical/sqlclause/internal/typeinfo"
)

// Assignment is a property of a patch and its desired value.
type Assignment struct {
	Property string
	Value    any
}

// SetClauseEntry is one "column = literal" term of a SET clause.
type SetClauseEntry struct {
	Column  string
	Literal string
}

func (e SetClauseEntry) String() string {
	return e.Column + " = " + e.Literal
}

// SetEntries returns the SET clause entries for patch in patch order. Values
// that are nil or the zero value of their type are skipped, as are properties
// without a column.
func SetEntries(m Mapping, patch []Assignment) []SetClauseEntry {
	var entries []SetClauseEntry
	for _, a := range patch {
		if typeinfo.IsZero(a.Value) {
			continue
		}
		column, ok := m.Column(a.Property)
		if !ok {
			continue
		}
		entries = append(entries, SetClauseEntry{Column: column, Literal: Literal(a.Value)})
	}
	return entries
}

// Update returns an UPDATE statement setting the changed values of patch on
// the rows of table matching pred.
//
// When onlyUpdated is set and the patch changes nothing, Update returns an
// empty string and the caller must not run anything. The WHERE keyword is
// always written, so a predicate that produces no condition leaves the
// statement ending in "WHERE ".
func Update(m Mapping, pred ast.Node, patch []Assignment, table string, onlyUpdated bool) (string, error) {
	if m == nil {
		return "", nil
	}
	entries := SetEntries(m, patch)
	if onlyUpdated && len(entries) == 0 {
		return "", nil
	}

	terms := make([]string, len(entries))
	for i, e := range entries {
		terms[i] = e.String()
	}

	cond, err := Condition(m, pred)
	if err != nil {
		return "", err
	}
	return "UPDATE " + table + " SET " + strings.Join(terms, ", ") + " WHERE " + cond, nil
}

package ast

// Field returns a root member accessing the named property of the subject.
func Field(name string) *Member {
	return &Member{Name: name, Root: true}
}

// Captured returns a non-root member whose value is produced by eval when the
// tree is translated.
func Captured(name string, eval func() (any, error)) *Member {
	return &Member{Name: name, Eval: eval}
}

// CapturedValue returns a non-root member that evaluates to the current value
// behind ptr each time the tree is translated.
func CapturedValue[T any](name string, ptr *T) *Member {
	return Captured(name, func() (any, error) { return *ptr, nil })
}

// Value returns a constant node.
func Value(v any) *Constant {
	return &Constant{Value: v}
}

// New returns a Binary node.
func New(op Op, left, right Node) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

func Eq(left, right Node) *Binary { return New(Equal, left, right) }
func Ne(left, right Node) *Binary { return New(NotEqual, left, right) }
func Lt(left, right Node) *Binary { return New(LessThan, left, right) }
func Le(left, right Node) *Binary { return New(LessOrEqual, left, right) }
func Gt(left, right Node) *Binary { return New(GreaterThan, left, right) }
func Ge(left, right Node) *Binary { return New(GreaterOrEqual, left, right) }

// Both groups left and right as a parenthesised conjunction (And).
func Both(left, right Node) *Binary { return New(And, left, right) }

// Either groups left and right as a parenthesised disjunction (Or).
func Either(left, right Node) *Binary { return New(Or, left, right) }

// All chains the nodes with AndAlso. The conditions are joined with AND
// without parentheses. All returns nil when no node is given.
func All(nodes ...Node) Node {
	var out Node
	for _, n := range nodes {
		if out == nil {
			out = n
			continue
		}
		out = New(AndAlso, out, n)
	}
	return out
}

// Any chains the nodes with OrElse.
func Any(nodes ...Node) Node {
	var out Node
	for _, n := range nodes {
		if out == nil {
			out = n
			continue
		}
		out = New(OrElse, out, n)
	}
	return out
}

// Default returns a Coalesce node: the value of left, or right when left is
// null. It is meant to be used as the left operand of a comparison.
func Default(left, right Node) *Binary { return New(Coalesce, left, right) }

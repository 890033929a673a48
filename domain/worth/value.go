package worth

import (
	"strconv"
	"strings"
)

// Value is the result of evaluating a worth expression: either a scalar or a
// tuple of values compared lexicographically.
type Value struct {
	scalar float64
	tuple  []Value
	isTup  bool
}

// Scalar wraps a number.
func Scalar(x float64) Value {
	return Value{scalar: x}
}

// Tuple builds a lexicographic tuple.
func Tuple(elems ...Value) Value {
	out := make([]Value, len(elems))
	copy(out, elems)
	return Value{tuple: out, isTup: true}
}

// IsTuple reports whether the value is a tuple.
func (v Value) IsTuple() bool {
	return v.isTup
}

// Float returns the scalar and true, or 0 and false for a tuple.
func (v Value) Float() (float64, bool) {
	if v.isTup {
		return 0, false
	}
	return v.scalar, true
}

// Elems returns the tuple components, or nil for a scalar.
func (v Value) Elems() []Value {
	if !v.isTup {
		return nil
	}
	out := make([]Value, len(v.tuple))
	copy(out, v.tuple)
	return out
}

func (v Value) String() string {
	if !v.isTup {
		return strconv.FormatFloat(v.scalar, 'g', -1, 64)
	}
	parts := make([]string, len(v.tuple))
	for i, e := range v.tuple {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Compare returns -1, 0 or +1 as a is worth less than, the same as, or more
// than b. Scalars compare numerically. Tuples compare element by element and
// a proper prefix is smaller. A scalar is smaller than any tuple; a single
// expression never produces both, so this only fixes a total order.
func Compare(a, b Value) int {
	switch {
	case !a.isTup && !b.isTup:
		switch {
		case a.scalar < b.scalar:
			return -1
		case a.scalar > b.scalar:
			return 1
		default:
			return 0
		}
	case !a.isTup:
		return -1
	case !b.isTup:
		return 1
	}

	n := min(len(a.tuple), len(b.tuple))
	for i := 0; i < n; i++ {
		if c := Compare(a.tuple[i], b.tuple[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a.tuple) < len(b.tuple):
		return -1
	case len(a.tuple) > len(b.tuple):
		return 1
	default:
		return 0
	}
}

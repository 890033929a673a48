package mdp

import (
	"cmp"
	"fmt"
)

// Compare orders state or action identifiers for deterministic recording.
//
// Values of the same built-in string, integer or float kind compare by
// value. Anything else, including identifiers of mixed kinds behind an
// interface, compares by type name and then by its %#v rendering, so
// pointer identifiers have no stable order across runs.
func Compare(a, b any) int {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case int32:
		if y, ok := b.(int32); ok {
			return cmp.Compare(x, y)
		}
	case uint:
		if y, ok := b.(uint); ok {
			return cmp.Compare(x, y)
		}
	case uint64:
		if y, ok := b.(uint64); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	}
	if c := cmp.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b)); c != 0 {
		return c
	}
	return cmp.Compare(fmt.Sprintf("%#v", a), fmt.Sprintf("%#v", b))
}

func compareTransitions[S, A comparable](x, y Transition[S, A]) int {
	if c := Compare(x.From, y.From); c != 0 {
		return c
	}
	if c := Compare(x.Action, y.Action); c != 0 {
		return c
	}
	return Compare(x.To, y.To)
}

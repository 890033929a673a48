// Package frontier provides sets of reward vectors and the set algebra used
// by Pareto value iteration: union, scalar multiplication, Minkowski sum and
// worth-maximal reduction.
package frontier

import (
	"strings"

	"github.com/felixgeelhaar/pareto-mdp/domain/reward"
	"github.com/felixgeelhaar/pareto-mdp/domain/worth"
)

// Set is a set of distinct reward vectors kept in insertion order.
// Two vectors are the same member when they are exactly equal.
//
// Sets are values: every operation returns a new set and never modifies its
// inputs.
type Set struct {
	vecs []reward.Vector
	keys map[string]struct{}
}

// Of builds a set from vectors, dropping duplicates.
func Of(vs ...reward.Vector) Set {
	var s Set
	for _, v := range vs {
		s.insert(v)
	}
	return s
}

// Zero returns the singleton set holding the k-dimensional zero vector.
func Zero(k int) Set {
	return Of(reward.Zero(k))
}

func (s *Set) insert(v reward.Vector) {
	if s.keys == nil {
		s.keys = make(map[string]struct{})
	}
	k := v.Key()
	if _, ok := s.keys[k]; ok {
		return
	}
	s.keys[k] = struct{}{}
	cp := make(reward.Vector, len(v))
	copy(cp, v)
	s.vecs = append(s.vecs, cp)
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s.vecs)
}

// IsEmpty reports whether the set has no members.
func (s Set) IsEmpty() bool {
	return len(s.vecs) == 0
}

// Vectors returns a copy of the members in insertion order.
func (s Set) Vectors() []reward.Vector {
	out := make([]reward.Vector, len(s.vecs))
	for i, v := range s.vecs {
		cp := make(reward.Vector, len(v))
		copy(cp, v)
		out[i] = cp
	}
	return out
}

// Contains reports whether v is a member.
func (s Set) Contains(v reward.Vector) bool {
	_, ok := s.keys[v.Key()]
	return ok
}

func (s Set) String() string {
	parts := make([]string, len(s.vecs))
	for i, v := range s.vecs {
		parts[i] = v.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Union returns every vector that is a member of any of the sets.
func Union(sets ...Set) Set {
	var out Set
	for _, s := range sets {
		for _, v := range s.vecs {
			out.insert(v)
		}
	}
	return out
}

// Scale multiplies every member by c.
func Scale(c float64, s Set) Set {
	var out Set
	for _, v := range s.vecs {
		out.insert(v.Scale(c))
	}
	return out
}

// Translate adds v to every member. It is the Minkowski sum with {v}.
func Translate(v reward.Vector, s Set) Set {
	var out Set
	for _, m := range s.vecs {
		out.insert(v.Add(m))
	}
	return out
}

// Sum returns the Minkowski sum: every combination of one member from each
// set, added component-wise. The sum of no sets is the empty set, and any
// empty operand makes the result empty.
func Sum(sets ...Set) Set {
	if len(sets) == 0 {
		return Set{}
	}
	acc := Union(sets[0])
	for _, s := range sets[1:] {
		var next Set
		for _, a := range acc.vecs {
			for _, b := range s.vecs {
				next.insert(a.Add(b))
			}
		}
		acc = next
	}
	return acc
}

// Maximal returns the members whose worth is not strictly below the worth of
// any other member. Worth-tied maxima are all kept.
func Maximal(e worth.Expr, s Set) (Set, error) {
	if s.IsEmpty() {
		return Set{}, nil
	}

	values := make([]worth.Value, len(s.vecs))
	best := 0
	for i, v := range s.vecs {
		w, err := worth.Evaluate(e, v)
		if err != nil {
			return Set{}, err
		}
		values[i] = w
		if worth.Compare(w, values[best]) > 0 {
			best = i
		}
	}

	var out Set
	for i, v := range s.vecs {
		if worth.Compare(values[i], values[best]) == 0 {
			out.insert(v)
		}
	}
	return out, nil
}

// Intersects reports whether the sets share a member.
func Intersects(a, b Set) bool {
	if a.Len() > b.Len() {
		a, b = b, a
	}
	for _, v := range a.vecs {
		if b.Contains(v) {
			return true
		}
	}
	return false
}

// Equal reports whether the sets hold exactly the same members.
func Equal(a, b Set) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, v := range a.vecs {
		if !b.Contains(v) {
			return false
		}
	}
	return true
}

// Within reports whether the sets have the same size and every member of
// each lies within tol (largest component difference) of a member of the
// other. A zero tolerance is Equal.
func Within(a, b Set, tol float64) bool {
	if tol <= 0 {
		return Equal(a, b)
	}
	if a.Len() != b.Len() {
		return false
	}
	return covered(a, b, tol) && covered(b, a, tol)
}

func covered(a, b Set, tol float64) bool {
	for _, v := range a.vecs {
		found := false
		for _, u := range b.vecs {
			if v.Distance(u) <= tol {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

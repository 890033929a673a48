// Package reward provides reward vectors and vector-valued reward functions.
package reward

import (
	"math"
	"strconv"
	"strings"
)

// Vector is a fixed-dimension reward outcome. Vectors are treated as values:
// every operation returns a new vector.
type Vector []float64

// Zero returns the all-zero vector of dimension k.
func Zero(k int) Vector {
	return make(Vector, k)
}

// Add returns the component-wise sum. The result has the shorter dimension
// when the operands differ.
func (v Vector) Add(o Vector) Vector {
	n := min(len(v), len(o))
	out := make(Vector, n)
	for i := 0; i < n; i++ {
		out[i] = v[i] + o[i]
	}
	return out
}

// Scale returns c·v.
func (v Vector) Scale(c float64) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = c * x
	}
	return out
}

// Equal reports exact component-wise equality.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// Distance returns the largest absolute component difference, or +Inf when
// the dimensions differ.
func (v Vector) Distance(o Vector) float64 {
	if len(v) != len(o) {
		return math.Inf(1)
	}
	d := 0.0
	for i := range v {
		d = math.Max(d, math.Abs(v[i]-o[i]))
	}
	return d
}

// Key returns a string that identifies the vector exactly. Negative zero
// and zero share a key.
func (v Vector) Key() string {
	var b strings.Builder
	for i, x := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		if x == 0 {
			x = 0
		}
		b.WriteString(strconv.FormatUint(math.Float64bits(x), 16))
	}
	return b.String()
}

func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', 6, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Func maps a state to its immediate reward vector.
type Func[S any] func(S) Vector

// Combine builds a vector reward function whose k-th component is fs[k].
func Combine[S any](fs ...func(S) float64) Func[S] {
	return func(s S) Vector {
		out := make(Vector, len(fs))
		for i, f := range fs {
			out[i] = f(s)
		}
		return out
	}
}

// Indicator returns 1 for the target state and 0 everywhere else.
func Indicator[S comparable](target S) func(S) float64 {
	return func(s S) float64 {
		if s == target {
			return 1
		}
		return 0
	}
}

// Constant returns the same scalar reward for every state.
func Constant[S any](c float64) func(S) float64 {
	return func(S) float64 { return c }
}

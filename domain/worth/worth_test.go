package worth

import (
	"errors"
	"math"
	"testing"

	"github.com/felixgeelhaar/pareto-mdp/domain/mdp"
	"github.com/felixgeelhaar/pareto-mdp/domain/reward"
)

func mustScalar(t *testing.T, e Expr, r reward.Vector) float64 {
	t.Helper()

	v, err := Evaluate(e, r)
	if err != nil {
		t.Fatalf("Evaluate(%s) error = %v", e, err)
	}
	x, ok := v.Float()
	if !ok {
		t.Fatalf("Evaluate(%s) = %s, want a scalar", e, v)
	}
	return x
}

func TestEvaluate_Scalar(t *testing.T) {
	t.Parallel()

	r := reward.Vector{5, 3}

	tests := []struct {
		name string
		expr Expr
		want float64
	}{
		{"identifier", ID(1), 3},
		{"constant", Num(7.5), 7.5},
		{"negate", Neg(ID(0)), -5},
		{"add", Plus(ID(0), ID(1)), 8},
		{"multiply", Times(ID(0), Num(2)), 10},
		{"gt satisfied", Gt(Num(10), Num(8)), 0},
		{"gt equal", Gt(Num(0), Num(0)), -StrictMargin},
		{"gte equal", Gte(Num(0), Num(0)), 0},
		{"gte unsatisfied", Gte(Num(-2), Num(0)), -math.Sqrt2},
		{"gt unsatisfied", Gt(Num(-2), Num(0)), -math.Sqrt2 - StrictMargin},
		{"lt sugar", Lt(ID(1), ID(0)), 0},
		{"lte sugar", Lte(ID(0), ID(1)), -2 / math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := mustScalar(t, tt.expr, r)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Evaluate(%s) = %g, want %g", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluate_StrictBelowWeak(t *testing.T) {
	t.Parallel()

	for _, gap := range []float64{0, 0.5, 3} {
		r := reward.Vector{0, gap}
		strict := mustScalar(t, Gt(ID(0), ID(1)), r)
		weak := mustScalar(t, Gte(ID(0), ID(1)), r)
		if strict >= weak {
			t.Errorf("gap %g: gt = %g, gte = %g, want gt < gte", gap, strict, weak)
		}
	}

	equal := mustScalar(t, Gt(ID(0), ID(1)), reward.Vector{1, 1})
	above := mustScalar(t, Gt(ID(0), ID(1)), reward.Vector{1 + 1e-9, 1})
	if !(above > equal) {
		t.Errorf("gt on a marginal win = %g, want more than gt on equality (%g)", above, equal)
	}
}

func TestEvaluate_Lexicographic(t *testing.T) {
	t.Parallel()

	v, err := Evaluate(Lex(ID(0), ID(1)), reward.Vector{5, 3})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	want := Tuple(Scalar(5), Scalar(3))
	if Compare(v, want) != 0 {
		t.Errorf("Evaluate(lex) = %s, want %s", v, want)
	}
	if !v.IsTuple() || len(v.Elems()) != 2 {
		t.Errorf("Evaluate(lex) = %s, want a 2-tuple", v)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	t.Parallel()

	expr := Lex(Gt(ID(0), Num(0)), Neg(ID(1)), Times(Plus(ID(0), ID(1)), Num(.5)))
	r := reward.Vector{0.25, 4}

	first, err := Evaluate(expr, r)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Evaluate(expr, r)
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		if Compare(first, again) != 0 || first.String() != again.String() {
			t.Fatalf("Evaluate() = %s on run %d, want %s", again, i, first)
		}
	}
	if !r.Equal(reward.Vector{0.25, 4}) {
		t.Errorf("Evaluate() mutated its input: %v", r)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr Expr
		want error
	}{
		{"index past dimension", ID(5), mdp.ErrConfiguration},
		{"tuple under arithmetic", Neg(Lex(ID(0))), mdp.ErrConfiguration},
		{"tuple under comparison", Gt(Lex(ID(0)), Num(0)), mdp.ErrConfiguration},
		{"nil expression", nil, mdp.ErrValidation},
		{"nil child", Plus(ID(0), nil), mdp.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Evaluate(tt.expr, reward.Vector{1, 2})
			if !errors.Is(err, tt.want) {
				t.Errorf("Evaluate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr Expr
		dim  int
		want error
	}{
		{"valid", Lex(Gt(ID(0), Num(0)), Neg(ID(1))), 2, nil},
		{"index past dimension", ID(5), 2, mdp.ErrConfiguration},
		{"negative index", Neg(ID(-1)), 2, mdp.ErrValidation},
		{"nested lex is fine", Lex(Lex(ID(0)), ID(1)), 2, nil},
		{"tuple operand", Plus(Lex(ID(0)), ID(1)), 2, mdp.ErrConfiguration},
		{"nil", nil, 2, mdp.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.expr, tt.dim)
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"scalar less", Scalar(1), Scalar(2), -1},
		{"scalar equal", Scalar(2), Scalar(2), 0},
		{"scalar greater", Scalar(3), Scalar(2), 1},
		{"first component dominates", Tuple(Scalar(0), Scalar(-9)), Tuple(Scalar(-0.1), Scalar(0)), 1},
		{"second component breaks tie", Tuple(Scalar(0), Scalar(-1)), Tuple(Scalar(0), Scalar(-2)), 1},
		{"equal tuples", Tuple(Scalar(1), Scalar(1)), Tuple(Scalar(1), Scalar(1)), 0},
		{"prefix is smaller", Tuple(Scalar(1)), Tuple(Scalar(1), Scalar(0)), -1},
		{"nested", Tuple(Tuple(Scalar(1)), Scalar(0)), Tuple(Tuple(Scalar(2)), Scalar(0)), -1},
		{"scalar below tuple", Scalar(100), Tuple(), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := Compare(tt.b, tt.a); got != -tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestBetterAndTied(t *testing.T) {
	t.Parallel()

	expr := Lex(Gt(ID(0), Num(0)), Neg(ID(1)))

	better, err := Better(expr, reward.Vector{1, 0.5}, reward.Vector{0, 0})
	if err != nil {
		t.Fatalf("Better() error = %v", err)
	}
	if !better {
		t.Error("reaching the goal should beat avoiding the wall")
	}

	tied, err := Tied(expr, reward.Vector{2, 1}, reward.Vector{1, 1})
	if err != nil {
		t.Fatalf("Tied() error = %v", err)
	}
	if !tied {
		t.Error("vectors that both satisfy the goal with equal wall cost should tie")
	}

	if _, err := Better(ID(3), reward.Vector{1}, reward.Vector{2}); !errors.Is(err, mdp.ErrConfiguration) {
		t.Errorf("Better() error = %v, want ErrConfiguration", err)
	}
}

func TestExpr_String(t *testing.T) {
	t.Parallel()

	expr := Lex(Gt(ID(0), Num(0)), Neg(ID(1)))
	want := "lex(gt(id(0), 0), neg(id(1)))"
	if got := expr.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

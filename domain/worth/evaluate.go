package worth

import (
	"fmt"
	"math"

	"github.com/felixgeelhaar/pareto-mdp/domain/mdp"
	"github.com/felixgeelhaar/pareto-mdp/domain/reward"
)

// StrictMargin is the extra penalty an unsatisfied GreaterThan carries over
// the matching GreaterEqual.
const StrictMargin = 0.1

// Evaluate computes the worth of a reward vector.
//
// It returns mdp.ErrConfiguration when an Identifier indexes past the vector
// or an arithmetic node receives a tuple operand.
func Evaluate(e Expr, r reward.Vector) (Value, error) {
	switch n := e.(type) {
	case Identifier:
		if n.Index < 0 || n.Index >= len(r) {
			return Value{}, fmt.Errorf("%w: %s on a %d-component reward", mdp.ErrConfiguration, n, len(r))
		}
		return Scalar(r[n.Index]), nil

	case Constant:
		return Scalar(n.N), nil

	case Negate:
		x, err := scalar(n.X, r, n)
		if err != nil {
			return Value{}, err
		}
		return Scalar(-x), nil

	case Add:
		l, rr, err := operands(n.L, n.R, r, n)
		if err != nil {
			return Value{}, err
		}
		return Scalar(l + rr), nil

	case Multiply:
		l, rr, err := operands(n.L, n.R, r, n)
		if err != nil {
			return Value{}, err
		}
		return Scalar(l * rr), nil

	case GreaterEqual:
		l, rr, err := operands(n.L, n.R, r, n)
		if err != nil {
			return Value{}, err
		}
		if l >= rr {
			return Scalar(0), nil
		}
		return Scalar(-math.Abs(l-rr) / math.Sqrt2), nil

	case GreaterThan:
		l, rr, err := operands(n.L, n.R, r, n)
		if err != nil {
			return Value{}, err
		}
		if l > rr {
			return Scalar(0), nil
		}
		return Scalar(-math.Abs(l-rr)/math.Sqrt2 - StrictMargin), nil

	case Lexicographic:
		elems := make([]Value, len(n.Terms))
		for i, t := range n.Terms {
			v, err := Evaluate(t, r)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return Value{tuple: elems, isTup: true}, nil

	case nil:
		return Value{}, fmt.Errorf("%w: nil expression", mdp.ErrValidation)

	default:
		return Value{}, fmt.Errorf("%w: unknown expression %T", mdp.ErrValidation, e)
	}
}

func scalar(e Expr, r reward.Vector, parent Expr) (float64, error) {
	v, err := Evaluate(e, r)
	if err != nil {
		return 0, err
	}
	x, ok := v.Float()
	if !ok {
		return 0, fmt.Errorf("%w: %s needs scalar operands, got tuple %s", mdp.ErrConfiguration, parent, v)
	}
	return x, nil
}

func operands(l, r Expr, vec reward.Vector, parent Expr) (float64, float64, error) {
	lv, err := scalar(l, vec, parent)
	if err != nil {
		return 0, 0, err
	}
	rv, err := scalar(r, vec, parent)
	if err != nil {
		return 0, 0, err
	}
	return lv, rv, nil
}

// Validate checks an expression against a reward dimension without
// evaluating it. Negative indexes and nil nodes are mdp.ErrValidation;
// indexes past dim and tuples under arithmetic are mdp.ErrConfiguration.
func Validate(e Expr, dim int) error {
	_, err := check(e, dim)
	return err
}

// check returns whether the node yields a tuple.
func check(e Expr, dim int) (bool, error) {
	switch n := e.(type) {
	case Identifier:
		if n.Index < 0 {
			return false, fmt.Errorf("%w: %s has a negative index", mdp.ErrValidation, n)
		}
		if n.Index >= dim {
			return false, fmt.Errorf("%w: %s on a %d-component reward", mdp.ErrConfiguration, n, dim)
		}
		return false, nil
	case Constant:
		return false, nil
	case Negate:
		return false, checkScalar(n, dim, n.X)
	case Add:
		return false, checkScalar(n, dim, n.L, n.R)
	case Multiply:
		return false, checkScalar(n, dim, n.L, n.R)
	case GreaterEqual:
		return false, checkScalar(n, dim, n.L, n.R)
	case GreaterThan:
		return false, checkScalar(n, dim, n.L, n.R)
	case Lexicographic:
		for _, t := range n.Terms {
			if _, err := check(t, dim); err != nil {
				return false, err
			}
		}
		return true, nil
	case nil:
		return false, fmt.Errorf("%w: nil expression", mdp.ErrValidation)
	default:
		return false, fmt.Errorf("%w: unknown expression %T", mdp.ErrValidation, e)
	}
}

func checkScalar(parent Expr, dim int, children ...Expr) error {
	for _, c := range children {
		tuple, err := check(c, dim)
		if err != nil {
			return err
		}
		if tuple {
			return fmt.Errorf("%w: %s needs scalar operands, got %s", mdp.ErrConfiguration, parent, c)
		}
	}
	return nil
}

// Better reports whether a is worth strictly more than b under e.
func Better(e Expr, a, b reward.Vector) (bool, error) {
	c, err := compareVectors(e, a, b)
	return c > 0, err
}

// Tied reports whether neither of a and b is worth strictly more.
func Tied(e Expr, a, b reward.Vector) (bool, error) {
	c, err := compareVectors(e, a, b)
	return c == 0, err
}

func compareVectors(e Expr, a, b reward.Vector) (int, error) {
	av, err := Evaluate(e, a)
	if err != nil {
		return 0, err
	}
	bv, err := Evaluate(e, b)
	if err != nil {
		return 0, err
	}
	return Compare(av, bv), nil
}

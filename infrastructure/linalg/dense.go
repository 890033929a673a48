// Package linalg provides a gonum-backed implementation of linalg.Solver.
package linalg

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/felixgeelhaar/pareto-mdp/domain/linalg"
)

// Dense solves square systems with an LU factorization.
type Dense struct{}

// NewDense creates a dense solver.
func NewDense() *Dense {
	return &Dense{}
}

// Solve implements linalg.Solver.
func (d *Dense) Solve(a, b [][]float64) ([][]float64, error) {
	n := len(a)
	if len(b) != n {
		return nil, fmt.Errorf("%w: %d-row system with %d-row right-hand side", linalg.ErrDimension, n, len(b))
	}
	if n == 0 {
		return [][]float64{}, nil
	}
	k := len(b[0])
	if k == 0 {
		out := make([][]float64, n)
		for i := range out {
			out[i] = []float64{}
		}
		return out, nil
	}

	am := mat.NewDense(n, n, nil)
	for i, row := range a {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d of A has %d columns, want %d", linalg.ErrDimension, i, len(row), n)
		}
		am.SetRow(i, row)
	}
	bm := mat.NewDense(n, k, nil)
	for i, row := range b {
		if len(row) != k {
			return nil, fmt.Errorf("%w: row %d of B has %d columns, want %d", linalg.ErrDimension, i, len(row), k)
		}
		bm.SetRow(i, row)
	}

	var x mat.Dense
	if err := x.Solve(am, bm); err != nil {
		var cond mat.Condition
		if errors.Is(err, mat.ErrSingular) || errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: %v", linalg.ErrSingular, err)
		}
		return nil, err
	}

	out := make([][]float64, n)
	for i := range out {
		out[i] = mat.Row(nil, i, &x)
	}
	return out, nil
}

var _ linalg.Solver = (*Dense)(nil)

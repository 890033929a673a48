// Package linalg defines the dense linear-system seam used by exact policy
// evaluation.
package linalg

import "errors"

// Domain errors for linear solves.
var (
	// ErrSingular indicates the system has no unique, well-conditioned solution.
	ErrSingular = errors.New("singular system")

	// ErrDimension indicates the operands have incompatible shapes.
	ErrDimension = errors.New("dimension mismatch")
)

// Solver solves A·X = B for X, where A is n×n and B is n×k. Matrices are
// row-major slices of rows.
type Solver interface {
	Solve(a, b [][]float64) ([][]float64, error)
}

// SolverFunc adapts a function to Solver.
type SolverFunc func(a, b [][]float64) ([][]float64, error)

// Solve implements Solver.
func (f SolverFunc) Solve(a, b [][]float64) ([][]float64, error) {
	return f(a, b)
}

// Identity returns the n×n identity matrix.
func Identity(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}

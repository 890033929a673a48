package application

import (
	"context"
	"slices"
	"testing"

	"github.com/felixgeelhaar/pareto-mdp/domain/mdp"
	"github.com/felixgeelhaar/pareto-mdp/domain/reward"
	"github.com/felixgeelhaar/pareto-mdp/domain/worth"
)

// Three equally good actions from s: the tie-break must not depend on how
// the bulk map happened to iterate.
func tiedBulkModel(t *testing.T) *mdp.Model[string, string] {
	t.Helper()

	m, err := mdp.NewModelFrom(map[mdp.Transition[string, string]]float64{
		{From: "s", Action: "c", To: "t"}:    1,
		{From: "s", Action: "a", To: "t"}:    1,
		{From: "s", Action: "b", To: "t"}:    1,
		{From: "t", Action: "stay", To: "t"}: 1,
	})
	if err != nil {
		t.Fatalf("NewModelFrom() error = %v", err)
	}
	return m
}

func TestSolvers_BulkModelTieBreakIsReproducible(t *testing.T) {
	t.Parallel()

	rf := reward.Combine(reward.Constant[string](0))
	expr := worth.ID(0)

	vi, err := NewValueIterator[string, string](WithSweeps(3))
	if err != nil {
		t.Fatalf("NewValueIterator() error = %v", err)
	}
	pi, err := NewPolicyIterator[string, string]()
	if err != nil {
		t.Fatalf("NewPolicyIterator() error = %v", err)
	}

	for i := 0; i < 100; i++ {
		m := tiedBulkModel(t)

		vsol, err := vi.Solve(context.Background(), m, rf, expr)
		if err != nil {
			t.Fatalf("value iteration: Solve() error = %v", err)
		}
		if got := vsol.Policy("s"); !slices.Equal(got, []string{"a", "b", "c"}) {
			t.Fatalf("solve %d: value iteration Policy(s) = %v, want [a b c]", i, got)
		}

		psol, err := pi.Solve(context.Background(), m, rf, expr)
		if err != nil {
			t.Fatalf("policy iteration: Solve() error = %v", err)
		}
		if got, _ := psol.Policy("s"); got != "a" {
			t.Fatalf("solve %d: policy iteration Policy(s) = %q, want a", i, got)
		}
	}
}

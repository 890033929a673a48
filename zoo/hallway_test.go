package zoo

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/felixgeelhaar/pareto-mdp/application"
	"github.com/felixgeelhaar/pareto-mdp/domain/mdp"
	"github.com/felixgeelhaar/pareto-mdp/domain/reward"
)

func TestHallway_Structure(t *testing.T) {
	t.Parallel()

	s, err := Hallway(3, 0.25)
	if err != nil {
		t.Fatalf("Hallway() error = %v", err)
	}
	m := s.Model

	if err := m.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	wantStates := []any{Start, Wall, Goal, Done, 0, 1, 3, 2}
	if got := m.States(); !slices.Equal(got, wantStates) {
		t.Errorf("States() = %v, want %v", got, wantStates)
	}
	if got := m.Actions(Start); !slices.Equal(got, []string{Sit, Forward, Detour}) {
		t.Errorf("Actions(start) = %v", got)
	}
	if got := m.Probability(0, Forward, Wall); got != 0.25 {
		t.Errorf("Probability(0, a, wall) = %g, want 0.25", got)
	}
	if got := m.Probability(0, Forward, 1); got != 0.75 {
		t.Errorf("Probability(0, a, 1) = %g, want 0.75", got)
	}
	if got := m.Probability(3, Forward, Goal); got != 1 {
		t.Errorf("Probability(3, a, goal) = %g, want 1", got)
	}
	if got := m.Actions(Goal); !slices.Equal(got, []string{Forward}) {
		t.Errorf("Actions(goal) = %v", got)
	}
}

func TestTwoWayHallway_Structure(t *testing.T) {
	t.Parallel()

	s, err := TwoWayHallway(2, 0.5)
	if err != nil {
		t.Fatalf("TwoWayHallway() error = %v", err)
	}
	m := s.Model

	tests := []struct {
		state any
		want  []string
	}{
		{Start, []string{Sit, Forward, Detour}},
		{Wall, []string{Back, Forward}},
		{Goal, []string{Back, Forward, Return}},
		{0, []string{Return, Forward}},
		{1, []string{Back, Forward}},
		{2, []string{Forward, Back}},
	}
	for _, tt := range tests {
		if got := m.Actions(tt.state); !slices.Equal(got, tt.want) {
			t.Errorf("Actions(%v) = %v, want %v", tt.state, got, tt.want)
		}
	}
	if m.HasState(Done) {
		t.Error("the two-way hallway has no done state")
	}
}

func TestHallway_InvalidParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int
		p    float64
	}{
		{"empty corridor", 0, 0.5},
		{"negative probability", 3, -0.1},
		{"probability above one", 3, 1.5},
		{"nan", 3, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, build := range []func(int, float64) (*Scenario, error){Hallway, TwoWayHallway, PolicyHallway} {
				if _, err := build(tt.n, tt.p); !errors.Is(err, mdp.ErrValidation) {
					t.Errorf("error = %v, want ErrValidation", err)
				}
			}
		})
	}
}

func TestHallwayReward(t *testing.T) {
	t.Parallel()

	rf := HallwayReward()
	tests := []struct {
		state any
		want  reward.Vector
	}{
		{Goal, reward.Vector{1, 0, 0}},
		{Wall, reward.Vector{0, 1, 0}},
		{Start, reward.Vector{0, 0, 1}},
		{0, reward.Vector{0, 0, 0}},
		{Done, reward.Vector{0, 0, 0}},
	}
	for _, tt := range tests {
		if got := rf(tt.state); !got.Equal(tt.want) {
			t.Errorf("reward(%v) = %v, want %v", tt.state, got, tt.want)
		}
	}
	if got := HallwayWorth().String(); got != "lex(gt(id(0), 0), neg(id(1)))" {
		t.Errorf("HallwayWorth() = %s", got)
	}
}

func TestHallway_ValueIteration(t *testing.T) {
	t.Parallel()

	s, err := Hallway(5, 0.3)
	if err != nil {
		t.Fatalf("Hallway() error = %v", err)
	}
	vi, err := application.NewValueIterator[any, string]()
	if err != nil {
		t.Fatalf("NewValueIterator() error = %v", err)
	}
	sol, err := vi.Solve(context.Background(), s.Model, s.Reward, s.Worth)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	// Sitting once more always postpones the wall while the discounted goal
	// stays positive within a finite sweep budget.
	if got := sol.Policy(Start); !slices.Equal(got, []string{Sit}) {
		t.Errorf("Policy(start) = %v, want [sit]", got)
	}
	for k := 0; k <= 5; k++ {
		if got := sol.Policy(k); !slices.Equal(got, []string{Forward}) {
			t.Errorf("Policy(%d) = %v, want [a]", k, got)
		}
	}
}

func TestTwoWayHallway_ValueIteration(t *testing.T) {
	t.Parallel()

	s, err := TwoWayHallway(3, 0.2)
	if err != nil {
		t.Fatalf("TwoWayHallway() error = %v", err)
	}
	vi, err := application.NewValueIterator[any, string](application.WithSweeps(40), application.WithWorkers(3))
	if err != nil {
		t.Fatalf("NewValueIterator() error = %v", err)
	}
	sol, err := vi.Solve(context.Background(), s.Model, s.Reward, s.Worth)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	for _, st := range s.Model.States() {
		if len(sol.Policy(st)) == 0 {
			t.Errorf("Policy(%v) is empty, every two-way state has a move", st)
		}
	}
}

func TestPolicyHallway(t *testing.T) {
	t.Parallel()

	s, err := PolicyHallway(5, 0.3)
	if err != nil {
		t.Fatalf("PolicyHallway() error = %v", err)
	}
	pi, err := application.NewPolicyIterator[any, string]()
	if err != nil {
		t.Fatalf("NewPolicyIterator() error = %v", err)
	}
	sol, err := pi.Solve(context.Background(), s.Model, s.Reward, s.Worth)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	if got, ok := sol.Policy(Start); !ok || got != Detour {
		t.Errorf("Policy(start) = %q, %v, want the detour b", got, ok)
	}
	if !sol.Stable() || sol.Rounds() != 2 {
		t.Errorf("Stable() = %v, Rounds() = %d, want stable after 2", sol.Stable(), sol.Rounds())
	}
	if got := sol.Value(Goal); got.Distance(reward.Vector{1, 0}) > 1e-9 {
		t.Errorf("Value(goal) = %v, want (1, 0)", got)
	}
}

func TestPolicyHallway_LexicographicWorthNeverSettles(t *testing.T) {
	t.Parallel()

	s, err := PolicyHallway(5, 0.3)
	if err != nil {
		t.Fatalf("PolicyHallway() error = %v", err)
	}
	pi, err := application.NewPolicyIterator[any, string](application.WithMaxRounds(10))
	if err != nil {
		t.Fatalf("NewPolicyIterator() error = %v", err)
	}
	sol, err := pi.Solve(context.Background(), s.Model, s.Reward, HallwayWorth())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol.Stable() {
		t.Error("Stable() = true, want the round bound to end the solve")
	}
	if sol.Rounds() != 10 {
		t.Errorf("Rounds() = %d, want 10", sol.Rounds())
	}
}

// Package zoo provides ready-made scenarios for the solvers, chiefly
// variations of Littman's hallway.
//
// Hallway states mix named locations ("start", "wall", "goal", "done") with
// corridor cells numbered 0..n, so scenarios use any as the state type.
package zoo

import (
	"fmt"
	"math"

	"github.com/felixgeelhaar/pareto-mdp/domain/mdp"
	"github.com/felixgeelhaar/pareto-mdp/domain/reward"
	"github.com/felixgeelhaar/pareto-mdp/domain/worth"
)

// Named hallway locations.
const (
	Start = "start"
	Wall  = "wall"
	Goal  = "goal"
	Done  = "done"
)

// Hallway moves.
const (
	Sit     = "sit"
	Forward = "a"
	Detour  = "b"
	Back    = "z"
	Return  = "y"
)

// Scenario bundles a model with the reward and worth it is meant to be
// solved under.
type Scenario struct {
	Name   string
	Model  *mdp.Model[any, string]
	Reward reward.Func[any]
	Worth  worth.Expr
}

type builder struct {
	m   *mdp.Model[any, string]
	err error
}

func (b *builder) add(s any, a string, outs ...mdp.Outcome[any]) {
	if b.err != nil {
		return
	}
	b.err = b.m.AddOutcomes(s, a, outs...)
}

func to(s any, p float64) mdp.Outcome[any] {
	return mdp.Outcome[any]{To: s, Probability: p}
}

func checkHallway(n int, p float64) error {
	if n < 1 {
		return fmt.Errorf("%w: hallway length %d, want at least 1", mdp.ErrValidation, n)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: wall probability %g outside [0, 1]", mdp.ErrValidation, p)
	}
	return nil
}

// Hallway builds the one-way hallway. From start the agent may sit, walk
// straight into the wall (which leads on to the goal), or detour into a
// corridor of n+1 cells whose first cell hits the wall with probability p.
// The goal is collected once before the absorbing done state.
func Hallway(n int, p float64) (*Scenario, error) {
	if err := checkHallway(n, p); err != nil {
		return nil, err
	}

	b := &builder{m: mdp.NewModel[any, string]()}
	b.add(Start, Sit, to(Start, 1))
	b.add(Start, Forward, to(Wall, 1))
	b.add(Wall, Forward, to(Goal, 1))
	b.add(Goal, Forward, to(Done, 1))
	b.add(Done, Forward, to(Done, 1))
	b.add(Start, Detour, to(0, 1))
	b.add(0, Forward, to(Wall, p), to(1, 1-p))
	b.add(n, Forward, to(Goal, 1))
	for k := 1; k < n; k++ {
		b.add(k, Forward, to(k+1, 1))
	}
	if b.err != nil {
		return nil, b.err
	}

	return &Scenario{
		Name:   fmt.Sprintf("hallway(n=%d, p=%g)", n, p),
		Model:  b.m,
		Reward: HallwayReward(),
		Worth:  HallwayWorth(),
	}, nil
}

// TwoWayHallway builds the hallway with moves in both directions: z steps
// back along the corridor, y returns from the corridor to start or from the
// goal to the last cell, and the goal is absorbing under a.
func TwoWayHallway(n int, p float64) (*Scenario, error) {
	if err := checkHallway(n, p); err != nil {
		return nil, err
	}

	b := &builder{m: mdp.NewModel[any, string]()}
	b.add(Start, Sit, to(Start, 1))
	b.add(Start, Forward, to(Wall, 1))
	b.add(Wall, Back, to(Start, 1))
	b.add(Wall, Forward, to(Goal, 1))
	b.add(Goal, Back, to(Wall, 1))
	b.add(Goal, Forward, to(Goal, 1))
	b.add(Start, Detour, to(0, 1))
	b.add(0, Return, to(Start, 1))
	b.add(0, Forward, to(Wall, p), to(1, 1-p))
	b.add(1, Back, to(0, 1))
	b.add(n, Forward, to(Goal, 1))
	b.add(Goal, Return, to(n, 1))
	for k := 1; k < n; k++ {
		b.add(k, Forward, to(k+1, 1))
		b.add(k+1, Back, to(k, 1))
	}
	if b.err != nil {
		return nil, b.err
	}

	return &Scenario{
		Name:   fmt.Sprintf("two-way hallway(n=%d, p=%g)", n, p),
		Model:  b.m,
		Reward: HallwayReward(),
		Worth:  HallwayWorth(),
	}, nil
}

// PolicyHallway is the one-way hallway scored for policy iteration: a
// two-component (goal, wall) reward and the scalar worth goal - wall.
//
// Under HallwayWorth policy iteration alternates between sitting and the
// detour forever, because sitting once more always postpones the wall.
func PolicyHallway(n int, p float64) (*Scenario, error) {
	s, err := Hallway(n, p)
	if err != nil {
		return nil, err
	}
	s.Name = fmt.Sprintf("policy hallway(n=%d, p=%g)", n, p)
	s.Reward = reward.Combine(reward.Indicator[any](Goal), reward.Indicator[any](Wall))
	s.Worth = worth.Plus(worth.ID(0), worth.Neg(worth.ID(1)))
	return s, nil
}

// HallwayReward returns (1 at goal, 1 at wall, 1 at start).
func HallwayReward() reward.Func[any] {
	return reward.Combine(
		reward.Indicator[any](Goal),
		reward.Indicator[any](Wall),
		reward.Indicator[any](Start),
	)
}

// HallwayWorth reaches the goal first and touches the wall as little as
// possible second.
func HallwayWorth() worth.Expr {
	return worth.Lex(worth.Gt(worth.ID(0), worth.Num(0)), worth.Neg(worth.ID(1)))
}

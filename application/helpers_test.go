package application

import (
	"testing"

	"github.com/felixgeelhaar/pareto-mdp/domain/mdp"
	"github.com/felixgeelhaar/pareto-mdp/domain/reward"
	"github.com/felixgeelhaar/pareto-mdp/domain/worth"
)

// goalThenWall prefers any goal reward, then the smallest wall count.
var goalThenWall = worth.Lex(worth.Gt(worth.ID(0), worth.Num(0)), worth.Neg(worth.ID(1)))

// chainReward is (1 at goal, 1 at wall).
var chainReward = reward.Combine(reward.Indicator("goal"), reward.Indicator("wall"))

type outcome = mdp.Outcome[string]

func mustAdd(t *testing.T, m *mdp.Model[string, string], s, a string, outs ...outcome) {
	t.Helper()
	if err := m.AddOutcomes(s, a, outs...); err != nil {
		t.Fatalf("AddOutcomes(%s, %s) error = %v", s, a, err)
	}
}

// chainModel builds s0 -a-> {wall: p, s1: 1-p}, s0 -b-> wall, s1 -a-> goal,
// with goal and wall absorbing.
func chainModel(t *testing.T, p float64, safeFirst bool) *mdp.Model[string, string] {
	t.Helper()

	m := mdp.NewModel[string, string]()
	safe := func() { mustAdd(t, m, "s0", "a", outcome{To: "wall", Probability: p}, outcome{To: "s1", Probability: 1 - p}) }
	risky := func() { mustAdd(t, m, "s0", "b", outcome{To: "wall", Probability: 1}) }
	if safeFirst {
		safe()
		risky()
	} else {
		risky()
		safe()
	}
	mustAdd(t, m, "s1", "a", outcome{To: "goal", Probability: 1})
	mustAdd(t, m, "goal", "a", outcome{To: "goal", Probability: 1})
	mustAdd(t, m, "wall", "a", outcome{To: "wall", Probability: 1})
	return m
}

package application

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pareto-mdp/domain/config"
	"github.com/felixgeelhaar/pareto-mdp/domain/linalg"
	"github.com/felixgeelhaar/pareto-mdp/domain/mdp"
	"github.com/felixgeelhaar/pareto-mdp/domain/reward"
	"github.com/felixgeelhaar/pareto-mdp/domain/telemetry"
	"github.com/felixgeelhaar/pareto-mdp/domain/worth"
	"github.com/felixgeelhaar/pareto-mdp/infrastructure/logging"
	"github.com/felixgeelhaar/pareto-mdp/infrastructure/observability"
	"github.com/felixgeelhaar/pareto-mdp/infrastructure/statemachine"
)

const solverPolicyIteration = "policy_iteration"

// PolicyIterator finds a single deterministic policy by alternating exact
// evaluation and greedy improvement.
type PolicyIterator[S, A comparable] struct {
	config  Config
	metrics *observability.SolverMetrics
}

// NewPolicyIterator creates a policy iterator. Defaults are a discount of 0.8
// and at most 1000 rounds.
func NewPolicyIterator[S, A comparable](opts ...Option) (*PolicyIterator[S, A], error) {
	c, err := newConfig(config.DefaultPolicyGamma, true, opts)
	if err != nil {
		return nil, err
	}
	return &PolicyIterator[S, A]{
		config:  c,
		metrics: observability.NewSolverMetrics(c.Meter),
	}, nil
}

// Config returns the effective configuration.
func (pi *PolicyIterator[S, A]) Config() Config {
	return pi.config
}

// PolicySolution is the outcome of a policy-iteration solve.
type PolicySolution[S, A comparable] struct {
	id      string
	prob    *problem[S, A]
	choice  []int
	values  []reward.Vector
	rounds  int
	phase   statemachine.Phase
	history []statemachine.Phase
}

// ID returns the solve identifier carried in logs and spans.
func (s *PolicySolution[S, A]) ID() string {
	return s.id
}

// Policy returns the chosen action of state. It reports false for states
// without actions and states absent from the model.
func (s *PolicySolution[S, A]) Policy(state S) (A, bool) {
	var zero A
	i, ok := s.prob.index[state]
	if !ok || s.choice[i] < 0 {
		return zero, false
	}
	return s.prob.pairs[s.choice[i]].action, true
}

// Value returns the discounted reward vector of following the policy from
// state, or nil for states absent from the model.
func (s *PolicySolution[S, A]) Value(state S) reward.Vector {
	i, ok := s.prob.index[state]
	if !ok {
		return nil
	}
	return append(reward.Vector(nil), s.values[i]...)
}

// Rounds returns how many evaluate-improve rounds ran.
func (s *PolicySolution[S, A]) Rounds() int {
	return s.rounds
}

// Stable reports whether the last improvement changed no action. It is
// false when the round bound ended the solve.
func (s *PolicySolution[S, A]) Stable() bool {
	return s.phase == statemachine.PhaseStable
}

// History returns the lifecycle phases the solve passed through.
func (s *PolicySolution[S, A]) History() []statemachine.Phase {
	return append([]statemachine.Phase(nil), s.history...)
}

// Solve runs policy iteration on model. The initial policy takes the first
// registered action of every state; improvement keeps the earliest action
// among worth-tied candidates.
//
// Cancellation is observed between rounds.
func (pi *PolicyIterator[S, A]) Solve(ctx context.Context, model *mdp.Model[S, A], rf reward.Func[S], expr worth.Expr) (sol *PolicySolution[S, A], err error) {
	p, err := newProblem(model, rf, expr)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	start := time.Now()

	ctx, span := pi.config.Tracer.StartSpan(ctx, telemetry.SpanSolve,
		telemetry.WithAttributes(
			telemetry.String(telemetry.KeySolveID, id),
			telemetry.String(telemetry.KeySolver, solverPolicyIteration),
			telemetry.Int(telemetry.KeyStates, len(p.states)),
			telemetry.Float64(telemetry.KeyGamma, pi.config.Gamma),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(telemetry.StatusCodeError, err.Error())
		} else {
			span.SetStatus(telemetry.StatusCodeOK, "")
		}
		span.End()
		pi.metrics.RecordSolve(ctx, solverPolicyIteration, time.Since(start), err)
	}()

	lc, err := statemachine.NewLifecycle(id, pi.config.MaxRounds)
	if err != nil {
		return nil, err
	}
	lc.Start()
	defer lc.Stop()

	logging.Info().
		Add(logging.SolveID(id)).
		Add(logging.Solver(solverPolicyIteration)).
		Add(logging.StateCount(len(p.states))).
		Add(logging.Gamma(pi.config.Gamma)).
		Msg("policy iteration starting")

	choice := make([]int, len(p.states))
	for i, pairs := range p.byState {
		choice[i] = -1
		if len(pairs) > 0 {
			choice[i] = pairs[0]
		}
	}

	var values []reward.Vector
	rounds := 0
	for {
		if err := ctx.Err(); err != nil {
			lc.Fail(err)
			return nil, err
		}

		values, err = pi.evaluate(p, choice)
		if err != nil {
			lc.Fail(err)
			logging.Error().
				Add(logging.SolveID(id)).
				Add(logging.Round(lc.Round())).
				Add(logging.ErrorField(err)).
				Msg("policy evaluation failed")
			return nil, err
		}
		lc.Evaluated()
		logging.Trace().
			Add(logging.SolveID(id)).
			Add(logging.Round(lc.Round())).
			Add(logging.StateCount(len(values))).
			Msg("policy evaluated")

		improved, changed, err := pi.improve(p, values, choice)
		if err != nil {
			lc.Fail(err)
			return nil, err
		}
		choice = improved
		rounds++

		pi.metrics.RecordRound(ctx, id)
		span.AddEvent(telemetry.SpanRound,
			telemetry.Int(telemetry.KeyRound, rounds),
			telemetry.Int(telemetry.KeyChanged, changed),
		)
		logging.Debug().
			Add(logging.SolveID(id)).
			Add(logging.Round(rounds)).
			Add(logging.Changed(changed)).
			Msg("round finished")

		if !lc.Improved(changed) {
			break
		}
	}

	if lc.Phase() == statemachine.PhaseExhausted {
		logging.Warn().
			Add(logging.SolveID(id)).
			Add(logging.Round(rounds)).
			Msg("round bound reached before the policy settled")
		// The last improvement changed the policy; report its own value.
		if values, err = pi.evaluate(p, choice); err != nil {
			return nil, err
		}
	}

	span.SetAttributes(telemetry.Bool(telemetry.KeyConverged, lc.Phase() == statemachine.PhaseStable))
	logging.Info().
		Add(logging.SolveID(id)).
		Add(logging.Round(rounds)).
		Add(logging.Phase(string(lc.Phase()))).
		Add(logging.Duration(time.Since(start))).
		Msg("policy iteration finished")

	return &PolicySolution[S, A]{
		id:      id,
		prob:    p,
		choice:  choice,
		values:  values,
		rounds:  rounds,
		phase:   lc.Phase(),
		history: append([]statemachine.Phase(nil), lc.Context().History...),
	}, nil
}

// evaluate solves (I - γX)V = R, where X holds the transition probabilities
// of the chosen actions and R the reward matrix.
func (pi *PolicyIterator[S, A]) evaluate(p *problem[S, A], choice []int) ([]reward.Vector, error) {
	n := len(p.states)
	a := linalg.Identity(n)
	b := make([][]float64, n)
	for i := range p.states {
		b[i] = slices.Clone([]float64(p.rewards[i]))
		if choice[i] < 0 {
			continue
		}
		for _, br := range p.pairs[choice[i]].branches {
			a[i][br.to] -= pi.config.Gamma * br.p
		}
	}

	x, err := pi.config.LinearSolver.Solve(a, b)
	if err != nil {
		return nil, fmt.Errorf("policy evaluation: %w", err)
	}
	if len(x) != n {
		return nil, fmt.Errorf("policy evaluation: %w: %d rows returned for %d states", linalg.ErrDimension, len(x), n)
	}

	values := make([]reward.Vector, n)
	for i, row := range x {
		values[i] = reward.Vector(row)
	}
	return values, nil
}

// improve picks, per state, the action maximizing the worth of
// r(s) + γ Σ T(s, a, s') V[s']. Only a strictly better action replaces an
// earlier one.
func (pi *PolicyIterator[S, A]) improve(p *problem[S, A], values []reward.Vector, prev []int) ([]int, int, error) {
	next := make([]int, len(prev))
	changed := 0
	for i, pairs := range p.byState {
		next[i] = -1
		var best worth.Value
		for _, j := range pairs {
			future := reward.Zero(p.dim)
			for _, br := range p.pairs[j].branches {
				future = future.Add(values[br.to].Scale(br.p))
			}
			w, err := worth.Evaluate(p.expr, p.rewards[i].Add(future.Scale(pi.config.Gamma)))
			if err != nil {
				return nil, 0, err
			}
			if next[i] < 0 || worth.Compare(w, best) > 0 {
				next[i], best = j, w
			}
		}
		if next[i] != prev[i] {
			changed++
		}
	}
	return next, changed, nil
}

// Package application provides the value-iteration and policy-iteration
// solvers for multi-objective MDPs.
package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pareto-mdp/domain/config"
	"github.com/felixgeelhaar/pareto-mdp/domain/frontier"
	"github.com/felixgeelhaar/pareto-mdp/domain/mdp"
	"github.com/felixgeelhaar/pareto-mdp/domain/reward"
	"github.com/felixgeelhaar/pareto-mdp/domain/telemetry"
	"github.com/felixgeelhaar/pareto-mdp/domain/worth"
	"github.com/felixgeelhaar/pareto-mdp/infrastructure/logging"
	"github.com/felixgeelhaar/pareto-mdp/infrastructure/observability"
)

const solverValueIteration = "value_iteration"

// ValueIterator computes Pareto Q-frontiers by synchronous sweeps.
type ValueIterator[S, A comparable] struct {
	config  Config
	metrics *observability.SolverMetrics
}

// NewValueIterator creates a value iterator. Defaults are a discount of 0.9
// and 100 sweeps.
func NewValueIterator[S, A comparable](opts ...Option) (*ValueIterator[S, A], error) {
	c, err := newConfig(config.DefaultGamma, false, opts)
	if err != nil {
		return nil, err
	}
	return &ValueIterator[S, A]{
		config:  c,
		metrics: observability.NewSolverMetrics(c.Meter),
	}, nil
}

// Config returns the effective configuration.
func (v *ValueIterator[S, A]) Config() Config {
	return v.config
}

// Solve runs the sweep budget on model. The model is validated and the worth
// expression is checked against the reward dimension before the first sweep.
//
// Cancellation is observed between sweeps.
func (v *ValueIterator[S, A]) Solve(ctx context.Context, model *mdp.Model[S, A], rf reward.Func[S], expr worth.Expr) (*ParetoSolution[S, A], error) {
	p, err := newProblem(model, rf, expr)
	if err != nil {
		return nil, err
	}

	sol := &ParetoSolution[S, A]{
		id:     uuid.NewString(),
		solver: v,
		prob:   p,
		q:      make([]frontier.Set, len(p.pairs)),
		filled: make([]bool, len(p.pairs)),
	}
	if err := sol.refreshValues(); err != nil {
		return nil, err
	}
	if err := sol.Continue(ctx, v.config.Sweeps); err != nil {
		return nil, err
	}
	return sol, nil
}

// ParetoSolution holds the Q-frontier table of a value-iteration solve.
//
// Thread Safety: the read methods are safe for concurrent use. Continue must
// not run concurrently with anything else on the same solution.
type ParetoSolution[S, A comparable] struct {
	id        string
	solver    *ValueIterator[S, A]
	prob      *problem[S, A]
	q         []frontier.Set
	filled    []bool
	values    []frontier.Set
	sweeps    int
	converged bool
}

// ID returns the solve identifier carried in logs and spans.
func (s *ParetoSolution[S, A]) ID() string {
	return s.id
}

// Sweeps returns how many sweeps have run.
func (s *ParetoSolution[S, A]) Sweeps() int {
	return s.sweeps
}

// Converged reports whether the last sweep left every frontier unchanged
// within the configured tolerance.
func (s *ParetoSolution[S, A]) Converged() bool {
	return s.converged
}

// Frontier returns the Q-frontier of (state, action). A pair not yet
// updated holds the zero frontier; a pair absent from the model is empty.
func (s *ParetoSolution[S, A]) Frontier(state S, action A) frontier.Set {
	i := s.prob.pairIndex(state, action)
	if i < 0 {
		return frontier.Set{}
	}
	return s.at(i)
}

// Value returns the worth-maximal vectors among the frontiers of every
// action of state. It is empty for states without actions.
func (s *ParetoSolution[S, A]) Value(state S) frontier.Set {
	i, ok := s.prob.index[state]
	if !ok {
		return frontier.Set{}
	}
	return s.values[i]
}

// Policy returns every action of state whose frontier shares a vector with
// Value(state), in registration order. States without actions have none.
func (s *ParetoSolution[S, A]) Policy(state S) []A {
	i, ok := s.prob.index[state]
	if !ok {
		return nil
	}
	var out []A
	for _, j := range s.prob.byState[i] {
		if frontier.Intersects(s.at(j), s.values[i]) {
			out = append(out, s.prob.pairs[j].action)
		}
	}
	return out
}

// Continue runs n more sweeps on the current table.
func (s *ParetoSolution[S, A]) Continue(ctx context.Context, n int) (err error) {
	v := s.solver
	p := s.prob
	start := time.Now()

	ctx, span := v.config.Tracer.StartSpan(ctx, telemetry.SpanSolve,
		telemetry.WithAttributes(
			telemetry.String(telemetry.KeySolveID, s.id),
			telemetry.String(telemetry.KeySolver, solverValueIteration),
			telemetry.Int(telemetry.KeyStates, len(p.states)),
			telemetry.Float64(telemetry.KeyGamma, v.config.Gamma),
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
		v.metrics.RecordSolve(ctx, solverValueIteration, time.Since(start), err)
	}()

	logging.Info().
		Add(logging.SolveID(s.id)).
		Add(logging.Solver(solverValueIteration)).
		Add(logging.StateCount(len(p.states))).
		Add(logging.Gamma(v.config.Gamma)).
		Add(logging.Sweep(s.sweeps)).
		Msg("sweeps starting")

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			logging.Error().
				Add(logging.SolveID(s.id)).
				Add(logging.Sweep(s.sweeps)).
				Add(logging.ErrorField(err)).
				Msg("sweeps cancelled")
			return err
		}

		changed, err := s.sweep(ctx)
		if err != nil {
			return err
		}
		s.sweeps++
		s.converged = changed == 0

		size := s.size()
		v.metrics.RecordSweep(ctx, s.id, size)
		span.AddEvent(telemetry.SpanSweep,
			telemetry.Int(telemetry.KeySweep, s.sweeps),
			telemetry.Int(telemetry.KeyFrontier, size),
			telemetry.Int(telemetry.KeyChanged, changed),
		)
		logging.Debug().
			Add(logging.SolveID(s.id)).
			Add(logging.Sweep(s.sweeps)).
			Add(logging.Frontier(size)).
			Add(logging.Changed(changed)).
			Msg("sweep finished")

		if s.converged && v.config.StopOnConvergence {
			break
		}
	}

	span.SetAttributes(telemetry.Bool(telemetry.KeyConverged, s.converged))
	logging.Info().
		Add(logging.SolveID(s.id)).
		Add(logging.Sweep(s.sweeps)).
		Add(logging.Converged(s.converged)).
		Add(logging.Duration(time.Since(start))).
		Msg("sweeps finished")
	return nil
}

// at returns the frontier of pair i, defaulting to the zero frontier.
func (s *ParetoSolution[S, A]) at(i int) frontier.Set {
	if !s.filled[i] {
		return frontier.Zero(s.prob.dim)
	}
	return s.q[i]
}

// sweep replaces every Q-frontier using only the previous table and returns
// how many frontiers changed.
func (s *ParetoSolution[S, A]) sweep(ctx context.Context) (int, error) {
	p := s.prob
	gamma := s.solver.config.Gamma
	next := make([]frontier.Set, len(p.pairs))

	err := forEach(ctx, s.solver.config.Workers, len(p.pairs), func(i int) error {
		pr := p.pairs[i]
		future := frontier.Zero(p.dim)
		for _, b := range pr.branches {
			if len(p.byState[b.to]) == 0 {
				continue
			}
			future = frontier.Sum(future, frontier.Scale(b.p, s.values[b.to]))
		}
		q, err := frontier.Maximal(p.expr, frontier.Translate(p.rewards[pr.state], frontier.Scale(gamma, future)))
		if err != nil {
			return err
		}
		next[i] = q
		return nil
	})
	if err != nil {
		return 0, err
	}

	changed := 0
	for i := range next {
		if !frontier.Within(s.at(i), next[i], s.solver.config.Tolerance) {
			changed++
		}
		s.q[i] = next[i]
		s.filled[i] = true
	}
	return changed, s.refreshValues()
}

// refreshValues recomputes the worth-maximal union at every state.
func (s *ParetoSolution[S, A]) refreshValues() error {
	p := s.prob
	values := make([]frontier.Set, len(p.states))
	for i, pairs := range p.byState {
		if len(pairs) == 0 {
			continue
		}
		sets := make([]frontier.Set, len(pairs))
		for j, pi := range pairs {
			sets[j] = s.at(pi)
		}
		best, err := frontier.Maximal(p.expr, frontier.Union(sets...))
		if err != nil {
			return err
		}
		values[i] = best
	}
	s.values = values
	return nil
}

func (s *ParetoSolution[S, A]) size() int {
	n := 0
	for i := range s.q {
		n += s.at(i).Len()
	}
	return n
}

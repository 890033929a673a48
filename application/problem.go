package application

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/pareto-mdp/domain/mdp"
	"github.com/felixgeelhaar/pareto-mdp/domain/reward"
	"github.com/felixgeelhaar/pareto-mdp/domain/worth"
)

// branch is one positive-probability outcome, by state index.
type branch struct {
	to int
	p  float64
}

// pair is one (state, action) with its outcomes resolved to indices.
type pair[A comparable] struct {
	state    int
	action   A
	branches []branch
}

// problem is a validated model flattened into index form. States and pairs
// keep the model's first-seen order.
type problem[S, A comparable] struct {
	model   *mdp.Model[S, A]
	expr    worth.Expr
	states  []S
	index   map[S]int
	rewards []reward.Vector
	dim     int
	pairs   []pair[A]
	// byState lists the pair indices of each state in action order.
	byState [][]int
}

func newProblem[S, A comparable](model *mdp.Model[S, A], rf reward.Func[S], expr worth.Expr) (*problem[S, A], error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", mdp.ErrConfiguration)
	}
	if rf == nil {
		return nil, fmt.Errorf("%w: nil reward function", mdp.ErrConfiguration)
	}
	if expr == nil {
		return nil, fmt.Errorf("%w: nil worth expression", mdp.ErrValidation)
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	states := model.States()
	p := &problem[S, A]{
		model:   model,
		expr:    expr,
		states:  states,
		index:   make(map[S]int, len(states)),
		rewards: make([]reward.Vector, len(states)),
		byState: make([][]int, len(states)),
	}
	for i, s := range states {
		p.index[s] = i
	}

	for i, s := range states {
		r := rf(s)
		if i == 0 {
			p.dim = len(r)
		} else if len(r) != p.dim {
			return nil, fmt.Errorf("%w: reward for %v has dimension %d, want %d", mdp.ErrConfiguration, s, len(r), p.dim)
		}
		p.rewards[i] = append(reward.Vector(nil), r...)
	}

	if len(states) > 0 {
		if err := worth.Validate(expr, p.dim); err != nil {
			return nil, err
		}
	}

	for i, s := range states {
		for _, a := range model.Actions(s) {
			pr := pair[A]{state: i, action: a}
			for _, to := range model.Successors(s, a) {
				pr.branches = append(pr.branches, branch{to: p.index[to], p: model.Probability(s, a, to)})
			}
			p.byState[i] = append(p.byState[i], len(p.pairs))
			p.pairs = append(p.pairs, pr)
		}
	}
	return p, nil
}

// pairIndex returns the index of (s, a), or -1 when the model has no such
// pair.
func (p *problem[S, A]) pairIndex(s S, a A) int {
	i, ok := p.index[s]
	if !ok {
		return -1
	}
	for _, j := range p.byState[i] {
		if p.pairs[j].action == a {
			return j
		}
	}
	return -1
}

// forEach calls fn for 0..n-1, spreading the calls over up to workers
// goroutines. fn must only write state owned by its index.
func forEach(ctx context.Context, workers, n int, fn func(int) error) error {
	if workers <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	return g.Wait()
}

// Package mdp provides the transition model of a finite Markov decision process.
package mdp

import (
	"fmt"
	"math"
	"slices"
)

// Tolerance is the slack allowed when checking that a distribution sums to one.
const Tolerance = 1e-9

// Transition identifies a single (state, action, next state) triple.
type Transition[S, A comparable] struct {
	From   S
	Action A
	To     S
}

// Outcome is one branch of a stochastic action.
type Outcome[S comparable] struct {
	To          S
	Probability float64
}

type stateAction[S, A comparable] struct {
	state  S
	action A
}

// Model maps (state, action, next state) triples to probabilities.
//
// States and actions are kept in the order they were first recorded. Solvers
// iterate in that order, which makes tie-breaking reproducible.
//
// Thread Safety: Model is NOT safe for concurrent modification. Build it
// completely before solving; the read methods are safe for concurrent use
// once construction is finished.
type Model[S, A comparable] struct {
	probs      map[Transition[S, A]]float64
	successors map[stateAction[S, A]][]S
	actions    map[S][]A
	states     []S
	known      map[S]struct{}
	order      []Transition[S, A]
}

// NewModel creates an empty model. An empty model is valid and has no states.
func NewModel[S, A comparable]() *Model[S, A] {
	return &Model[S, A]{
		probs:      make(map[Transition[S, A]]float64),
		successors: make(map[stateAction[S, A]][]S),
		actions:    make(map[S][]A),
		known:      make(map[S]struct{}),
	}
}

// Entry is one weighted triple for bulk construction.
type Entry[S, A comparable] struct {
	Transition[S, A]
	Probability float64
}

// NewModelFrom builds a model from a bulk mapping and validates every
// (state, action) distribution in one pass.
//
// Map iteration order is random, so the entries are recorded sorted by
// (from, action, to); see Compare for the key order.
func NewModelFrom[S, A comparable](data map[Transition[S, A]]float64) (*Model[S, A], error) {
	entries := make([]Entry[S, A], 0, len(data))
	for t, p := range data {
		entries = append(entries, Entry[S, A]{Transition: t, Probability: p})
	}
	slices.SortFunc(entries, func(x, y Entry[S, A]) int {
		return compareTransitions(x.Transition, y.Transition)
	})
	return NewModelFromEntries(entries...)
}

// NewModelFromEntries builds a model from weighted triples, recording states
// and actions in the order the entries are given. A repeated triple keeps its
// last probability.
func NewModelFromEntries[S, A comparable](entries ...Entry[S, A]) (*Model[S, A], error) {
	final := make(map[Transition[S, A]]float64, len(entries))
	for _, e := range entries {
		if err := checkProbability(e.Transition, e.Probability); err != nil {
			return nil, err
		}
		final[e.Transition] = e.Probability
	}
	totals := make(map[stateAction[S, A]]float64)
	var pairs []stateAction[S, A]
	for _, e := range entries {
		sa := stateAction[S, A]{e.From, e.Action}
		if _, seen := totals[sa]; !seen {
			pairs = append(pairs, sa)
			totals[sa] = 0
		}
	}
	for t, p := range final {
		totals[stateAction[S, A]{t.From, t.Action}] += p
	}
	for _, sa := range pairs {
		if total := totals[sa]; !sumsToOne(total) {
			return nil, massError(sa.state, sa.action, total)
		}
	}

	m := NewModel[S, A]()
	for _, e := range entries {
		m.record(e.Transition, final[e.Transition])
	}
	return m, nil
}

// AddAction merges the outcomes of taking action in state into the model.
// An outcome for a next state that is already recorded replaces it. Newly
// seen next states are recorded in Compare order.
//
// The merged distribution for (state, action) must sum to one. When it does
// not, ErrValidation is returned and the model is left untouched.
func (m *Model[S, A]) AddAction(state S, action A, outcomes map[S]float64) error {
	ordered := make([]Outcome[S], 0, len(outcomes))
	for to, p := range outcomes {
		ordered = append(ordered, Outcome[S]{To: to, Probability: p})
	}
	slices.SortFunc(ordered, func(x, y Outcome[S]) int {
		return Compare(x.To, y.To)
	})
	return m.AddOutcomes(state, action, ordered...)
}

// AddOutcomes is AddAction with the outcomes in a caller-chosen order, so
// newly seen states are recorded deterministically.
func (m *Model[S, A]) AddOutcomes(state S, action A, outcomes ...Outcome[S]) error {
	pending := make(map[S]float64, len(outcomes))
	for _, o := range outcomes {
		t := Transition[S, A]{From: state, Action: action, To: o.To}
		if err := checkProbability(t, o.Probability); err != nil {
			return err
		}
		pending[o.To] = o.Probability
	}

	total := 0.0
	for _, to := range m.successors[stateAction[S, A]{state, action}] {
		if _, replaced := pending[to]; !replaced {
			total += m.probs[Transition[S, A]{From: state, Action: action, To: to}]
		}
	}
	for _, p := range pending {
		total += p
	}
	if !sumsToOne(total) {
		return massError(state, action, total)
	}

	for _, o := range outcomes {
		m.record(Transition[S, A]{From: state, Action: action, To: o.To}, o.Probability)
	}
	return nil
}

// States returns every state that appears as a source or a destination.
func (m *Model[S, A]) States() []S {
	out := make([]S, len(m.states))
	copy(out, m.states)
	return out
}

// HasState reports whether the state appears anywhere in the model.
func (m *Model[S, A]) HasState(state S) bool {
	_, ok := m.known[state]
	return ok
}

// Actions returns the actions recorded as legal from state.
func (m *Model[S, A]) Actions(state S) []A {
	acts := m.actions[state]
	out := make([]A, len(acts))
	copy(out, acts)
	return out
}

// Probability returns the probability of reaching next from state under
// action, or 0 when the triple is absent.
func (m *Model[S, A]) Probability(state S, action A, next S) float64 {
	return m.probs[Transition[S, A]{From: state, Action: action, To: next}]
}

// Successors returns the next states reachable with positive probability.
func (m *Model[S, A]) Successors(state S, action A) []S {
	all := m.successors[stateAction[S, A]{state, action}]
	out := make([]S, 0, len(all))
	for _, to := range all {
		if m.probs[Transition[S, A]{From: state, Action: action, To: to}] > 0 {
			out = append(out, to)
		}
	}
	return out
}

// Transitions returns every recorded triple in recording order.
func (m *Model[S, A]) Transitions() []Transition[S, A] {
	out := make([]Transition[S, A], len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of recorded triples.
func (m *Model[S, A]) Len() int {
	return len(m.order)
}

// Validate re-checks that every recorded (state, action) sums to one.
func (m *Model[S, A]) Validate() error {
	for _, s := range m.states {
		for _, a := range m.actions[s] {
			total := 0.0
			for _, to := range m.successors[stateAction[S, A]{s, a}] {
				total += m.probs[Transition[S, A]{From: s, Action: a, To: to}]
			}
			if !sumsToOne(total) {
				return massError(s, a, total)
			}
		}
	}
	return nil
}

func (m *Model[S, A]) record(t Transition[S, A], p float64) {
	if _, exists := m.probs[t]; !exists {
		m.order = append(m.order, t)
		sa := stateAction[S, A]{t.From, t.Action}
		if len(m.successors[sa]) == 0 {
			m.actions[t.From] = append(m.actions[t.From], t.Action)
		}
		m.successors[sa] = append(m.successors[sa], t.To)
	}
	m.probs[t] = p
	m.remember(t.From)
	m.remember(t.To)
}

func (m *Model[S, A]) remember(s S) {
	if _, ok := m.known[s]; ok {
		return
	}
	m.known[s] = struct{}{}
	m.states = append(m.states, s)
}

func checkProbability[S, A comparable](t Transition[S, A], p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: probability %g for (%v, %v, %v) outside [0, 1]", ErrValidation, p, t.From, t.Action, t.To)
	}
	return nil
}

func sumsToOne(total float64) bool {
	return math.Abs(total-1) <= Tolerance
}

func massError(state, action any, total float64) error {
	return fmt.Errorf("%w: probabilities for (%v, %v) sum to %g, want 1", ErrValidation, state, action, total)
}

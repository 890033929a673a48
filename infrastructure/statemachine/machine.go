// Package statemachine provides the statekit chart that drives policy
// iteration: evaluate, improve, then either evaluate again or stop.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"
)

// Phase is a policy-iteration lifecycle state.
type Phase string

// Lifecycle phases.
const (
	PhaseEvaluate  Phase = "evaluate"
	PhaseImprove   Phase = "improve"
	PhaseStable    Phase = "stable"
	PhaseExhausted Phase = "exhausted"
	PhaseFailed    Phase = "failed"
)

// IsTerminal reports whether no further transition leaves the phase.
func (p Phase) IsTerminal() bool {
	return p == PhaseStable || p == PhaseExhausted || p == PhaseFailed
}

// Events accepted by the chart.
const (
	EventEvaluated statekit.EventType = "EVALUATED"
	EventChanged   statekit.EventType = "CHANGED"
	EventStable    statekit.EventType = "STABLE"
	EventExhausted statekit.EventType = "EXHAUSTED"
	EventFail      statekit.EventType = "FAIL"
)

// Context carries round bookkeeping through the chart.
type Context struct {
	SolveID string
	// Round is the 1-based index of the current evaluation.
	Round int
	// MaxRounds bounds Round; zero means unbounded.
	MaxRounds int
	// Changed is the number of states whose action the last improvement changed.
	Changed int
	// Err is the failure that moved the chart to PhaseFailed.
	Err error
	// History lists every phase entered, in order.
	History []Phase
}

// NewContext creates a context positioned at the first evaluation.
func NewContext(solveID string, maxRounds int) *Context {
	return &Context{
		SolveID:   solveID,
		Round:     1,
		MaxRounds: maxRounds,
		History:   []Phase{PhaseEvaluate},
	}
}

const (
	stateEvaluate  = statekit.StateID(PhaseEvaluate)
	stateImprove   = statekit.StateID(PhaseImprove)
	stateStable    = statekit.StateID(PhaseStable)
	stateExhausted = statekit.StateID(PhaseExhausted)
	stateFailed    = statekit.StateID(PhaseFailed)
)

// NewPolicyIterationMachine creates the policy-iteration statechart.
func NewPolicyIterationMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("policy_iteration").
		WithInitial(stateEvaluate).
		WithContext(&Context{}).
		WithAction("logEntry", logPhaseEntry).
		WithAction("record", recordPhase).
		WithAction("nextRound", nextRound).
		WithAction("recordFailure", recordFailure).
		WithGuard("roundsLeft", guardRoundsLeft).
		State(stateEvaluate).
			OnEntry("logEntry").
			On(EventEvaluated).Target(stateImprove).Do("record").
			On(EventFail).Target(stateFailed).Do("recordFailure").
			Done().
		State(stateImprove).
			OnEntry("logEntry").
			On(EventChanged).Target(stateEvaluate).Guard("roundsLeft").Do("nextRound").
			On(EventStable).Target(stateStable).Do("record").
			On(EventExhausted).Target(stateExhausted).Do("record").
			On(EventFail).Target(stateFailed).Do("recordFailure").
			Done().
		State(stateStable).
			Final().
			OnEntry("logEntry").
			Done().
		State(stateExhausted).
			Final().
			OnEntry("logEntry").
			Done().
		State(stateFailed).
			Final().
			OnEntry("logEntry").
			Done().
		Build()
}

// phaseForEvent returns the phase an event leads to.
func phaseForEvent(t statekit.EventType) Phase {
	switch t {
	case EventEvaluated:
		return PhaseImprove
	case EventChanged:
		return PhaseEvaluate
	case EventStable:
		return PhaseStable
	case EventExhausted:
		return PhaseExhausted
	case EventFail:
		return PhaseFailed
	default:
		return ""
	}
}

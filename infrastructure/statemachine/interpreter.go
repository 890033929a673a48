package statemachine

import (
	"github.com/felixgeelhaar/statekit"
)

// Lifecycle wraps the statekit interpreter with policy-iteration steps.
type Lifecycle struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewLifecycle builds the chart and an interpreter bound to a fresh context.
func NewLifecycle(solveID string, maxRounds int) (*Lifecycle, error) {
	machine, err := NewPolicyIterationMachine()
	if err != nil {
		return nil, err
	}

	ctx := NewContext(solveID, maxRounds)
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Lifecycle{interp: interp, ctx: ctx}, nil
}

// Start enters the first evaluation.
func (l *Lifecycle) Start() {
	l.interp.Start()
}

// Stop stops the interpreter.
func (l *Lifecycle) Stop() {
	l.interp.Stop()
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	return Phase(l.interp.State().Value)
}

// Evaluated moves from evaluation to improvement.
func (l *Lifecycle) Evaluated() {
	l.interp.Send(statekit.Event{Type: EventEvaluated})
}

// Improved reports how many states changed action. It returns true when
// another evaluation follows and false when the chart reached a final
// phase: stable on no change, exhausted when the round bound is hit.
func (l *Lifecycle) Improved(changed int) bool {
	payload := ImprovementPayload{Changed: changed}
	if changed == 0 {
		l.interp.Send(statekit.Event{Type: EventStable, Payload: payload})
		return false
	}

	l.interp.Send(statekit.Event{Type: EventChanged, Payload: payload})
	if l.interp.Matches(stateImprove) {
		// The round guard refused another evaluation.
		l.interp.Send(statekit.Event{Type: EventExhausted, Payload: payload})
		return false
	}
	return true
}

// Fail ends the lifecycle with err.
func (l *Lifecycle) Fail(err error) {
	l.interp.Send(statekit.Event{Type: EventFail, Payload: FailurePayload{Err: err}})
}

// Done reports whether a final phase was reached.
func (l *Lifecycle) Done() bool {
	return l.interp.Done()
}

// Round returns the 1-based index of the current evaluation.
func (l *Lifecycle) Round() int {
	return l.ctx.Round
}

// Context returns the lifecycle context.
func (l *Lifecycle) Context() *Context {
	return l.ctx
}

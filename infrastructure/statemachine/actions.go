package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/pareto-mdp/infrastructure/logging"
)

// ImprovementPayload reports the outcome of an improvement step.
type ImprovementPayload struct {
	Changed int
}

// FailurePayload carries the error that ended the solve.
type FailurePayload struct {
	Err error
}

// In statekit, actions receive a pointer to the context. Since our context
// is *Context, actions receive **Context.

func logPhaseEntry(ctx **Context, _ statekit.Event) {
	if ctx == nil || *ctx == nil || len((*ctx).History) == 0 {
		return
	}
	c := *ctx

	logging.Debug().
		Add(logging.SolveID(c.SolveID)).
		Add(logging.Solver("policy_iteration")).
		Add(logging.Phase(string(c.History[len(c.History)-1]))).
		Add(logging.Round(c.Round)).
		Msg("policy iteration phase")
}

func recordPhase(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	c := *ctx

	if p, ok := event.Payload.(ImprovementPayload); ok {
		c.Changed = p.Changed
	}
	if phase := phaseForEvent(event.Type); phase != "" {
		c.History = append(c.History, phase)
	}
}

func nextRound(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	recordPhase(ctx, event)
	(*ctx).Round++
}

func recordFailure(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	if p, ok := event.Payload.(FailurePayload); ok {
		(*ctx).Err = p.Err
	}
	recordPhase(ctx, event)
}

package statemachine

import (
	"github.com/felixgeelhaar/statekit"
)

// guardRoundsLeft allows another evaluation while the round bound holds.
// In statekit, guards receive the context by value, so the guard gets *Context.
func guardRoundsLeft(ctx *Context, _ statekit.Event) bool {
	if ctx == nil {
		return false
	}
	return ctx.MaxRounds <= 0 || ctx.Round < ctx.MaxRounds
}

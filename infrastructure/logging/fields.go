package logging

import (
	"strconv"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// SolveID adds the identifier shared by every record of one solve.
func SolveID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("solve_id", id)
	}
}

// Solver adds the engine name (value_iteration or policy_iteration).
func Solver(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("solver", name)
	}
}

// Sweep adds a value-iteration sweep number.
func Sweep(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("sweep", n)
	}
}

// Round adds a policy-iteration round number.
func Round(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("round", n)
	}
}

// Frontier adds the total number of vectors held across all Q-frontiers.
func Frontier(size int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("frontier", size)
	}
}

// Gamma adds the discount factor.
func Gamma(g float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("gamma", strconv.FormatFloat(g, 'g', -1, 64))
	}
}

// StateCount adds the number of states in the model.
func StateCount(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("states", n)
	}
}

// Changed adds the number of entries a sweep or round changed.
func Changed(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("changed", n)
	}
}

// Converged adds a convergence flag.
func Converged(ok bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool("converged", ok)
	}
}

// Phase adds a lifecycle phase name.
func Phase(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("phase", name)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

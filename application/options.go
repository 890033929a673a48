package application

import (
	"fmt"
	"math"

	"github.com/felixgeelhaar/pareto-mdp/domain/config"
	"github.com/felixgeelhaar/pareto-mdp/domain/linalg"
	"github.com/felixgeelhaar/pareto-mdp/domain/mdp"
	"github.com/felixgeelhaar/pareto-mdp/domain/telemetry"
	inflinalg "github.com/felixgeelhaar/pareto-mdp/infrastructure/linalg"
	"github.com/felixgeelhaar/pareto-mdp/infrastructure/observability"
)

// instrumentationName scopes the spans and instruments of solvers that were
// not given a tracer or meter. They report to the global OpenTelemetry
// providers, which discard everything until an application installs its own.
const instrumentationName = "github.com/felixgeelhaar/pareto-mdp"

// Config contains the settings shared by both solvers.
type Config struct {
	// Gamma is the discount factor in (0, 1].
	Gamma float64

	// Sweeps is the value-iteration sweep budget.
	Sweeps int

	// Tolerance is the largest component change still treated as no change
	// when detecting convergence. Zero demands exact equality.
	Tolerance float64

	// StopOnConvergence ends value iteration early once a sweep changes no
	// frontier.
	StopOnConvergence bool

	// Workers bounds the goroutines used per sweep. Zero or one runs the
	// sweep on the calling goroutine.
	Workers int

	// MaxRounds bounds policy iteration. Zero means unbounded.
	MaxRounds int

	// LinearSolver solves the policy-evaluation system.
	LinearSolver linalg.Solver

	// Tracer receives solve spans. Defaults to the global tracer provider.
	Tracer telemetry.Tracer

	// Meter receives solver metrics. Defaults to the global meter provider.
	Meter telemetry.Meter

	// policy selects the policy-iteration discount from a loaded
	// configuration.
	policy bool
}

// Option configures a solver.
type Option func(*Config)

// WithGamma sets the discount factor.
func WithGamma(g float64) Option {
	return func(c *Config) {
		c.Gamma = g
	}
}

// WithSweeps sets the value-iteration sweep budget.
func WithSweeps(n int) Option {
	return func(c *Config) {
		c.Sweeps = n
	}
}

// WithTolerance sets the convergence tolerance.
func WithTolerance(tol float64) Option {
	return func(c *Config) {
		c.Tolerance = tol
	}
}

// WithStopOnConvergence enables or disables the early stop.
func WithStopOnConvergence(enabled bool) Option {
	return func(c *Config) {
		c.StopOnConvergence = enabled
	}
}

// WithWorkers sets how many goroutines a sweep may use.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithMaxRounds sets the policy-iteration round bound.
func WithMaxRounds(n int) Option {
	return func(c *Config) {
		c.MaxRounds = n
	}
}

// WithLinearSolver replaces the gonum solver used for policy evaluation.
func WithLinearSolver(s linalg.Solver) Option {
	return func(c *Config) {
		c.LinearSolver = s
	}
}

// WithTracer sets the tracer.
func WithTracer(t telemetry.Tracer) Option {
	return func(c *Config) {
		c.Tracer = t
	}
}

// WithMeter sets the meter.
func WithMeter(m telemetry.Meter) Option {
	return func(c *Config) {
		c.Meter = m
	}
}

// WithSolverConfig copies the numeric settings of a loaded configuration.
// Policy iteration takes its discount from PolicyGamma, and keeps its own
// default when that is unset.
func WithSolverConfig(sc *config.SolverConfig) Option {
	return func(c *Config) {
		if sc == nil {
			return
		}
		switch {
		case !c.policy:
			c.Gamma = sc.Gamma
		case sc.PolicyGamma != 0:
			c.Gamma = sc.PolicyGamma
		}
		c.Sweeps = sc.Sweeps
		c.Tolerance = sc.Tolerance
		c.StopOnConvergence = sc.StopOnConvergence
		c.Workers = sc.Workers
		c.MaxRounds = sc.MaxRounds
	}
}

func newConfig(gamma float64, policy bool, opts []Option) (Config, error) {
	c := Config{
		Gamma:     gamma,
		Sweeps:    config.DefaultSweeps,
		MaxRounds: config.DefaultMaxRounds,
		policy:    policy,
	}
	for _, opt := range opts {
		opt(&c)
	}

	if c.LinearSolver == nil {
		c.LinearSolver = inflinalg.NewDense()
	}
	if c.Tracer == nil {
		c.Tracer = observability.NewOTelTracer(instrumentationName)
	}
	if c.Meter == nil {
		c.Meter = observability.NewOTelMeter(instrumentationName)
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch {
	case math.IsNaN(c.Gamma) || c.Gamma <= 0 || c.Gamma > 1:
		return fmt.Errorf("%w: gamma %g outside (0, 1]", mdp.ErrConfiguration, c.Gamma)
	case c.Sweeps < 0:
		return fmt.Errorf("%w: negative sweep budget %d", mdp.ErrConfiguration, c.Sweeps)
	case math.IsNaN(c.Tolerance) || c.Tolerance < 0:
		return fmt.Errorf("%w: tolerance %g must be non-negative", mdp.ErrConfiguration, c.Tolerance)
	case c.Workers < 0:
		return fmt.Errorf("%w: negative worker count %d", mdp.ErrConfiguration, c.Workers)
	case c.MaxRounds < 0:
		return fmt.Errorf("%w: negative round bound %d", mdp.ErrConfiguration, c.MaxRounds)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/pareto-mdp/application"
	domainconfig "github.com/felixgeelhaar/pareto-mdp/domain/config"
	infraconfig "github.com/felixgeelhaar/pareto-mdp/infrastructure/config"
	"github.com/felixgeelhaar/pareto-mdp/infrastructure/logging"
	"github.com/felixgeelhaar/pareto-mdp/infrastructure/observability"
)

// solverRuntime is the logging and telemetry set up for one command.
type solverRuntime struct {
	config *domainconfig.SolverConfig
	// fromFile is set when the numeric settings came from a file and should
	// override each solver's own defaults.
	fromFile bool
	provider *observability.Provider
}

// setup loads the configuration at path, or the defaults when path is
// empty, and initializes logging and telemetry from it.
func (a *App) setup(path string) (*solverRuntime, error) {
	cfg := domainconfig.Default()
	if path != "" {
		loaded, err := infraconfig.NewLoader().LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	result, err := infraconfig.NewBuilder(cfg).WithLogOutput(a.stderr).Build()
	if err != nil {
		return nil, err
	}
	logging.Init(result.Logging)

	provider, err := observability.New(result.Observability...)
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	logging.Debug().
		Add(logging.Component("cli")).
		Add(logging.Gamma(cfg.Gamma)).
		Add(logging.Sweep(cfg.Sweeps)).
		Msg("runtime ready")

	return &solverRuntime{config: cfg, fromFile: path != "", provider: provider}, nil
}

// options returns the solver options for this runtime.
func (r *solverRuntime) options() []application.Option {
	opts := []application.Option{
		application.WithTracer(r.provider.Tracer()),
		application.WithMeter(r.provider.Meter()),
	}
	if r.fromFile {
		opts = append(opts, application.WithSolverConfig(r.config))
	}
	return opts
}

// context applies the configured timeout, if any.
func (r *solverRuntime) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := r.config.Timeout.Duration(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// close flushes telemetry.
func (r *solverRuntime) close(ctx context.Context) error {
	return r.provider.Shutdown(ctx)
}

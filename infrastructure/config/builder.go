package config

import (
	"fmt"
	"io"

	domainconfig "github.com/felixgeelhaar/pareto-mdp/domain/config"
	"github.com/felixgeelhaar/pareto-mdp/infrastructure/logging"
	"github.com/felixgeelhaar/pareto-mdp/infrastructure/observability"
)

// Builder turns a solver configuration into the settings of the
// infrastructure around a solve.
type Builder struct {
	config *domainconfig.SolverConfig
	logOut io.Writer
}

// NewBuilder creates a new configuration builder.
func NewBuilder(config *domainconfig.SolverConfig) *Builder {
	return &Builder{config: config}
}

// WithLogOutput directs solver logs to w.
func (b *Builder) WithLogOutput(w io.Writer) *Builder {
	b.logOut = w
	return b
}

// BuildResult contains the components built from configuration.
type BuildResult struct {
	// Logging configures the default logger.
	Logging logging.Config
	// Observability holds the provider options.
	Observability []observability.Option
}

// Build validates the configuration and derives its components.
func (b *Builder) Build() (*BuildResult, error) {
	if errs := domainconfig.NewValidator().Validate(b.config); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %v", domainconfig.ErrValidationFailed, errs)
	}

	logCfg := logging.DefaultConfig()
	if b.config.LogLevel != "" {
		logCfg.Level = b.config.LogLevel
	}
	if b.config.LogFormat != "" {
		logCfg.Format = b.config.LogFormat
	}
	if b.logOut != nil {
		logCfg.Output = b.logOut
	}

	return &BuildResult{
		Logging:       logCfg,
		Observability: observability.FromSolverConfig(b.config.Telemetry),
	}, nil
}

// Package config provides domain models for solver configuration.
package config

import "time"

// Defaults used when a configuration leaves a field unset.
const (
	// DefaultGamma is the value-iteration discount factor.
	DefaultGamma = 0.9
	// DefaultPolicyGamma is the discount factor the policy-iteration examples use.
	DefaultPolicyGamma = 0.8
	// DefaultSweeps is the value-iteration sweep budget.
	DefaultSweeps = 100
	// DefaultMaxRounds bounds policy iteration.
	DefaultMaxRounds = 1000
)

// SolverConfig represents the complete solver configuration.
type SolverConfig struct {
	// Gamma is the value-iteration discount factor in (0, 1].
	Gamma float64 `json:"gamma" yaml:"gamma"`
	// PolicyGamma is the policy-iteration discount factor in (0, 1]. Zero
	// leaves policy iteration at DefaultPolicyGamma.
	PolicyGamma float64 `json:"policy_gamma,omitempty" yaml:"policy_gamma,omitempty"`
	// Sweeps is the number of value-iteration sweeps.
	Sweeps int `json:"sweeps" yaml:"sweeps"`
	// Tolerance is the largest frontier change still counted as converged.
	Tolerance float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	// StopOnConvergence ends value iteration at the first sweep that changes
	// no frontier by more than Tolerance.
	StopOnConvergence bool `json:"stop_on_convergence,omitempty" yaml:"stop_on_convergence,omitempty"`
	// Workers is the number of goroutines per sweep (0 or 1: sequential).
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
	// MaxRounds bounds the number of policy-iteration rounds.
	MaxRounds int `json:"max_rounds,omitempty" yaml:"max_rounds,omitempty"`
	// Timeout bounds a whole solve (0: no deadline).
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	// LogFormat is json or console.
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"`

	// Telemetry configures tracing and metrics.
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
}

// TelemetryConfig configures tracing and metrics export.
type TelemetryConfig struct {
	// Tracing enables span export.
	Tracing bool `json:"tracing,omitempty" yaml:"tracing,omitempty"`
	// Metrics enables the solver instruments.
	Metrics bool `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	// Exporter is stdout, otlp or none.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	// Endpoint is the OTLP collector address.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	// ServiceName labels exported telemetry.
	ServiceName string `json:"service_name,omitempty" yaml:"service_name,omitempty"`
}

// Default returns the configuration the hallway examples run with.
func Default() *SolverConfig {
	return &SolverConfig{
		Gamma:       DefaultGamma,
		PolicyGamma: DefaultPolicyGamma,
		Sweeps:      DefaultSweeps,
		MaxRounds:   DefaultMaxRounds,
		LogLevel:    "info",
		LogFormat:   "console",
		Telemetry: TelemetryConfig{
			Exporter:    "none",
			ServiceName: "pareto-mdp",
		},
	}
}

// Duration is a time.Duration that supports JSON/YAML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

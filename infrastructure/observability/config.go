// Package observability provides OpenTelemetry integration for tracing and metrics.
package observability

import (
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	domainconfig "github.com/felixgeelhaar/pareto-mdp/domain/config"
)

// Config configures the observability infrastructure.
type Config struct {
	// ServiceName is the name of the service for telemetry.
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Environment is the deployment environment (e.g., "production", "staging").
	Environment string

	// Tracing configures span export.
	Tracing TracingConfig

	// Metrics enables the OpenTelemetry SDK meter provider.
	Metrics bool

	// MetricReader collects the recorded metrics, such as a periodic
	// exporter or a manual reader.
	MetricReader sdkmetric.Reader
}

// TracingConfig configures span export.
type TracingConfig struct {
	// Enabled enables tracing (default: false).
	Enabled bool

	// Exporter specifies the trace exporter type.
	Exporter ExporterType

	// Endpoint is the OTLP endpoint (e.g., "localhost:4317").
	Endpoint string

	// Insecure disables TLS for the exporter connection.
	Insecure bool

	// SampleRate is the sampling rate (0.0-1.0, default: 1.0).
	SampleRate float64

	// BatchTimeout is the batch export timeout.
	BatchTimeout time.Duration
}

// ExporterType specifies the telemetry exporter.
type ExporterType string

const (
	// ExporterOTLP exports over gRPC to an OTLP collector.
	ExporterOTLP ExporterType = "otlp"

	// ExporterStdout exports to stdout (useful for development).
	ExporterStdout ExporterType = "stdout"

	// ExporterNoop disables export.
	ExporterNoop ExporterType = "none"
)

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "pareto-mdp",
		ServiceVersion: "0.1.0",
		Environment:    "development",
		Tracing: TracingConfig{
			Exporter:     ExporterNoop,
			SampleRate:   1.0,
			BatchTimeout: 5 * time.Second,
		},
	}
}

// Option configures the observability infrastructure.
type Option func(*Config)

// WithServiceName sets the service name.
func WithServiceName(name string) Option {
	return func(c *Config) {
		c.ServiceName = name
	}
}

// WithServiceVersion sets the service version.
func WithServiceVersion(version string) Option {
	return func(c *Config) {
		c.ServiceVersion = version
	}
}

// WithTracing enables tracing with the specified exporter.
func WithTracing(exporter ExporterType, endpoint string) Option {
	return func(c *Config) {
		c.Tracing.Enabled = true
		c.Tracing.Exporter = exporter
		c.Tracing.Endpoint = endpoint
	}
}

// WithTracingInsecure disables TLS for tracing.
func WithTracingInsecure() Option {
	return func(c *Config) {
		c.Tracing.Insecure = true
	}
}

// WithSampleRate sets the trace sampling rate.
func WithSampleRate(rate float64) Option {
	return func(c *Config) {
		c.Tracing.SampleRate = rate
	}
}

// WithStdoutTracing enables stdout tracing (for development).
func WithStdoutTracing() Option {
	return WithTracing(ExporterStdout, "")
}

// WithMetrics enables the OpenTelemetry meter.
func WithMetrics() Option {
	return func(c *Config) {
		c.Metrics = true
	}
}

// WithMetricReader enables metrics and collects them with r.
func WithMetricReader(r sdkmetric.Reader) Option {
	return func(c *Config) {
		c.Metrics = true
		c.MetricReader = r
	}
}

// FromSolverConfig translates the telemetry section of a solver
// configuration into provider options.
func FromSolverConfig(t domainconfig.TelemetryConfig) []Option {
	var opts []Option
	if t.ServiceName != "" {
		opts = append(opts, WithServiceName(t.ServiceName))
	}
	if t.Tracing {
		exporter := ExporterType(t.Exporter)
		if exporter == "" {
			exporter = ExporterNoop
		}
		opts = append(opts, WithTracing(exporter, t.Endpoint))
		if exporter == ExporterOTLP {
			opts = append(opts, WithTracingInsecure())
		}
	}
	if t.Metrics {
		opts = append(opts, WithMetrics())
	}
	return opts
}

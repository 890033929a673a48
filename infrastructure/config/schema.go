package config

import (
	"encoding/json"

	domainconfig "github.com/felixgeelhaar/pareto-mdp/domain/config"
)

// JSONSchema represents a JSON Schema document.
type JSONSchema struct {
	Schema           string                 `json:"$schema,omitempty"`
	ID               string                 `json:"$id,omitempty"`
	Title            string                 `json:"title,omitempty"`
	Description      string                 `json:"description,omitempty"`
	Type             string                 `json:"type,omitempty"`
	Properties       map[string]*JSONSchema `json:"properties,omitempty"`
	Enum             []string               `json:"enum,omitempty"`
	Default          any                    `json:"default,omitempty"`
	Minimum          *float64               `json:"minimum,omitempty"`
	ExclusiveMinimum *float64               `json:"exclusiveMinimum,omitempty"`
	Maximum          *float64               `json:"maximum,omitempty"`
	Pattern          string                 `json:"pattern,omitempty"`

	AdditionalProperties *bool `json:"additionalProperties,omitempty"`
}

// GenerateSchema generates a JSON Schema for SolverConfig.
func GenerateSchema() *JSONSchema {
	d := domainconfig.Default()
	closed := false

	return &JSONSchema{
		Schema:               "https://json-schema.org/draft/2020-12/schema",
		ID:                   "https://github.com/felixgeelhaar/pareto-mdp/solver-config.schema.json",
		Title:                "Solver Configuration",
		Description:          "Configuration schema for pareto-mdp solvers",
		Type:                 "object",
		AdditionalProperties: &closed,
		Properties: map[string]*JSONSchema{
			"gamma": {
				Type:        "number",
				Description:      "Value-iteration discount factor",
				Default:          d.Gamma,
				ExclusiveMinimum: floatPtr(0),
				Maximum:          floatPtr(1),
			},
			"policy_gamma": {
				Type:             "number",
				Description:      "Policy-iteration discount factor",
				Default:          d.PolicyGamma,
				ExclusiveMinimum: floatPtr(0),
				Maximum:          floatPtr(1),
			},
			"sweeps": {
				Type:        "integer",
				Description: "Value-iteration sweep budget",
				Default:     d.Sweeps,
				Minimum:     floatPtr(0),
			},
			"tolerance": {
				Type:        "number",
				Description: "Largest frontier change still counted as converged",
				Minimum:     floatPtr(0),
			},
			"stop_on_convergence": {
				Type:        "boolean",
				Description: "Stop value iteration at the first sweep within tolerance",
			},
			"workers": {
				Type:        "integer",
				Description: "Goroutines per sweep (0 or 1: sequential)",
				Minimum:     floatPtr(0),
			},
			"max_rounds": {
				Type:        "integer",
				Description: "Policy-iteration round bound",
				Default:     d.MaxRounds,
				Minimum:     floatPtr(0),
			},
			"timeout": {
				Type:        "string",
				Description: "Deadline for a whole solve (e.g. 30s)",
				Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
			},
			"log_level": {
				Type:        "string",
				Description: "Minimum log level",
				Enum:        []string{"trace", "debug", "info", "warn", "error"},
				Default:     d.LogLevel,
			},
			"log_format": {
				Type:        "string",
				Description: "Log output format",
				Enum:        []string{"json", "console"},
				Default:     d.LogFormat,
			},
			"telemetry": generateTelemetrySchema(d.Telemetry),
		},
	}
}

func generateTelemetrySchema(d domainconfig.TelemetryConfig) *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Tracing and metrics export",
		Properties: map[string]*JSONSchema{
			"tracing": {
				Type:        "boolean",
				Description: "Enable span export",
			},
			"metrics": {
				Type:        "boolean",
				Description: "Enable solver metrics",
			},
			"exporter": {
				Type:        "string",
				Description: "Span exporter",
				Enum:        []string{"none", "stdout", "otlp"},
				Default:     d.Exporter,
			},
			"endpoint": {
				Type:        "string",
				Description: "OTLP collector address (required for otlp)",
			},
			"service_name": {
				Type:        "string",
				Description: "Service name on exported telemetry",
				Default:     d.ServiceName,
			},
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}

// SchemaJSON returns the JSON Schema as an indented JSON string.
func SchemaJSON() (string, error) {
	data, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

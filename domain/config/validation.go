package config

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the field path of the invalid value.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates solver configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *SolverConfig) ValidationErrors {
	v.errors = nil

	v.validateSolver(config)
	v.validateLogging(config)
	v.validateTelemetry(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateSolver(config *SolverConfig) {
	if !discount(config.Gamma) {
		v.addError("gamma", fmt.Sprintf("gamma must be in (0, 1], got %g", config.Gamma))
	}
	if config.PolicyGamma != 0 && !discount(config.PolicyGamma) {
		v.addError("policy_gamma", fmt.Sprintf("policy_gamma must be in (0, 1], got %g", config.PolicyGamma))
	}
	if config.Sweeps < 0 {
		v.addError("sweeps", "sweeps must be non-negative")
	}
	if math.IsNaN(config.Tolerance) || config.Tolerance < 0 {
		v.addError("tolerance", "tolerance must be non-negative")
	}
	if config.Workers < 0 {
		v.addError("workers", "workers must be non-negative")
	}
	if config.MaxRounds < 0 {
		v.addError("max_rounds", "max_rounds must be non-negative")
	}
	if config.Timeout < 0 {
		v.addError("timeout", "timeout must be non-negative")
	}
}

func discount(g float64) bool {
	return !math.IsNaN(g) && g > 0 && g <= 1
}

func (v *Validator) validateLogging(config *SolverConfig) {
	if config.LogLevel != "" {
		validLevels := map[string]bool{
			"trace": true, "debug": true, "info": true, "warn": true, "error": true,
		}
		if !validLevels[strings.ToLower(config.LogLevel)] {
			v.addError("log_level", fmt.Sprintf("invalid level: %s", config.LogLevel))
		}
	}
	if config.LogFormat != "" && config.LogFormat != "json" && config.LogFormat != "console" {
		v.addError("log_format", fmt.Sprintf("invalid format: %s", config.LogFormat))
	}
}

func (v *Validator) validateTelemetry(config *SolverConfig) {
	t := config.Telemetry
	switch t.Exporter {
	case "", "none", "stdout":
	case "otlp":
		if t.Endpoint == "" {
			v.addError("telemetry.endpoint", "endpoint is required for otlp exporter")
		}
	default:
		v.addError("telemetry.exporter", fmt.Sprintf("unknown exporter: %s", t.Exporter))
	}
}

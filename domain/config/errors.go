package config

import "errors"

// Errors returned while loading a solver configuration file.
var (
	// ErrConfigNotFound is returned when the solver configuration path does
	// not exist.
	ErrConfigNotFound = errors.New("solver configuration file not found")

	// ErrInvalidFormat wraps YAML or JSON decoding failures.
	ErrInvalidFormat = errors.New("malformed solver configuration")

	// ErrUnsupportedFormat is returned for extensions other than .yaml, .yml
	// and .json.
	ErrUnsupportedFormat = errors.New("unsupported solver configuration format")

	// ErrValidationFailed wraps the ValidationErrors of a decoded
	// configuration, such as a discount outside (0, 1].
	ErrValidationFailed = errors.New("solver configuration validation failed")

	// ErrMissingEnvVar is returned in strict mode when a ${VAR} reference
	// has no value and no default.
	ErrMissingEnvVar = errors.New("environment variable referenced by solver configuration not set")
)

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	infraconfig "github.com/felixgeelhaar/pareto-mdp/infrastructure/config"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath string
	strict     bool
	showSchema bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a solver configuration file",
		Long: `Validate a solver configuration file.

This command checks:
  - File format (YAML or JSON)
  - Discount factor, budgets and tolerance ranges
  - Log level, log format and telemetry exporter names
  - Environment variable references (in strict mode)

Examples:
  # Validate a configuration file
  mdp validate -c solver.yaml

  # Strict validation (fail on missing env vars)
  mdp validate -c solver.yaml --strict

  # Show the JSON schema for configuration
  mdp validate --schema`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showSchema {
				return a.showConfigSchema()
			}
			return a.validateConfig(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Enable strict validation (fail on missing env vars)")
	cmd.Flags().BoolVar(&opts.showSchema, "schema", false, "Show JSON schema for configuration")

	return cmd
}

// validateConfig validates the configuration file.
func (a *App) validateConfig(opts *validateOptions) error {
	if opts.configPath == "" {
		return fmt.Errorf("configuration file path is required (-c flag)")
	}

	loader := infraconfig.NewLoaderWithOptions(
		infraconfig.WithValidation(true),
		infraconfig.WithStrictEnv(opts.strict),
	)
	config, err := loader.LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if _, err := infraconfig.NewBuilder(config).Build(); err != nil {
		return fmt.Errorf("configuration build failed: %w", err)
	}

	fmt.Fprintf(a.stdout, "✓ Configuration is valid\n")
	fmt.Fprintf(a.stdout, "\nConfiguration summary:\n")
	fmt.Fprintf(a.stdout, "  Gamma: %g\n", config.Gamma)
	if config.PolicyGamma != 0 {
		fmt.Fprintf(a.stdout, "  Policy gamma: %g\n", config.PolicyGamma)
	}
	fmt.Fprintf(a.stdout, "  Sweeps: %d\n", config.Sweeps)
	if config.StopOnConvergence {
		fmt.Fprintf(a.stdout, "  Stop on convergence: tolerance %g\n", config.Tolerance)
	}
	if config.Workers > 1 {
		fmt.Fprintf(a.stdout, "  Workers: %d\n", config.Workers)
	}
	fmt.Fprintf(a.stdout, "  Max rounds: %d\n", config.MaxRounds)
	if config.Timeout > 0 {
		fmt.Fprintf(a.stdout, "  Timeout: %s\n", config.Timeout.Duration())
	}
	fmt.Fprintf(a.stdout, "  Logging: %s (%s)\n", config.LogLevel, config.LogFormat)
	if config.Telemetry.Tracing {
		fmt.Fprintf(a.stdout, "  Tracing: %s\n", config.Telemetry.Exporter)
	}

	return nil
}

// showConfigSchema displays the JSON schema for configuration.
func (a *App) showConfigSchema() error {
	schemaJSON, err := infraconfig.SchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Fprintln(a.stdout, schemaJSON)
	return nil
}

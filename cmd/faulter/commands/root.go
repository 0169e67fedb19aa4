package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/faulter/faulter/pkg/config"
	"github.com/faulter/faulter/pkg/engine"
	"github.com/faulter/faulter/pkg/solver"
	"github.com/faulter/faulter/pkg/telemetry"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool

	// Loaded in the root PersistentPreRunE, shared by all commands.
	cfg    config.Config
	tracer *telemetry.Tracer
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "faulter",
		Short: "Faulter - Physical Subsystem Graph Execution Engine",
		Long: `Faulter evaluates dependency graphs of physical subsystem models
(motors, heaters, hydraulic pumps, free-form formulas) and produces a
consistent set of variable values, iterating feedback loops to a fixed
point where the graph contains cycles.

Parameter sweeps over a graph produce signature vectors that can be
stored in a library and later compared against live measurements for
fault diagnosis.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			logger, err := telemetry.NewLogger(telemetry.LoggingConfig{
				Level:  cfg.Telemetry.Logging.Level,
				Format: cfg.Telemetry.Logging.Format,
				Output: cfg.Telemetry.Logging.Output,
			})
			if err != nil {
				return err
			}
			log.Logger = logger.Zerolog()
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			if cfg.Telemetry.Tracing.Enabled {
				tracer, err = telemetry.NewTracer(telemetry.TracingConfig{
					Enabled:      cfg.Telemetry.Tracing.Enabled,
					Exporter:     cfg.Telemetry.Tracing.Exporter,
					Endpoint:     cfg.Telemetry.Tracing.Endpoint,
					Insecure:     cfg.Telemetry.Tracing.Insecure,
					SamplingRate: cfg.Telemetry.Tracing.SamplingRate,
				}, "faulter", version, "cli")
				if err != nil {
					return err
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if tracer != nil {
				return tracer.Shutdown(cmd.Context())
			}
			return nil
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(newSolveCommand())
	rootCmd.AddCommand(newOrderCommand())
	rootCmd.AddCommand(newSweepCommand())
	rootCmd.AddCommand(newSignatureCommand())
	rootCmd.AddCommand(newDiagnoseCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}

// newEngine builds an engine from the loaded configuration, with metrics
// collection per the telemetry config.
func newEngine() (*engine.Engine, *telemetry.Metrics, error) {
	metrics, err := telemetry.NewMetrics(telemetry.MetricsConfig{
		Enabled:   cfg.Telemetry.Metrics.Enabled,
		Namespace: cfg.Telemetry.Metrics.Namespace,
	})
	if err != nil {
		return nil, nil, err
	}
	eng := engine.New(engine.Config{
		Solver:  solver.New(cfg.Solver.ConvergenceThreshold, cfg.Solver.MaxIterations),
		Metrics: metrics,
	})
	return eng, metrics, nil
}

// loadDescription reads a graph description from a JSON file.
func loadDescription(path string) (engine.Description, error) {
	var desc engine.Description
	data, err := os.ReadFile(path)
	if err != nil {
		return desc, fmt.Errorf("failed to read graph file: %w", err)
	}
	if err := json.Unmarshal(data, &desc); err != nil {
		return desc, fmt.Errorf("failed to parse graph file: %w", err)
	}
	return desc, nil
}

// parseInitial converts repeated key=value flags into a variable map.
func parseInitial(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	initial := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid initial value %q, expected name=value", pair)
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid initial value %q: %w", pair, err)
		}
		initial[key] = f
	}
	return initial, nil
}

// parseVector converts a comma-separated list of floats.
func parseVector(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	vec := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vector element %q: %w", part, err)
		}
		vec = append(vec, f)
	}
	return vec, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Package config loads and validates the service configuration from YAML.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the root service configuration.
type Config struct {
	// Solver configures the dependency resolver's convergence behavior.
	Solver SolverConfig `yaml:"solver"`

	// Telemetry configures logging, metrics, and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SolverConfig configures cyclic-block convergence.
type SolverConfig struct {
	// ConvergenceThreshold is the per-iteration delta below which a
	// cyclic block is considered settled.
	ConvergenceThreshold float64 `yaml:"convergence_threshold" validate:"gt=0"`

	// MaxIterations caps the iterations of one cyclic block.
	MaxIterations int `yaml:"max_iterations" validate:"gt=0"`
}

// TelemetryConfig configures the ambient observability stack.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
	Output string `yaml:"output"`
}

// MetricsConfig configures prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// TracingConfig configures distributed tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter" validate:"omitempty,oneof=otlp stdout none"`
	Endpoint     string  `yaml:"endpoint"`
	Insecure     bool    `yaml:"insecure"`
	SamplingRate float64 `yaml:"sampling_rate" validate:"gte=0,lte=1"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Solver: SolverConfig{
			ConvergenceThreshold: 0.001,
			MaxIterations:        100,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "console",
				Output: "stderr",
			},
			Metrics: MetricsConfig{
				Enabled:   true,
				Namespace: "faulter",
			},
			Tracing: TracingConfig{
				Enabled:      false,
				Exporter:     "none",
				Endpoint:     "localhost:4317",
				Insecure:     true,
				SamplingRate: 1.0,
			},
		},
	}
}

// Load reads path, overlays it onto the defaults, and validates the
// result. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

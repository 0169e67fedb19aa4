// Package telemetry provides structured logging, metrics, and tracing for
// the graph execution engine.
package telemetry

import (
	"fmt"
	"time"
)

// Config contains the full telemetry configuration.
type Config struct {
	// ServiceName identifies the service in logs, metrics, and traces.
	ServiceName string

	// ServiceVersion is the running version.
	ServiceVersion string

	// Environment is the deployment environment (dev, staging, prod).
	Environment string

	// Logging configures structured logging.
	Logging LoggingConfig

	// Metrics configures prometheus metrics.
	Metrics MetricsConfig

	// Tracing configures distributed tracing.
	Tracing TracingConfig
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is "console" or "json".
	Format string

	// Output is "stdout", "stderr", or a file path.
	Output string
}

// MetricsConfig configures prometheus metrics collection.
type MetricsConfig struct {
	// Enabled turns metric collection on. When false all recording
	// calls are no-ops.
	Enabled bool

	// Namespace prefixes every metric name.
	Namespace string
}

// TracingConfig configures distributed tracing.
type TracingConfig struct {
	// Enabled turns span export on.
	Enabled bool

	// Exporter is "otlp", "stdout", or "none".
	Exporter string

	// Endpoint is the OTLP gRPC collector endpoint.
	Endpoint string

	// Insecure disables TLS on the OTLP connection.
	Insecure bool

	// SamplingRate is the head sampling ratio in [0, 1].
	SamplingRate float64

	// ExportTimeout bounds a single batch export.
	ExportTimeout time.Duration
}

// DefaultConfig returns a development-friendly configuration: console
// logs at info, metrics enabled, tracing off.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "faulter",
		ServiceVersion: "dev",
		Environment:    "dev",
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
			Enabled:       false,
			Exporter:      "none",
			Endpoint:      "localhost:4317",
			Insecure:      true,
			SamplingRate:  1.0,
			ExportTimeout: 30 * time.Second,
		},
	}
}

// Validate checks the configuration for unusable values.
func (c Config) Validate() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", c.Logging.Format)
	}
	switch c.Tracing.Exporter {
	case "", "otlp", "stdout", "none":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", c.Tracing.Exporter)
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return fmt.Errorf("sampling rate must be in [0, 1], got %v", c.Tracing.SamplingRate)
	}
	return nil
}

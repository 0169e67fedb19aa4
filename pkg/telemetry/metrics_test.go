package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordSolve("ok", time.Second)
	m.ObserveCycleIterations(3)
	m.RecordNonConvergence()
	m.AddSweepSamples(10)
	m.SetSignaturesStored(2)
	if m.Handler() != nil {
		t.Error("Expected nil handler from nil metrics")
	}
}

func TestMetrics_DisabledIsNoOp(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	m.RecordSolve("ok", time.Second)
	m.RecordNonConvergence()
	if m.Handler() != nil {
		t.Error("Expected nil handler when disabled")
	}
}

func TestMetrics_Records(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: true, Namespace: "faulter"})
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	m.RecordSolve("ok", 100*time.Millisecond)
	m.RecordSolve("ok", 200*time.Millisecond)
	m.RecordSolve("error", time.Millisecond)
	m.RecordNonConvergence()
	m.AddSweepSamples(50)
	m.SetSignaturesStored(3)

	if got := testutil.ToFloat64(m.solvesTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("Expected 2 ok solves, got %v", got)
	}
	if got := testutil.ToFloat64(m.solvesTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("Expected 1 error solve, got %v", got)
	}
	if got := testutil.ToFloat64(m.nonConvergence); got != 1 {
		t.Errorf("Expected 1 non-convergence, got %v", got)
	}
	if got := testutil.ToFloat64(m.sweepSamplesTotal); got != 50 {
		t.Errorf("Expected 50 sweep samples, got %v", got)
	}
	if got := testutil.ToFloat64(m.signaturesStored); got != 3 {
		t.Errorf("Expected gauge 3, got %v", got)
	}
	if m.Handler() == nil {
		t.Error("Expected non-nil handler when enabled")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got: %v", err)
	}

	bad := DefaultConfig()
	bad.Logging.Format = "xml"
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for unsupported log format")
	}

	bad = DefaultConfig()
	bad.Tracing.SamplingRate = 1.5
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for out-of-range sampling rate")
	}
}

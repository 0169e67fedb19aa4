// Package engine is the top-level orchestrator: it materializes graph
// descriptions through the node registry, delegates ordering and
// execution to the solver, and drives parameter sweeps that produce
// signature vectors.
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/faulter/faulter/pkg/node"
	"github.com/faulter/faulter/pkg/solver"
	"github.com/faulter/faulter/pkg/state"
	"github.com/faulter/faulter/pkg/telemetry"
)

// Config assembles an Engine. Nil fields fall back to defaults: the
// built-in registry, a solver with default convergence parameters, and
// no metrics.
type Config struct {
	Registry *node.Registry
	Solver   *solver.Solver
	Metrics  *telemetry.Metrics
}

// Engine evaluates graph descriptions. Each Run or RunSweep invocation
// owns an independent variable store and node set; the engine itself
// holds no per-request state and is safe for sequential reuse.
type Engine struct {
	builder *Builder
	solver  *solver.Solver
	metrics *telemetry.Metrics
	logger  zerolog.Logger
}

// New creates an engine from cfg.
func New(cfg Config) *Engine {
	registry := cfg.Registry
	if registry == nil {
		registry = node.DefaultRegistry()
	}
	slv := cfg.Solver
	if slv == nil {
		slv = solver.New(0, 0)
	}
	return &Engine{
		builder: NewBuilder(registry),
		solver:  slv,
		metrics: cfg.Metrics,
		logger:  log.With().Str("component", "engine").Logger(),
	}
}

// Run materializes desc, solves it against a fresh store seeded with
// initial, and returns the final variable mapping plus execution
// metadata. Non-convergence of a feedback loop is reported on the
// result, never as an error.
func (e *Engine) Run(desc Description, initial map[string]float64) (*SolveResult, error) {
	runID := uuid.NewString()
	logger := e.logger.With().Str("run_id", runID).Logger()
	start := time.Now()

	bg, err := e.builder.Build(desc)
	if err != nil {
		e.metrics.RecordSolve("build_error", time.Since(start))
		return nil, classify(err).WithOperation("solve")
	}

	logger.Debug().
		Int("nodes", len(bg.Nodes)).
		Int("edges", len(bg.Edges)).
		Msg("graph materialized")

	st := state.New(initial)
	res, err := e.solver.Solve(bg.Graph(), bg.Nodes, st)
	if err != nil {
		e.metrics.RecordSolve("error", time.Since(start))
		return nil, classify(err).WithOperation("solve")
	}

	e.metrics.RecordSolve("ok", time.Since(start))
	e.metrics.ObserveCycleIterations(res.Iterations)
	if !res.Converged {
		e.metrics.RecordNonConvergence()
	}

	logger.Info().
		Int("nodes", len(bg.Nodes)).
		Int("edges", len(bg.Edges)).
		Int("invocations", len(res.ExecutionOrder)).
		Bool("converged", res.Converged).
		Msg("solve complete")

	return &SolveResult{
		State:          st.Values(),
		ExecutionOrder: res.ExecutionOrder,
		NodeCount:      len(bg.Nodes),
		EdgeCount:      len(bg.Edges),
		Converged:      res.Converged,
		Iterations:     res.Iterations,
	}, nil
}

// ExecutionOrder returns the topological order of desc without computing
// any node. Cyclic vertices have no topological position and are absent
// from the returned order; phantom endpoints of dangling edges are
// included, since ordering is a property of the graph, not the node set.
func (e *Engine) ExecutionOrder(desc Description) ([]string, error) {
	bg, err := e.builder.Build(desc)
	if err != nil {
		return nil, classify(err).WithOperation("order")
	}
	return e.solver.TopologicalOrder(bg.Graph()), nil
}

// RunSweep drives the sweep configured on sweepNodeID: for each of the N
// evenly spaced samples it builds a fresh store from initial, forces the
// sweep variable to the sample value, solves the entire graph (the sweep
// node included), and records the configured output variable. Feedback
// loops reconverge independently per sample.
func (e *Engine) RunSweep(desc Description, sweepNodeID string, initial map[string]float64) (*SweepResult, error) {
	runID := uuid.NewString()
	logger := e.logger.With().Str("run_id", runID).Str("sweep_node", sweepNodeID).Logger()

	bg, err := e.builder.Build(desc)
	if err != nil {
		return nil, classify(err).WithOperation("sweep")
	}

	n, ok := bg.Nodes[sweepNodeID]
	if !ok {
		return nil, NewNotFoundError(sweepNodeID).WithOperation("sweep")
	}
	sweep, ok := n.(*node.Sweep)
	if !ok {
		return nil, NewTypeMismatchError(sweepNodeID, n.Type(), "sweep").WithOperation("sweep")
	}

	samples := sweep.Range()
	signature := make([]float64, 0, len(samples))
	graph := bg.Graph()

	for i, sample := range samples {
		st := state.New(initial)
		st.Set(sweep.SweepVar(), sample)

		res, err := e.solver.Solve(graph, bg.Nodes, st)
		if err != nil {
			return nil, classify(err).WithOperation("sweep")
		}
		if !res.Converged {
			logger.Warn().
				Int("sample", i).
				Float64("value", sample).
				Msg("feedback loop did not converge for sweep sample")
			e.metrics.RecordNonConvergence()
		}

		signature = append(signature, st.Get(sweep.OutputVar(), 0))
	}

	sweep.SetResultVector(signature)
	e.metrics.AddSweepSamples(len(samples))

	logger.Info().
		Str("sweep_var", sweep.SweepVar()).
		Str("output_var", sweep.OutputVar()).
		Int("steps", len(samples)).
		Msg("sweep complete")

	return &SweepResult{
		SweepVar:        sweep.SweepVar(),
		OutputVar:       sweep.OutputVar(),
		SweepValues:     samples,
		SignatureVector: signature,
		Steps:           len(samples),
	}, nil
}

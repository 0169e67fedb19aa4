package node

import "github.com/faulter/faulter/pkg/state"

// Sweep holds the configuration for a parameter sweep: which variable to
// sweep, which output to collect, and the sample range. The sweep itself
// is driven externally by the engine, which re-solves the graph once per
// sample; a standalone Compute call is a pass-through that copies the
// current value of the output variable into the node's result slot.
//
// Params: sweep_var, output_var, min_val (default 0), max_val (default
// 100), steps (default 100). Output fallback: "sweep_result".
type Sweep struct {
	base

	// resultVector caches the most recently produced signature vector.
	// Introspection only; it never influences Compute.
	resultVector []float64
}

// NewSweep constructs a Sweep node from its descriptor.
func NewSweep(spec Spec) (Node, error) {
	return &Sweep{base: newBase("sweep", spec)}, nil
}

// Compute implements Node.
func (n *Sweep) Compute(st *state.State) error {
	val := st.Get(n.OutputVar(), 0)
	st.Set(n.output(0, "sweep_result"), val)
	return nil
}

// SweepVar returns the name of the variable to sweep.
func (n *Sweep) SweepVar() string {
	return n.params.String("sweep_var", "")
}

// OutputVar returns the name of the variable collected per sample.
func (n *Sweep) OutputVar() string {
	return n.params.String("output_var", "")
}

// MinVal returns the sweep start value.
func (n *Sweep) MinVal() float64 {
	return n.params.Float("min_val", 0.0)
}

// MaxVal returns the sweep end value.
func (n *Sweep) MaxVal() float64 {
	return n.params.Float("max_val", 100.0)
}

// Steps returns the number of sweep samples.
func (n *Sweep) Steps() int {
	return n.params.Int("steps", 100)
}

// Range returns the evenly spaced sample values over [MinVal, MaxVal],
// inclusive of both endpoints. Steps==1 yields only the minimum.
func (n *Sweep) Range() []float64 {
	steps := n.Steps()
	if steps <= 0 {
		return nil
	}
	if steps == 1 {
		return []float64{n.MinVal()}
	}

	minVal, maxVal := n.MinVal(), n.MaxVal()
	step := (maxVal - minVal) / float64(steps-1)

	values := make([]float64, steps)
	for i := range values {
		values[i] = minVal + float64(i)*step
	}
	// Pin the endpoint so accumulated float error cannot shift it.
	values[steps-1] = maxVal
	return values
}

// SetResultVector stores the signature vector from the last sweep run.
func (n *Sweep) SetResultVector(vec []float64) {
	n.resultVector = vec
}

// ResultVector returns the signature vector from the last sweep run, or
// nil if no sweep has run yet.
func (n *Sweep) ResultVector() []float64 {
	return n.resultVector
}

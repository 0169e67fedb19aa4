// Package node defines the compute-graph node model: the Node interface,
// the built-in physical-subsystem variants (motor, heater, hydraulic,
// formula, sweep), and the constructor registry that maps type tags to
// variants.
package node

import (
	"fmt"

	"github.com/faulter/faulter/pkg/state"
)

// Node is one unit of computation over the shared variable store. A node
// reads its declared input variables, writes its declared outputs, and
// holds no state across Compute calls. Nodes never reference other nodes;
// relationships exist only through edge ids and shared variable names.
type Node interface {
	// ID returns the caller-assigned unique identifier.
	ID() string

	// Label returns the human-readable label (falls back to the id).
	Label() string

	// Type returns the registry type tag this node was created from.
	Type() string

	// Inputs returns the declared input variable names, in order.
	Inputs() []string

	// Outputs returns the declared output variable names, in order.
	Outputs() []string

	// Compute executes the node's logic against the store.
	Compute(st *state.State) error
}

// Spec is the external descriptor a node is constructed from.
type Spec struct {
	// ID is the unique node identifier assigned by the caller.
	ID string

	// Label is an optional human-readable name.
	Label string

	// Params holds variant-specific configuration values.
	Params Params

	// Inputs lists the variable names the node reads.
	Inputs []string

	// Outputs lists the variable names the node writes.
	Outputs []string
}

// Constructor builds a node of one variant from its descriptor.
type Constructor func(spec Spec) (Node, error)

// Params is a variant-specific configuration map. Numeric values may arrive
// as float64 or int depending on the JSON decoder; accessors normalize them.
type Params map[string]any

// Float returns the parameter under key as a float64, or def when the key
// is absent or not numeric.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// Int returns the parameter under key as an int, or def when the key is
// absent or not numeric.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// String returns the parameter under key as a string, or def otherwise.
func (p Params) String(key string, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

// base carries the descriptor fields shared by every variant.
type base struct {
	id      string
	label   string
	typeTag string
	params  Params
	inputs  []string
	outputs []string
}

func newBase(typeTag string, spec Spec) base {
	label := spec.Label
	if label == "" {
		label = spec.ID
	}
	params := spec.Params
	if params == nil {
		params = Params{}
	}
	return base{
		id:      spec.ID,
		label:   label,
		typeTag: typeTag,
		params:  params,
		inputs:  spec.Inputs,
		outputs: spec.Outputs,
	}
}

func (b *base) ID() string        { return b.id }
func (b *base) Label() string     { return b.label }
func (b *base) Type() string      { return b.typeTag }
func (b *base) Inputs() []string  { return b.inputs }
func (b *base) Outputs() []string { return b.outputs }

// input returns the declared input name at position i, or fallback when
// the descriptor declared fewer inputs.
func (b *base) input(i int, fallback string) string {
	if i < len(b.inputs) {
		return b.inputs[i]
	}
	return fallback
}

// output returns the declared output name at position i, or fallback when
// the descriptor declared fewer outputs.
func (b *base) output(i int, fallback string) string {
	if i < len(b.outputs) {
		return b.outputs[i]
	}
	return fallback
}

// EvaluationError reports a formula expression that failed to evaluate.
// It names the node and the offending expression and wraps the cause.
type EvaluationError struct {
	NodeID     string
	Expression string
	Err        error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("formula node %q: failed to evaluate expression %q: %v",
		e.NodeID, e.Expression, e.Err)
}

// Unwrap returns the underlying evaluation failure.
func (e *EvaluationError) Unwrap() error {
	return e.Err
}

package engine

// NodeSpec is the external descriptor of one node in a graph description,
// as produced by the graph editor frontend.
type NodeSpec struct {
	// ID is the unique node identifier.
	ID string `json:"id"`

	// Type is the registry type tag (motor, heater, hydraulic, formula,
	// sweep, or any registered extension).
	Type string `json:"type"`

	// Label is an optional human-readable name.
	Label string `json:"label,omitempty"`

	// Params holds variant-specific configuration. Values are numbers
	// except for the formula expression string.
	Params map[string]any `json:"params,omitempty"`

	// Inputs lists the variable names the node reads, in order.
	Inputs []string `json:"inputs,omitempty"`

	// Outputs lists the variable names the node writes, in order.
	Outputs []string `json:"outputs,omitempty"`
}

// EdgeSpec is the external descriptor of one precedence edge.
type EdgeSpec struct {
	// Source must execute before Target.
	Source string `json:"source"`
	Target string `json:"target"`
}

// Description is one complete graph evaluation request: the node set and
// the edge set. Edges are pure ordering constraints; data flows through
// the shared variable store.
type Description struct {
	Nodes []NodeSpec `json:"nodes"`
	Edges []EdgeSpec `json:"edges"`
}

// SolveResult is the outcome of one full graph solve.
type SolveResult struct {
	// State is the final variable mapping.
	State map[string]float64 `json:"state"`

	// ExecutionOrder lists node ids in actual invocation order, with
	// cyclic nodes repeated once per iteration they ran in.
	ExecutionOrder []string `json:"execution_order"`

	// NodeCount and EdgeCount echo the size of the solved graph.
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`

	// Converged is false when a cyclic block exhausted its iteration
	// budget; the state still holds the best-effort values.
	Converged bool `json:"converged"`

	// Iterations is the number of cyclic-block iterations run.
	Iterations int `json:"iterations"`
}

// SweepResult is the outcome of one parameter sweep: the signature vector
// and the sample values that produced it, in sample order.
type SweepResult struct {
	// SweepVar is the variable that was swept.
	SweepVar string `json:"sweep_var"`

	// OutputVar is the variable collected per sample.
	OutputVar string `json:"output_var"`

	// SweepValues are the N sample values, evenly spaced over the
	// configured range, endpoints inclusive.
	SweepValues []float64 `json:"sweep_values"`

	// SignatureVector holds the collected output values, one per sample,
	// in sample order.
	SignatureVector []float64 `json:"signature_vector"`

	// Steps is the sample count.
	Steps int `json:"steps"`
}

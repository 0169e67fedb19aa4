package node

import "github.com/faulter/faulter/pkg/state"

// Hydraulic models a pump or actuator converting pressure and flow rate
// into a current draw:
//
//	power   = pressure * flow_rate
//	current = power / (efficiency * voltage)
//
// A zero denominator yields a current of 0 rather than an error.
//
// Params: voltage (default 400), efficiency (default 0.80).
// Input fallbacks: "pressure", "flow_rate". Output fallback:
// "hydraulic_current".
type Hydraulic struct {
	base
}

// NewHydraulic constructs a Hydraulic node from its descriptor.
func NewHydraulic(spec Spec) (Node, error) {
	return &Hydraulic{base: newBase("hydraulic", spec)}, nil
}

// Compute implements Node.
func (n *Hydraulic) Compute(st *state.State) error {
	pressure := st.Get(n.input(0, "pressure"), 0)
	flowRate := st.Get(n.input(1, "flow_rate"), 0)
	voltage := n.params.Float("voltage", 400.0)
	efficiency := n.params.Float("efficiency", 0.80)

	power := pressure * flowRate

	current := 0.0
	if efficiency*voltage != 0 {
		current = power / (efficiency * voltage)
	}

	st.Set(n.output(0, "hydraulic_current"), current)
	return nil
}

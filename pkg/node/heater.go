package node

import "github.com/faulter/faulter/pkg/state"

// Heater models temperature-dependent resistance and the resulting current:
//
//	resistance = r0 * (1 + alpha * (temperature - t0))
//	current    = voltage / resistance
//
// A zero resistance yields a current of 0 rather than an error.
//
// Params: r0 (default 10), alpha (default 0.004), t0 (default 25),
// voltage (default 230). Input fallback: "temperature". Output fallbacks:
// "heater_resistance", "heater_current".
type Heater struct {
	base
}

// NewHeater constructs a Heater node from its descriptor.
func NewHeater(spec Spec) (Node, error) {
	return &Heater{base: newBase("heater", spec)}, nil
}

// Compute implements Node.
func (n *Heater) Compute(st *state.State) error {
	temperature := st.Get(n.input(0, "temperature"), 0)
	r0 := n.params.Float("r0", 10.0)
	alpha := n.params.Float("alpha", 0.004)
	t0 := n.params.Float("t0", 25.0)
	voltage := n.params.Float("voltage", 230.0)

	resistance := r0 * (1 + alpha*(temperature-t0))

	current := 0.0
	if resistance != 0 {
		current = voltage / resistance
	}

	st.Set(n.output(0, "heater_resistance"), resistance)
	st.Set(n.output(1, "heater_current"), current)
	return nil
}

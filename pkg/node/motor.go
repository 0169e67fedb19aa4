package node

import (
	"math"

	"github.com/faulter/faulter/pkg/state"
)

// Motor converts torque and rotational speed into an electrical current
// draw:
//
//	omega   = speed * 2*pi / 60        (RPM to rad/s)
//	power   = torque * omega
//	current = power / (efficiency * voltage)
//
// A zero denominator yields a current of 0 rather than an error.
//
// Params: voltage (default 230), efficiency (default 0.85).
// Input fallbacks: "torque", "speed". Output fallback: "motor_current".
type Motor struct {
	base
}

// NewMotor constructs a Motor node from its descriptor.
func NewMotor(spec Spec) (Node, error) {
	return &Motor{base: newBase("motor", spec)}, nil
}

// Compute implements Node.
func (n *Motor) Compute(st *state.State) error {
	torque := st.Get(n.input(0, "torque"), 0)
	speed := st.Get(n.input(1, "speed"), 0)
	voltage := n.params.Float("voltage", 230.0)
	efficiency := n.params.Float("efficiency", 0.85)

	omega := speed * 2 * math.Pi / 60
	power := torque * omega

	current := 0.0
	if efficiency*voltage != 0 {
		current = power / (efficiency * voltage)
	}

	st.Set(n.output(0, "motor_current"), current)
	return nil
}

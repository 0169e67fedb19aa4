package node

import (
	"github.com/faulter/faulter/pkg/expr"
	"github.com/faulter/faulter/pkg/state"
)

// Formula evaluates an arithmetic expression string against a namespace
// built from every variable currently in the store, the expr function
// whitelist, and the constant pi. Unlike the other variants it may read
// any store variable, not only its declared inputs, since the expression
// text can reference arbitrary names.
//
// Params: expression (default "0"). Output fallback: "formula_result".
type Formula struct {
	base
}

// NewFormula constructs a Formula node from its descriptor.
func NewFormula(spec Spec) (Node, error) {
	return &Formula{base: newBase("formula", spec)}, nil
}

// Compute implements Node. Any evaluation failure (undefined name,
// disallowed call, runtime math fault) is returned as an
// *EvaluationError naming the node and expression.
func (n *Formula) Compute(st *state.State) error {
	expression := n.params.String("expression", "0")

	result, err := expr.Eval(expression, st.Values())
	if err != nil {
		return &EvaluationError{NodeID: n.id, Expression: expression, Err: err}
	}

	st.Set(n.output(0, "formula_result"), result)
	return nil
}

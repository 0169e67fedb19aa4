package solver

import (
	"math"
	"testing"

	"github.com/faulter/faulter/pkg/node"
	"github.com/faulter/faulter/pkg/state"
)

func formula(t *testing.T, id, expression string, outputs ...string) node.Node {
	t.Helper()
	n, err := node.NewFormula(node.Spec{
		ID:      id,
		Outputs: outputs,
		Params:  node.Params{"expression": expression},
	})
	if err != nil {
		t.Fatalf("Failed to build formula node %s: %v", id, err)
	}
	return n
}

func chainGraph(t *testing.T) (map[string]node.Node, *Graph) {
	t.Helper()
	nodes := map[string]node.Node{
		"A": formula(t, "A", "1 + 1", "a_out"),
		"B": formula(t, "B", "a_out * 2", "b_out"),
		"C": formula(t, "C", "b_out + 10", "c_out"),
	}
	g := BuildGraph([]string{"A", "B", "C"}, []Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
	})
	return nodes, g
}

func indexOf(order []string, id string) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}

func TestSolve_LinearChainOrder(t *testing.T) {
	nodes, g := chainGraph(t)
	st := state.New(nil)

	res, err := New(0, 0).Solve(g, nodes, st)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	order := res.ExecutionOrder
	if !(indexOf(order, "A") < indexOf(order, "B") && indexOf(order, "B") < indexOf(order, "C")) {
		t.Errorf("Execution order violates dependencies: %v", order)
	}
	if !res.Converged || res.Iterations != 0 {
		t.Errorf("Expected converged acyclic result, got %+v", res)
	}
}

func TestSolve_LinearChainValues(t *testing.T) {
	nodes, g := chainGraph(t)
	st := state.New(nil)

	if _, err := New(0, 0).Solve(g, nodes, st); err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	for name, want := range map[string]float64{"a_out": 2, "b_out": 4, "c_out": 14} {
		if got := st.Get(name, 0); math.Abs(got-want) > 1e-6 {
			t.Errorf("Expected %s=%v, got %v", name, want, got)
		}
	}
}

func TestSolve_SingleNodeNoEdges(t *testing.T) {
	nodes := map[string]node.Node{
		"alone": formula(t, "alone", "42", "val"),
	}
	g := BuildGraph([]string{"alone"}, nil)
	st := state.New(nil)

	res, err := New(0, 0).Solve(g, nodes, st)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if len(res.ExecutionOrder) != 1 || res.ExecutionOrder[0] != "alone" {
		t.Errorf("Expected execution order [alone], got %v", res.ExecutionOrder)
	}
	if got := st.Get("val", 0); math.Abs(got-42) > 1e-6 {
		t.Errorf("Expected val=42, got %v", got)
	}
}

func TestSolve_FeedbackLoopConverges(t *testing.T) {
	// x = 0.5*y + 1, y = 0.3*x + 2 has the fixed point x ~= 2.3529,
	// y ~= 2.7059.
	nodes := map[string]node.Node{
		"X": formula(t, "X", "0.5 * y_val + 1", "x_val"),
		"Y": formula(t, "Y", "0.3 * x_val + 2", "y_val"),
	}
	g := BuildGraph([]string{"X", "Y"}, []Edge{
		{Source: "X", Target: "Y"},
		{Source: "Y", Target: "X"},
	})
	st := state.New(map[string]float64{"x_val": 0, "y_val": 0})

	res, err := New(0.001, 200).Solve(g, nodes, st)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if got := st.Get("x_val", 0); math.Abs(got-2.3529) > 0.01 {
		t.Errorf("Expected x_val ~= 2.3529, got %v", got)
	}
	if got := st.Get("y_val", 0); math.Abs(got-2.7059) > 0.01 {
		t.Errorf("Expected y_val ~= 2.7059, got %v", got)
	}
	if len(res.ExecutionOrder) <= 2 {
		t.Errorf("Expected more than one iteration, execution log: %v", res.ExecutionOrder)
	}
	if !res.Converged {
		t.Error("Expected convergence")
	}
	if res.Iterations < 2 {
		t.Errorf("Expected at least 2 iterations, got %d", res.Iterations)
	}
}

func TestSolve_NonConvergenceIsSoft(t *testing.T) {
	// x = 2*x + 1 diverges; the solver must stop at the cap and report
	// non-convergence without an error.
	nodes := map[string]node.Node{
		"X": formula(t, "X", "2 * x_val + 1", "x_val"),
	}
	g := BuildGraph([]string{"X"}, []Edge{{Source: "X", Target: "X"}})
	st := state.New(map[string]float64{"x_val": 0})

	res, err := New(0.001, 10).Solve(g, nodes, st)
	if err != nil {
		t.Fatalf("Expected soft non-convergence, got error: %v", err)
	}
	if res.Converged {
		t.Error("Expected Converged=false")
	}
	if res.Iterations != 10 {
		t.Errorf("Expected the full iteration budget (10), got %d", res.Iterations)
	}
	if len(res.ExecutionOrder) != 10 {
		t.Errorf("Expected 10 invocations of X, got %d", len(res.ExecutionOrder))
	}
}

func TestSolve_PrePostCyclePhases(t *testing.T) {
	// src feeds the X<->Y loop; sink reads the loop's settled output.
	nodes := map[string]node.Node{
		"src":  formula(t, "src", "4", "seed"),
		"X":    formula(t, "X", "0.5 * y_val + seed", "x_val"),
		"Y":    formula(t, "Y", "0.25 * x_val", "y_val"),
		"sink": formula(t, "sink", "x_val + 100", "sink_out"),
	}
	g := BuildGraph([]string{"src", "X", "Y", "sink"}, []Edge{
		{Source: "src", Target: "X"},
		{Source: "X", Target: "Y"},
		{Source: "Y", Target: "X"},
		{Source: "X", Target: "sink"},
	})
	st := state.New(map[string]float64{"x_val": 0, "y_val": 0})

	res, err := New(1e-6, 500).Solve(g, nodes, st)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	order := res.ExecutionOrder
	if order[0] != "src" {
		t.Errorf("Expected src to run first, got order %v", order)
	}
	if order[len(order)-1] != "sink" {
		t.Errorf("Expected sink to run last, got order %v", order)
	}

	// Fixed point: x = 0.5*(0.25x) + 4 => x = 4/0.875.
	wantX := 4.0 / 0.875
	if got := st.Get("x_val", 0); math.Abs(got-wantX) > 0.01 {
		t.Errorf("Expected x_val ~= %v, got %v", wantX, got)
	}
	if got := st.Get("sink_out", 0); math.Abs(got-(wantX+100)) > 0.01 {
		t.Errorf("Expected sink_out ~= %v, got %v", wantX+100, got)
	}
}

func TestSolve_TransitiveDownstreamRunsAfterCycle(t *testing.T) {
	// mid is acyclic and sits one hop after the loop; far is two hops
	// downstream through mid. Both must run after the cyclic block even
	// though far has no direct cyclic predecessor.
	nodes := map[string]node.Node{
		"X":   formula(t, "X", "0.5 * y_val + 1", "x_val"),
		"Y":   formula(t, "Y", "0.5 * x_val", "y_val"),
		"mid": formula(t, "mid", "x_val * 10", "mid_out"),
		"far": formula(t, "far", "mid_out + 1", "far_out"),
	}
	g := BuildGraph([]string{"far", "mid", "X", "Y"}, []Edge{
		{Source: "X", Target: "Y"},
		{Source: "Y", Target: "X"},
		{Source: "X", Target: "mid"},
		{Source: "mid", Target: "far"},
	})
	st := state.New(map[string]float64{"x_val": 0, "y_val": 0})

	res, err := New(1e-9, 1000).Solve(g, nodes, st)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	order := res.ExecutionOrder
	lastCyclic := -1
	for i, id := range order {
		if id == "X" || id == "Y" {
			lastCyclic = i
		}
	}
	if !(indexOf(order, "mid") > lastCyclic) {
		t.Errorf("mid must run after the cyclic block: %v", order)
	}
	if !(indexOf(order, "far") > indexOf(order, "mid")) {
		t.Errorf("far must run after mid: %v", order)
	}

	// x = 0.5*(0.5x) + 1 => x = 4/3; far = 10x + 1.
	wantFar := 10*(4.0/3.0) + 1
	if got := st.Get("far_out", 0); math.Abs(got-wantFar) > 0.001 {
		t.Errorf("Expected far_out ~= %v, got %v", wantFar, got)
	}
}

func TestSolve_DanglingEdgesAreTolerated(t *testing.T) {
	nodes := map[string]node.Node{
		"A": formula(t, "A", "1", "a_out"),
		"B": formula(t, "B", "a_out + 1", "b_out"),
	}
	g := BuildGraph([]string{"A", "B"}, []Edge{
		{Source: "A", Target: "B"},
		{Source: "ghost", Target: "B"},
		{Source: "B", Target: "phantom"},
	})
	st := state.New(nil)

	res, err := New(0, 0).Solve(g, nodes, st)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	for _, id := range res.ExecutionOrder {
		if id == "ghost" || id == "phantom" {
			t.Errorf("Phantom vertex %q appeared in execution log", id)
		}
	}
	if len(res.ExecutionOrder) != 2 {
		t.Errorf("Expected 2 executed nodes, got %v", res.ExecutionOrder)
	}
	if got := st.Get("b_out", 0); got != 2 {
		t.Errorf("Expected b_out=2, got %v", got)
	}
}

func TestSolve_ComputeErrorPropagates(t *testing.T) {
	nodes := map[string]node.Node{
		"bad": formula(t, "bad", "undefined_thing + 1", "out"),
	}
	g := BuildGraph([]string{"bad"}, nil)

	_, err := New(0, 0).Solve(g, nodes, state.New(nil))
	if err == nil {
		t.Fatal("Expected evaluation error to propagate")
	}
}

func TestTopologicalOrder_DiscoveryOrderTieBreak(t *testing.T) {
	// Three roots with no constraints between them must come out in
	// discovery order, then their shared successor.
	g := BuildGraph([]string{"r2", "r1", "r3", "end"}, []Edge{
		{Source: "r2", Target: "end"},
		{Source: "r1", Target: "end"},
		{Source: "r3", Target: "end"},
	})

	order := New(0, 0).TopologicalOrder(g)
	want := []string{"r2", "r1", "r3", "end"}
	if len(order) != len(want) {
		t.Fatalf("Expected %d vertices, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Expected discovery-order result %v, got %v", want, order)
		}
	}
}

func TestCyclicVertices(t *testing.T) {
	g := BuildGraph([]string{"a", "b", "c", "d"}, []Edge{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
		{Source: "c", Target: "b"},
		{Source: "c", Target: "d"},
		{Source: "d", Target: "d"}, // self-loop
	})

	cyclic := g.CyclicVertices()
	for _, id := range []string{"b", "c", "d"} {
		if !cyclic[id] {
			t.Errorf("Expected %q to be cyclic", id)
		}
	}
	if cyclic["a"] {
		t.Error("Expected a to be acyclic")
	}
}

func TestGraph_DuplicateEdgesCollapse(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")

	if g.InDegree("b") != 1 {
		t.Errorf("Expected in-degree 1 after duplicate edge, got %d", g.InDegree("b"))
	}
}

package solver

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/faulter/faulter/pkg/node"
	"github.com/faulter/faulter/pkg/state"
)

// Convergence defaults for cyclic blocks.
const (
	DefaultConvergenceThreshold = 0.001
	DefaultMaxIterations        = 100
)

// Solver executes a dependency graph: Kahn's topological sort for acyclic
// regions and bounded fixed-point iteration for cyclic ones.
type Solver struct {
	threshold     float64
	maxIterations int
	logger        zerolog.Logger
}

// New creates a solver. Non-positive arguments fall back to the defaults.
func New(threshold float64, maxIterations int) *Solver {
	if threshold <= 0 {
		threshold = DefaultConvergenceThreshold
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Solver{
		threshold:     threshold,
		maxIterations: maxIterations,
		logger:        log.With().Str("component", "solver").Logger(),
	}
}

// Result reports one solve pass. ExecutionOrder lists node ids in actual
// invocation order; a node inside a cycle appears once per iteration it
// ran in. Non-convergence is a soft condition, reported here rather than
// as an error.
type Result struct {
	// ExecutionOrder is the flat invocation log.
	ExecutionOrder []string

	// Converged is false only when a cyclic block exhausted its
	// iteration budget before settling.
	Converged bool

	// Iterations is the number of cyclic-block iterations that ran
	// (0 for a pure DAG).
	Iterations int

	// FinalDelta is the last measured delta of the cyclic block
	// (0 for a pure DAG).
	FinalDelta float64
}

// Solve executes every node of g against st. Vertices without a node in
// nodes (phantom endpoints of dangling edges) affect ordering but are
// never invoked and never appear in the execution log.
func (s *Solver) Solve(g *Graph, nodes map[string]node.Node, st *state.State) (*Result, error) {
	res := &Result{Converged: true}

	cyclic := g.CyclicVertices()
	if len(cyclic) == 0 {
		order := s.topoSort(g)
		if err := s.execute(order, nodes, st, res); err != nil {
			return nil, err
		}
		return res, nil
	}

	s.logger.Debug().
		Int("cyclic_nodes", len(cyclic)).
		Int("total_nodes", g.Len()).
		Msg("graph contains feedback loops")

	// Order the acyclic region in isolation, then split it around the
	// cyclic block: anything transitively downstream of a cycle must wait
	// until the loop has settled.
	acyclicSet := make(map[string]bool, g.Len())
	for _, id := range g.Vertices() {
		if !cyclic[id] {
			acyclicSet[id] = true
		}
	}
	acyclicOrder := s.topoSort(g.induced(acyclicSet))
	downstream := g.reachableFrom(cyclic)

	var preCycle, postCycle []string
	for _, id := range acyclicOrder {
		if downstream[id] {
			postCycle = append(postCycle, id)
		} else {
			preCycle = append(preCycle, id)
		}
	}

	if err := s.execute(preCycle, nodes, st, res); err != nil {
		return nil, err
	}
	if err := s.iterateCycle(g, cyclic, nodes, st, res); err != nil {
		return nil, err
	}
	if err := s.execute(postCycle, nodes, st, res); err != nil {
		return nil, err
	}
	return res, nil
}

// TopologicalOrder returns the execution order of g without computing
// anything. Cyclic vertices are absent from the returned order.
func (s *Solver) TopologicalOrder(g *Graph) []string {
	return s.topoSort(g)
}

// topoSort is Kahn's algorithm. The queue is seeded with zero-in-degree
// vertices in discovery order and successors enqueue in edge insertion
// order as they reach zero; that discovery order is the documented
// tie-breaking contract, not an accident of map iteration.
func (s *Solver) topoSort(g *Graph) []string {
	inDegree := make(map[string]int, g.Len())
	for _, id := range g.Vertices() {
		inDegree[id] = g.InDegree(id)
	}

	var queue []string
	for _, id := range g.Vertices() {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, g.Len())
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, succ := range g.Successors(id) {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) != g.Len() {
		// Leftover vertices outside a detected cycle indicate a bug in
		// cycle detection; warn, never fail the caller.
		missing := make([]string, 0)
		seen := make(map[string]bool, len(order))
		for _, id := range order {
			seen[id] = true
		}
		for _, id := range g.Vertices() {
			if !seen[id] {
				missing = append(missing, id)
			}
		}
		s.logger.Warn().
			Strs("unresolved", missing).
			Msg("topological sort left unresolved vertices, likely undetected cycle")
	}
	return order
}

// execute invokes each listed node once, skipping phantom ids.
func (s *Solver) execute(order []string, nodes map[string]node.Node, st *state.State, res *Result) error {
	for _, id := range order {
		n, ok := nodes[id]
		if !ok {
			continue
		}
		if err := n.Compute(st); err != nil {
			return err
		}
		res.ExecutionOrder = append(res.ExecutionOrder, id)
	}
	return nil
}

// iterateCycle runs the cyclic block to a fixed point. The per-iteration
// order is fixed up front: ascending in-degree within the induced cyclic
// subgraph, ties broken by discovery order (stable sort). Exhausting the
// iteration budget keeps the last values and flags non-convergence.
func (s *Solver) iterateCycle(g *Graph, cyclic map[string]bool, nodes map[string]node.Node, st *state.State, res *Result) error {
	sub := g.induced(cyclic)
	order := append([]string(nil), sub.Vertices()...)
	sort.SliceStable(order, func(i, j int) bool {
		return sub.InDegree(order[i]) < sub.InDegree(order[j])
	})

	delta := 0.0
	for iteration := 1; iteration <= s.maxIterations; iteration++ {
		snapshot := st.Snapshot()

		if err := s.execute(order, nodes, st, res); err != nil {
			return err
		}

		delta = st.Delta(snapshot)
		res.Iterations = iteration
		s.logger.Debug().
			Int("iteration", iteration).
			Float64("delta", delta).
			Msg("cycle iteration")

		if delta < s.threshold {
			s.logger.Debug().
				Int("iterations", iteration).
				Float64("delta", delta).
				Msg("cyclic block converged")
			res.FinalDelta = delta
			return nil
		}
	}

	res.Converged = false
	res.FinalDelta = delta
	s.logger.Warn().
		Int("iterations", s.maxIterations).
		Float64("delta", delta).
		Float64("threshold", s.threshold).
		Msg("cyclic block did not converge, keeping best-effort values")
	return nil
}

// Package solver orders and executes a dependency graph of compute nodes.
// Acyclic regions run once in topological order (Kahn's algorithm); cyclic
// regions, which model physical feedback loops, iterate to a fixed point
// under a convergence threshold and an iteration cap.
package solver

// Edge is a pure precedence constraint: source must execute before target.
// It carries no value; data flows through the shared variable store.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a directed graph over node ids. Vertices are tracked in
// discovery order (AddVertex calls first, then edge endpoints as they
// appear), which is the documented tie-breaking order for topological
// sorting. Duplicate edges collapse to one.
//
// Edges may reference ids with no registered node ("dangling" edges).
// Such phantom vertices participate in in-degree counts and ordering but
// are skipped at execution time.
type Graph struct {
	vertices []string
	present  map[string]bool
	succ     map[string][]string
	pred     map[string][]string
	edgeSet  map[Edge]bool
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		present: make(map[string]bool),
		succ:    make(map[string][]string),
		pred:    make(map[string][]string),
		edgeSet: make(map[Edge]bool),
	}
}

// BuildGraph constructs a graph from an ordered vertex list and an edge
// list, in that discovery order.
func BuildGraph(vertexIDs []string, edges []Edge) *Graph {
	g := NewGraph()
	for _, id := range vertexIDs {
		g.AddVertex(id)
	}
	for _, e := range edges {
		g.AddEdge(e.Source, e.Target)
	}
	return g
}

// AddVertex registers id as a vertex. Adding an existing vertex is a no-op.
func (g *Graph) AddVertex(id string) {
	if g.present[id] {
		return
	}
	g.present[id] = true
	g.vertices = append(g.vertices, id)
}

// AddEdge adds the precedence constraint source -> target, creating
// phantom vertices for unknown endpoints. Duplicate edges are ignored.
func (g *Graph) AddEdge(source, target string) {
	e := Edge{Source: source, Target: target}
	if g.edgeSet[e] {
		return
	}
	g.AddVertex(source)
	g.AddVertex(target)
	g.edgeSet[e] = true
	g.succ[source] = append(g.succ[source], target)
	g.pred[target] = append(g.pred[target], source)
}

// Vertices returns all vertex ids in discovery order.
func (g *Graph) Vertices() []string {
	return g.vertices
}

// Successors returns the direct successors of id in edge insertion order.
func (g *Graph) Successors(id string) []string {
	return g.succ[id]
}

// Predecessors returns the direct predecessors of id in edge insertion
// order.
func (g *Graph) Predecessors(id string) []string {
	return g.pred[id]
}

// InDegree returns the number of incoming edges of id.
func (g *Graph) InDegree(id string) int {
	return len(g.pred[id])
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	return len(g.vertices)
}

// CyclicVertices returns the set of vertices that participate in at least
// one cycle: members of a strongly connected component of size > 1, plus
// vertices with a self-loop. It is a pure function of the graph structure.
func (g *Graph) CyclicVertices() map[string]bool {
	cyclic := make(map[string]bool)
	for _, comp := range g.stronglyConnected() {
		if len(comp) > 1 {
			for _, id := range comp {
				cyclic[id] = true
			}
		}
	}
	for e := range g.edgeSet {
		if e.Source == e.Target {
			cyclic[e.Source] = true
		}
	}
	return cyclic
}

// stronglyConnected computes the strongly connected components with an
// iterative Tarjan traversal (explicit stack, so deep chains cannot
// overflow the goroutine stack).
func (g *Graph) stronglyConnected() [][]string {
	const unvisited = -1

	index := 0
	indices := make(map[string]int, len(g.vertices))
	lowlink := make(map[string]int, len(g.vertices))
	onStack := make(map[string]bool, len(g.vertices))
	var stack []string
	var components [][]string

	for _, id := range g.vertices {
		indices[id] = unvisited
	}

	type frame struct {
		id   string
		next int
	}

	for _, start := range g.vertices {
		if indices[start] != unvisited {
			continue
		}

		callStack := []frame{{id: start}}
		for len(callStack) > 0 {
			f := &callStack[len(callStack)-1]

			if f.next == 0 {
				indices[f.id] = index
				lowlink[f.id] = index
				index++
				stack = append(stack, f.id)
				onStack[f.id] = true
			}

			advanced := false
			for f.next < len(g.succ[f.id]) {
				w := g.succ[f.id][f.next]
				f.next++
				if indices[w] == unvisited {
					callStack = append(callStack, frame{id: w})
					advanced = true
					break
				}
				if onStack[w] && indices[w] < lowlink[f.id] {
					lowlink[f.id] = indices[w]
				}
			}
			if advanced {
				continue
			}

			// All successors visited: pop a component if f.id is a root.
			if lowlink[f.id] == indices[f.id] {
				var comp []string
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp = append(comp, w)
					if w == f.id {
						break
					}
				}
				components = append(components, comp)
			}

			callStack = callStack[:len(callStack)-1]
			if len(callStack) > 0 {
				parent := &callStack[len(callStack)-1]
				if lowlink[f.id] < lowlink[parent.id] {
					lowlink[parent.id] = lowlink[f.id]
				}
			}
		}
	}

	return components
}

// induced returns the subgraph over the given vertex subset, preserving
// the parent graph's discovery order.
func (g *Graph) induced(subset map[string]bool) *Graph {
	sub := NewGraph()
	for _, id := range g.vertices {
		if subset[id] {
			sub.AddVertex(id)
		}
	}
	for _, src := range g.vertices {
		if !subset[src] {
			continue
		}
		for _, dst := range g.succ[src] {
			if subset[dst] {
				sub.AddEdge(src, dst)
			}
		}
	}
	return sub
}

// reachableFrom returns the set of vertices reachable from any vertex in
// seeds by following successor edges, excluding the seeds themselves
// unless re-reached.
func (g *Graph) reachableFrom(seeds map[string]bool) map[string]bool {
	reached := make(map[string]bool)
	var queue []string
	for _, id := range g.vertices {
		if seeds[id] {
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.succ[cur] {
			if !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}
	return reached
}

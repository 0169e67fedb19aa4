package engine

import (
	"github.com/faulter/faulter/pkg/node"
	"github.com/faulter/faulter/pkg/solver"
)

// Builder translates an external graph description into the node map and
// edge list the solver consumes. It resolves each type tag through the
// registry and performs no further semantic validation; every invocation
// builds a fresh node set, nothing is cached between requests.
type Builder struct {
	registry *node.Registry
}

// NewBuilder creates a builder over the given registry.
func NewBuilder(registry *node.Registry) *Builder {
	return &Builder{registry: registry}
}

// BuiltGraph is one materialized graph description.
type BuiltGraph struct {
	// Nodes maps node id to its constructed instance.
	Nodes map[string]node.Node

	// Order lists node ids in descriptor order; this is the discovery
	// order the solver's tie-breaking contract is anchored to.
	Order []string

	// Edges are the precedence constraints, in descriptor order.
	Edges []solver.Edge
}

// Graph builds the solver's directed graph from the materialized node set
// and edges, preserving discovery order.
func (bg *BuiltGraph) Graph() *solver.Graph {
	return solver.BuildGraph(bg.Order, bg.Edges)
}

// Build materializes desc. An unresolvable type tag fails with an
// UNKNOWN_NODE_TYPE error naming the registered tags.
func (b *Builder) Build(desc Description) (*BuiltGraph, error) {
	bg := &BuiltGraph{
		Nodes: make(map[string]node.Node, len(desc.Nodes)),
		Order: make([]string, 0, len(desc.Nodes)),
		Edges: make([]solver.Edge, 0, len(desc.Edges)),
	}

	for _, ns := range desc.Nodes {
		typeTag := ns.Type
		if typeTag == "" {
			typeTag = "formula"
		}

		n, err := b.registry.Create(typeTag, node.Spec{
			ID:      ns.ID,
			Label:   ns.Label,
			Params:  node.Params(ns.Params),
			Inputs:  ns.Inputs,
			Outputs: ns.Outputs,
		})
		if err != nil {
			return nil, classify(err).WithNode(ns.ID)
		}

		if _, seen := bg.Nodes[ns.ID]; !seen {
			bg.Order = append(bg.Order, ns.ID)
		}
		bg.Nodes[ns.ID] = n
	}

	for _, es := range desc.Edges {
		bg.Edges = append(bg.Edges, solver.Edge{Source: es.Source, Target: es.Target})
	}

	return bg, nil
}

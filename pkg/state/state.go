// Package state provides the shared variable store for one graph evaluation
// pass. All nodes read and write named float values through a single State
// instance; snapshots and deltas drive convergence checks for feedback loops.
package state

import "math"

// State holds all named variables produced and consumed by nodes during a
// single solve pass. A fresh State is created per top-level solve and per
// sweep sample; nothing carries across passes except caller-supplied
// initial values.
type State struct {
	variables map[string]float64
}

// New creates a State pre-populated with the given initial values.
// A nil map yields an empty state.
func New(initial map[string]float64) *State {
	vars := make(map[string]float64, len(initial))
	for k, v := range initial {
		vars[k] = v
	}
	return &State{variables: vars}
}

// Get returns the current value of name, or def if the variable is unset.
func (s *State) Get(name string, def float64) float64 {
	if v, ok := s.variables[name]; ok {
		return v
	}
	return def
}

// Set assigns value to name, creating the variable if needed.
func (s *State) Set(name string, value float64) {
	s.variables[name] = value
}

// Has reports whether name exists in the state.
func (s *State) Has(name string) bool {
	_, ok := s.variables[name]
	return ok
}

// Len returns the number of variables currently set.
func (s *State) Len() int {
	return len(s.variables)
}

// Update merges mapping into the current state, overwriting existing keys.
func (s *State) Update(mapping map[string]float64) {
	for k, v := range mapping {
		s.variables[k] = v
	}
}

// Snapshot returns an independent copy of all current values. Mutating the
// state afterwards does not affect the snapshot.
func (s *State) Snapshot() map[string]float64 {
	snap := make(map[string]float64, len(s.variables))
	for k, v := range s.variables {
		snap[k] = v
	}
	return snap
}

// Values returns a copy of the variable map suitable for serialization.
func (s *State) Values() map[string]float64 {
	return s.Snapshot()
}

// Delta computes the maximum absolute difference between the current state
// and a previous snapshot, considering only keys present in both. An empty
// snapshot yields +Inf so that a cyclic block is never trivially converged
// against an empty baseline.
func (s *State) Delta(previous map[string]float64) float64 {
	if len(previous) == 0 {
		return math.Inf(1)
	}

	maxDelta := 0.0
	for key, cur := range s.variables {
		prev, ok := previous[key]
		if !ok {
			continue
		}
		if diff := math.Abs(cur - prev); diff > maxDelta {
			maxDelta = diff
		}
	}
	return maxDelta
}

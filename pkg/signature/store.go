// Package signature holds the library of named reference vectors produced
// by parameter sweeps, and the comparator that diagnoses live vectors
// against them. The store is the one shared collaborator of the engine
// and synchronizes itself; everything else in a solve is per-invocation.
package signature

import (
	"fmt"
	"sync"
)

// Summary describes one stored signature without exposing the vector.
type Summary struct {
	Name     string         `json:"name"`
	Length   int            `json:"length"`
	Min      float64        `json:"min"`
	Max      float64        `json:"max"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Store is an in-memory library of named signature vectors. Vectors are
// copied on the way in and out, so callers cannot alias the library's
// backing arrays.
type Store struct {
	mu       sync.RWMutex
	library  map[string][]float64
	metadata map[string]map[string]any
}

// NewStore creates an empty signature library.
func NewStore() *Store {
	return &Store{
		library:  make(map[string][]float64),
		metadata: make(map[string]map[string]any),
	}
}

// Add stores vector under name, replacing any existing entry.
func (s *Store) Add(name string, vector []float64, metadata map[string]any) {
	vec := make([]float64, len(vector))
	copy(vec, vector)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.library[name] = vec
	s.metadata[name] = metadata
}

// Get returns a copy of the vector stored under name.
func (s *Store) Get(name string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vec, ok := s.library[name]
	if !ok {
		return nil, fmt.Errorf("signature %q not in store", name)
	}
	out := make([]float64, len(vec))
	copy(out, vec)
	return out, nil
}

// Has reports whether name is stored.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.library[name]
	return ok
}

// Remove deletes the entry under name; removing a missing name is a
// no-op.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.library, name)
	delete(s.metadata, name)
}

// Len returns the number of stored signatures.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.library)
}

// List returns a summary of every stored signature.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]Summary, 0, len(s.library))
	for name, vec := range s.library {
		summary := Summary{
			Name:     name,
			Length:   len(vec),
			Metadata: s.metadata[name],
		}
		if len(vec) > 0 {
			summary.Min, summary.Max = vec[0], vec[0]
			for _, v := range vec[1:] {
				if v < summary.Min {
					summary.Min = v
				}
				if v > summary.Max {
					summary.Max = v
				}
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// Library returns a copy of the full name -> vector map.
func (s *Store) Library() map[string][]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]float64, len(s.library))
	for name, vec := range s.library {
		cp := make([]float64, len(vec))
		copy(cp, vec)
		out[name] = cp
	}
	return out
}

package node

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps type tags to node constructors. It is an explicit object
// rather than package-global state so tests and embedders can inject their
// own variant sets. Registration is additive and override-capable.
type Registry struct {
	// mu protects the constructor map.
	mu sync.RWMutex

	// constructors maps type tag to constructor.
	constructors map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// DefaultRegistry creates a registry pre-populated with the built-in
// variants: motor, heater, hydraulic, formula, sweep.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("motor", NewMotor)
	r.Register("heater", NewHeater)
	r.Register("hydraulic", NewHydraulic)
	r.Register("formula", NewFormula)
	r.Register("sweep", NewSweep)
	return r
}

// Register adds a constructor under tag, replacing any existing one.
func (r *Registry) Register(tag string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[tag] = c
}

// Lookup returns the constructor registered under tag, or an
// *UnknownTypeError listing the registered tags.
func (r *Registry) Lookup(tag string) (Constructor, error) {
	r.mu.RLock()
	c, ok := r.constructors[tag]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownTypeError{Tag: tag, Registered: r.Types()}
	}
	return c, nil
}

// Create builds a node of the given type tag from spec.
func (r *Registry) Create(tag string, spec Spec) (Node, error) {
	c, err := r.Lookup(tag)
	if err != nil {
		return nil, err
	}
	return c(spec)
}

// Types returns all registered type tags in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.constructors))
	for tag := range r.constructors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// UnknownTypeError reports a lookup of a type tag that is not registered.
type UnknownTypeError struct {
	Tag        string
	Registered []string
}

// Error implements the error interface.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown node type %q, registered types: %s",
		e.Tag, strings.Join(e.Registered, ", "))
}

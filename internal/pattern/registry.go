package pattern

import (
	"fmt"
)

// Registry holds compiled patterns in registration order. It is
// populated at startup by the configuration loader and read-only for the
// rest of the session.
type Registry struct {
	order    []string
	compiled map[string]*Compiled
}

// NewRegistry creates an empty pattern registry.
func NewRegistry() *Registry {
	return &Registry{compiled: make(map[string]*Compiled)}
}

// Register compiles a definition and adds it to the registry.
// Registration fails on a missing or duplicate id and on malformed
// templates; a broken definition is never silently registered.
func (r *Registry) Register(def Definition) error {
	if def.ID == "" {
		return fmt.Errorf("pattern definition missing id")
	}
	if _, exists := r.compiled[def.ID]; exists {
		return fmt.Errorf("pattern %s already registered", def.ID)
	}
	c, err := Compile(def)
	if err != nil {
		return err
	}
	r.compiled[def.ID] = c
	r.order = append(r.order, def.ID)
	return nil
}

// Remove unregisters a pattern by id. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	if _, exists := r.compiled[id]; !exists {
		return
	}
	delete(r.compiled, id)
	for i, got := range r.order {
		if got == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the compiled pattern for id, or nil if not registered.
func (r *Registry) Get(id string) *Compiled {
	return r.compiled[id]
}

// All returns the compiled patterns in registration order.
func (r *Registry) All() []*Compiled {
	out := make([]*Compiled, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.compiled[id])
	}
	return out
}

// Len returns the number of registered patterns.
func (r *Registry) Len() int {
	return len(r.order)
}

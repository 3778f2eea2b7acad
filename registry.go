package quantity

import (
	"fmt"
	"sync"
)

// Registry maps normalized definitions to the items defined by them.
// Items are appended and never removed.
//
// A unique registry holds at most one item per normalized definition,
// a non-unique registry keeps all items registered with an equivalent
// definition and returns the first of them on lookup.
type Registry[E Elem[E], T comparable] struct {
	mu     sync.RWMutex
	unique bool
	index  map[string]int
	items  [][]T
}

// NewRegistry returns an empty registry.
func NewRegistry[E Elem[E], T comparable](unique bool) *Registry[E, T] {
	return &Registry[E, T]{
		unique: unique,
		index:  make(map[string]int),
	}
}

// Register enters item under the normalized form of def and returns the
// index of its equivalence class.
// Registering the same item twice returns the same index.
// In a unique registry a different item with an equivalent definition
// results in an error wrapping [ErrDuplicateDefinition].
func (r *Registry[E, T]) Register(def Term[E], item T) (int, error) {
	key := def.Key()
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.index[key]
	if !ok {
		idx = len(r.items)
		r.items = append(r.items, []T{item})
		r.index[key] = idx
		return idx, nil
	}
	reg := r.items[idx][0]
	switch {
	case reg == item:
		return idx, nil
	case r.unique:
		return 0, fmt.Errorf("%v already registered with definition %v: %w", reg, def.Normalized(), ErrDuplicateDefinition)
	}
	r.items[idx] = append(r.items[idx], item)
	return idx, nil
}

// Lookup returns the first item registered with a definition equivalent
// to def.
func (r *Registry[E, T]) Lookup(def Term[E]) (T, bool) {
	key := def.Key()
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.index[key]
	if !ok {
		var zero T
		return zero, false
	}
	return r.items[idx][0], true
}

// LookupAll returns all items registered with a definition equivalent
// to def, in order of registration.
func (r *Registry[E, T]) LookupAll(def Term[E]) []T {
	key := def.Key()
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.index[key]
	if !ok {
		return nil
	}
	return append([]T(nil), r.items[idx]...)
}

// Len returns the number of distinct normalized definitions.
func (r *Registry[E, T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

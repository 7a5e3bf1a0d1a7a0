package core

import (
	"slices"

	"github.com/go-drift/fibre/pkg/layout"
)

// Registry maps node identities to their mounted components. Iteration
// follows insertion order. Not every layout node has an entry: containers
// appended with a nil component stay bare.
type Registry struct {
	entries map[layout.NodeID]Component
	order   []layout.NodeID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[layout.NodeID]Component)}
}

// Insert records c as the component of node. It reports false without
// changing anything if node already has an entry.
func (r *Registry) Insert(node layout.NodeID, c Component) bool {
	if _, ok := r.entries[node]; ok {
		return false
	}
	r.entries[node] = c
	r.order = append(r.order, node)
	return true
}

// Remove deletes the entry of node and returns its component, if any.
func (r *Registry) Remove(node layout.NodeID) (Component, bool) {
	c, ok := r.entries[node]
	if !ok {
		return nil, false
	}
	delete(r.entries, node)
	if i := slices.Index(r.order, node); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return c, true
}

// Get returns the component of node if it has one.
func (r *Registry) Get(node layout.NodeID) (Component, bool) {
	c, ok := r.entries[node]
	return c, ok
}

// Contains reports whether node has an entry.
func (r *Registry) Contains(node layout.NodeID) bool {
	_, ok := r.entries[node]
	return ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.order)
}

// Each calls fn for every entry in insertion order. The registry must not
// change during the call.
func (r *Registry) Each(fn func(node layout.NodeID, c Component)) {
	for _, node := range r.order {
		fn(node, r.entries[node])
	}
}

// Nodes returns the registered identities in insertion order.
func (r *Registry) Nodes() []layout.NodeID {
	return slices.Clone(r.order)
}

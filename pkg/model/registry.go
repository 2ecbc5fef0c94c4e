package model

import (
	"sync"

	"github.com/google/uuid"
)

// Registry resolves graph identifiers held by nodes.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	graphs map[uuid.UUID]*Graph
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{graphs: make(map[uuid.UUID]*Graph)}
}

// Register makes g resolvable by its ID.
func (r *Registry) Register(g *Graph) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs[g.ID()] = g
}

// Lookup returns the graph with the given ID.
func (r *Registry) Lookup(id uuid.UUID) (*Graph, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.graphs[id]
	return g, ok
}

// Owner returns the graph n belongs to.
func (r *Registry) Owner(n *Node) (*Graph, bool) {
	if n == nil {
		return nil, false
	}
	return r.Lookup(n.Graph)
}

// Release forgets a graph.
func (r *Registry) Release(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.graphs, id)
}

// Len returns the number of registered graphs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.graphs)
}

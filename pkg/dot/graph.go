package dot

import (
	"errors"
	"maps"
)

var (
	// ErrEmpty is returned by [Parse] when the input holds no graph.
	ErrEmpty = errors.New("empty graph description")

	// ErrEmptyName is returned by [Graph.AddNode] for an empty node name.
	ErrEmptyName = errors.New("node name must not be empty")
)

// EdgeRef identifies one edge of a [Graph].
// Index distinguishes parallel edges between the same pair of nodes and is
// zero for the first edge between them.
type EdgeRef struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Index  int    `json:"index,omitempty"`
}

// Edge is an edge together with its attributes.
type Edge struct {
	Ref   EdgeRef
	Attrs EdgeAttrs
}

type pair struct{ source, target string }

// Graph is a directed multigraph with closed attribute sets.
//
// Nodes keep insertion order. The zero value is not usable; use [New].
type Graph struct {
	order   []string
	nodes   map[string]*NodeAttrs
	edges   []*Edge
	out     map[string][]*Edge
	in      map[string][]*Edge
	seq     map[pair]int
	ignored map[string]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]*NodeAttrs),
		out:     make(map[string][]*Edge),
		in:      make(map[string][]*Edge),
		seq:     make(map[pair]int),
		ignored: make(map[string]int),
	}
}

// AddNode adds a node or replaces the attributes of an existing one.
func (g *Graph) AddNode(name string, attrs NodeAttrs) error {
	if name == "" {
		return ErrEmptyName
	}
	if a, ok := g.nodes[name]; ok {
		*a = attrs
		return nil
	}
	g.nodes[name] = &attrs
	g.order = append(g.order, name)
	return nil
}

// AddEdge adds an edge from source to target, creating missing endpoints
// with empty attributes.
func (g *Graph) AddEdge(source, target string, attrs EdgeAttrs) (EdgeRef, error) {
	for _, name := range []string{source, target} {
		if _, ok := g.nodes[name]; !ok {
			if err := g.AddNode(name, NodeAttrs{}); err != nil {
				return EdgeRef{}, err
			}
		}
	}
	p := pair{source, target}
	ref := EdgeRef{Source: source, Target: target, Index: g.seq[p]}
	g.seq[p]++

	e := &Edge{Ref: ref, Attrs: attrs}
	g.edges = append(g.edges, e)
	g.out[source] = append(g.out[source], e)
	g.in[target] = append(g.in[target], e)
	return ref, nil
}

// Nodes returns node names in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the attributes of the named node.
func (g *Graph) Node(name string) (NodeAttrs, bool) {
	a, ok := g.nodes[name]
	if !ok {
		return NodeAttrs{}, false
	}
	return *a, true
}

// HasNode reports whether the named node exists.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Edges returns all edge references in insertion order.
func (g *Graph) Edges() []EdgeRef {
	out := make([]EdgeRef, len(g.edges))
	for i, e := range g.edges {
		out[i] = e.Ref
	}
	return out
}

// Edge returns the attributes of the referenced edge.
func (g *Graph) Edge(ref EdgeRef) (EdgeAttrs, bool) {
	for _, e := range g.out[ref.Source] {
		if e.Ref == ref {
			return e.Attrs, true
		}
	}
	return EdgeAttrs{}, false
}

// Successors returns the distinct targets of the node's outgoing edges,
// in the order they were first added.
func (g *Graph) Successors(name string) []string {
	return distinct(g.out[name], func(e *Edge) string { return e.Ref.Target })
}

// Predecessors returns the distinct sources of the node's incoming edges.
func (g *Graph) Predecessors(name string) []string {
	return distinct(g.in[name], func(e *Edge) string { return e.Ref.Source })
}

func distinct(edges []*Edge, key func(*Edge) string) []string {
	if len(edges) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(edges))
	var out []string
	for _, e := range edges {
		k := key(e)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// RemoveEdge deletes the referenced edge and reports whether it existed.
func (g *Graph) RemoveEdge(ref EdgeRef) bool {
	idx := -1
	for i, e := range g.edges {
		if e.Ref == ref {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	g.edges = append(g.edges[:idx], g.edges[idx+1:]...)
	g.out[ref.Source] = removeRef(g.out[ref.Source], ref)
	g.in[ref.Target] = removeRef(g.in[ref.Target], ref)
	return true
}

func removeRef(edges []*Edge, ref EdgeRef) []*Edge {
	out := edges[:0]
	for _, e := range edges {
		if e.Ref != ref {
			out = append(out, e)
		}
	}
	return out
}

// FilterNodes returns a new graph holding the nodes accepted by keep and the
// edges whose endpoints are both kept.
func (g *Graph) FilterNodes(keep func(name string, attrs NodeAttrs) bool) *Graph {
	sub := New()
	for _, name := range g.order {
		if keep(name, *g.nodes[name]) {
			_ = sub.AddNode(name, *g.nodes[name])
		}
	}
	for _, e := range g.edges {
		if sub.HasNode(e.Ref.Source) && sub.HasNode(e.Ref.Target) {
			sub.appendEdge(e)
		}
	}
	return sub
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, name := range g.order {
		_ = c.AddNode(name, *g.nodes[name])
	}
	for _, e := range g.edges {
		c.appendEdge(e)
	}
	maps.Copy(c.ignored, g.ignored)
	return c
}

// appendEdge copies e keeping its reference.
func (g *Graph) appendEdge(e *Edge) {
	cp := &Edge{Ref: e.Ref, Attrs: e.Attrs}
	p := pair{e.Ref.Source, e.Ref.Target}
	if g.seq[p] <= e.Ref.Index {
		g.seq[p] = e.Ref.Index + 1
	}
	g.edges = append(g.edges, cp)
	g.out[cp.Ref.Source] = append(g.out[cp.Ref.Source], cp)
	g.in[cp.Ref.Target] = append(g.in[cp.Ref.Target], cp)
}

// Ignored returns, per attribute key, how many nodes or edges carried an
// unrecognised attribute that was dropped while parsing.
func (g *Graph) Ignored() map[string]int {
	return maps.Clone(g.ignored)
}

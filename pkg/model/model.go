package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/cubicleview/pkg/dot"
	"github.com/matzehuels/cubicleview/pkg/layout"
)

// Placement of nodes synthesized by AddGraphLibNode.
const (
	TopLevelX  = 50.0
	SyntheticY = -20.0
)

// SyntheticColor is the contour color of synthesized nodes.
const SyntheticColor = "gray"

// ErrUnknownEndpoint is returned by AddSubsumedEdge when an endpoint is not
// in the graph.
var ErrUnknownEndpoint = errors.New("edge endpoint not in graph")

// Node is a materialized graph node.
type Node struct {
	Name  string
	Label string
	Color string

	X, Y    float64
	TargetY float64
	// Width and Height are the label size, set once the node is drawn.
	Width, Height float64

	// Children are the node's layout children. Only used to build the graph.
	Children []*Node

	Attrs     dot.NodeAttrs
	Synthetic bool

	// Graph identifies the owning graph; resolve it with a Registry.
	Graph uuid.UUID
}

// EdgeKind classifies edges.
type EdgeKind int

const (
	// EdgeNormal is a transition edge that took part in layout.
	EdgeNormal EdgeKind = iota
	// EdgeSubsumed is a side edge re-attached after layout.
	EdgeSubsumed
)

func (k EdgeKind) String() string {
	if k == EdgeSubsumed {
		return "subsumed"
	}
	return "normal"
}

// EdgeRef is a value reference to edges between two named nodes.
type EdgeRef struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

func (r EdgeRef) String() string { return r.Source + " -> " + r.Target }

// Edge is a materialized edge.
type Edge struct {
	Source *Node
	Target *Node

	Color string
	Style string
	Label string

	Subsume bool
	Attrs   dot.EdgeAttrs
}

// Ref returns the edge's name-pair reference.
func (e *Edge) Ref() EdgeRef { return EdgeRef{Source: e.Source.Name, Target: e.Target.Name} }

// Kind reports whether the edge is a subsumption side edge.
func (e *Edge) Kind() EdgeKind {
	if e.Subsume {
		return EdgeSubsumed
	}
	return EdgeNormal
}

// Graph is one materialized layout variant.
type Graph struct {
	id    uuid.UUID
	raw   *dot.Graph
	nodes map[string]*Node
	order []*Node
	edges []*Edge

	parents  map[string][]*Node
	bySource map[string][]*Edge
	byTarget map[string][]*Edge
	index    map[EdgeRef][]*Edge
}

// New materializes tree. raw supplies node and edge attributes; edges lists
// the raw edges to resolve.
func New(tree *layout.Tree, raw *dot.Graph, edges []dot.EdgeRef) *Graph {
	g := &Graph{
		id:       uuid.New(),
		raw:      raw,
		nodes:    make(map[string]*Node),
		parents:  make(map[string][]*Node),
		bySource: make(map[string][]*Edge),
		byTarget: make(map[string][]*Edge),
		index:    make(map[EdgeRef][]*Edge),
	}

	// First occurrence of each name wins; later path copies reuse it.
	first := make(map[string]*layout.Tree)
	layout.Walk(tree, func(t *layout.Tree) {
		if _, seen := first[t.Name]; seen {
			return
		}
		first[t.Name] = t
		attrs := t.Data
		if raw != nil {
			if a, ok := raw.Node(t.Name); ok {
				attrs = a
			}
		}
		g.insert(&Node{
			Name:    t.Name,
			Label:   displayLabel(t.Name, attrs),
			Color:   attrs.Color,
			X:       t.X,
			Y:       t.Y,
			TargetY: t.Y,
			Attrs:   attrs,
		})
	})
	for _, n := range g.order {
		for _, c := range first[n.Name].Children {
			n.Children = append(n.Children, g.nodes[c.Name])
		}
	}

	for _, ref := range edges {
		var attrs dot.EdgeAttrs
		if raw != nil {
			attrs, _ = raw.Edge(ref)
		}
		g.link(ref.Source, ref.Target, attrs)
	}
	return g
}

func (g *Graph) insert(n *Node) {
	n.Graph = g.id
	g.nodes[n.Name] = n
	g.order = append(g.order, n)
}

// resolve materializes an edge between existing nodes, registering it in the
// edge list and the name-pair index. It returns nil when an endpoint is missing.
func (g *Graph) resolve(source, target string, attrs dot.EdgeAttrs) *Edge {
	s, ok := g.nodes[source]
	if !ok {
		return nil
	}
	t, ok := g.nodes[target]
	if !ok {
		return nil
	}
	e := &Edge{
		Source:  s,
		Target:  t,
		Color:   attrs.Color,
		Style:   attrs.Style,
		Label:   attrs.Label,
		Subsume: attrs.Subsume,
		Attrs:   attrs,
	}
	g.edges = append(g.edges, e)
	ref := e.Ref()
	g.index[ref] = append(g.index[ref], e)
	return e
}

// link resolves a construction edge and records it in the ancestry indexes.
func (g *Graph) link(source, target string, attrs dot.EdgeAttrs) *Edge {
	e := g.resolve(source, target, attrs)
	if e == nil {
		return nil
	}
	g.parents[target] = append(g.parents[target], e.Source)
	g.bySource[source] = append(g.bySource[source], e)
	g.byTarget[target] = append(g.byTarget[target], e)
	return e
}

// ID returns the graph's identifier.
func (g *Graph) ID() uuid.UUID { return g.id }

// Raw returns the parsed graph the model was built from.
func (g *Graph) Raw() *dot.Graph { return g.raw }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Node looks a node up by name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Root returns the first node discovered, the layout root.
func (g *Graph) Root() *Node {
	if len(g.order) == 0 {
		return nil
	}
	return g.order[0]
}

// Nodes returns all nodes in discovery order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	copy(out, g.order)
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Parents returns the immediate predecessors recorded for name.
func (g *Graph) Parents(name string) []*Node { return g.parents[name] }

// EdgesFrom returns the edges leaving name.
func (g *Graph) EdgesFrom(name string) []*Edge { return g.bySource[name] }

// EdgesTo returns the edges entering name.
func (g *Graph) EdgesTo(name string) []*Edge { return g.byTarget[name] }

// AddGraphLibNode adds a placeholder for a raw node the layout did not reach.
// It is a no-op when the node exists, is unknown to the raw graph, or carries
// an explicit label. It reports whether a node was added.
func (g *Graph) AddGraphLibNode(name string) (*Node, bool) {
	if n, ok := g.nodes[name]; ok {
		return n, false
	}
	if g.raw == nil {
		return nil, false
	}
	attrs, ok := g.raw.Node(name)
	if !ok || attrs.HasLabel() {
		return nil, false
	}
	n := &Node{
		Name:      name,
		Label:     "Invariant " + name,
		Color:     SyntheticColor,
		X:         TopLevelX,
		Y:         SyntheticY,
		TargetY:   SyntheticY,
		Attrs:     attrs,
		Synthetic: true,
	}
	g.insert(n)
	return n, true
}

// AddSubsumedEdge re-attaches a side edge between two existing nodes. The
// edge is drawn and resolvable through [Graph.GetEdges], but it is not a
// parent relation: Parents, EdgesFrom, EdgesTo and Ancestors ignore it.
func (g *Graph) AddSubsumedEdge(ref dot.EdgeRef, attrs dot.EdgeAttrs) (*Edge, error) {
	e := g.resolve(ref.Source, ref.Target, attrs)
	if e == nil {
		return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownEndpoint, ref.Source, ref.Target)
	}
	return e, nil
}

// Ancestors returns every node reachable from n through the parents index,
// deduplicated and excluding n, in breadth-first discovery order.
func (g *Graph) Ancestors(n *Node) []*Node {
	if n == nil {
		return nil
	}
	seen := map[string]bool{n.Name: true}
	var out []*Node
	queue := []string{n.Name}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, p := range g.parents[name] {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			out = append(out, p)
			queue = append(queue, p.Name)
		}
	}
	return out
}

// TargetEdges returns the edges entering any of nodes, flattened in input
// order. Duplicate nodes yield duplicate edges.
func (g *Graph) TargetEdges(nodes []*Node) []*Edge {
	var out []*Edge
	for _, n := range nodes {
		out = append(out, g.byTarget[n.Name]...)
	}
	return out
}

// GetEdges resolves name-pair references; unknown references are skipped.
func (g *Graph) GetEdges(refs []EdgeRef) []*Edge {
	var out []*Edge
	for _, r := range refs {
		out = append(out, g.index[r]...)
	}
	return out
}

// NormalizeLabel turns escaped newlines from DOT labels into real ones.
func NormalizeLabel(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

func displayLabel(name string, attrs dot.NodeAttrs) string {
	if !attrs.HasLabel() {
		return name
	}
	return NormalizeLabel(attrs.Label)
}

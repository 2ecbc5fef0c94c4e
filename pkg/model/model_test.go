package model

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/cubicleview/pkg/dot"
	"github.com/matzehuels/cubicleview/pkg/hierarchy"
	"github.com/matzehuels/cubicleview/pkg/layout"
)

// fromRaw builds a model the way the loader does, with a depth-based layout.
func fromRaw(t *testing.T, raw *dot.Graph) *Graph {
	t.Helper()
	tree, err := hierarchy.Build(raw, hierarchy.FindRoots(raw))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var pos []layout.Point
	hierarchy.Walk(tree, func(_ *hierarchy.Node, depth int) bool {
		pos = append(pos, layout.Point{X: float64(len(pos)) * 10, Y: float64(depth) * 75})
		return true
	})
	placed, err := layout.Place(tree, pos)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	return New(placed, raw, raw.Edges())
}

func diamondRaw() *dot.Graph {
	raw := dot.New()
	_ = raw.AddNode("A", dot.NodeAttrs{Orig: true, Label: `init\nx = 0`})
	for _, e := range [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}} {
		_, _ = raw.AddEdge(e[0], e[1], dot.EdgeAttrs{})
	}
	return raw
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestNewDiscoveryOrder(t *testing.T) {
	g := fromRaw(t, diamondRaw())

	if got := names(g.Nodes()); !slices.Equal(got, []string{"A", "B", "D", "C"}) {
		t.Errorf("Nodes = %v, want depth-first discovery order", got)
	}
	if g.Len() != 4 {
		t.Errorf("Len = %d, want 4 (D deduplicated)", g.Len())
	}
	if g.Root().Name != "A" {
		t.Errorf("Root = %s", g.Root().Name)
	}
	for _, n := range g.Nodes() {
		if n.Graph != g.ID() {
			t.Errorf("node %s belongs to %v, want %v", n.Name, n.Graph, g.ID())
		}
	}

	a, _ := g.Node("A")
	if a.Label != "init\nx = 0" {
		t.Errorf("label = %q, want normalized newline", a.Label)
	}
	if got := names(a.Children); !slices.Equal(got, []string{"B", "C"}) {
		t.Errorf("A.Children = %v", got)
	}
	d, _ := g.Node("D")
	if d.Label != "D" {
		t.Errorf("unlabelled node label = %q, want name", d.Label)
	}
	if d.TargetY != d.Y {
		t.Errorf("TargetY = %v, want Y = %v before placement", d.TargetY, d.Y)
	}
}

func TestRootHasNoAncestors(t *testing.T) {
	g := fromRaw(t, diamondRaw())
	if got := g.Ancestors(g.Root()); len(got) != 0 {
		t.Errorf("Ancestors(root) = %v, want []", names(got))
	}
	if g.Ancestors(nil) != nil {
		t.Error("Ancestors(nil) != nil")
	}
}

func TestAncestorsDiamond(t *testing.T) {
	g := fromRaw(t, diamondRaw())
	d, _ := g.Node("D")

	got := names(g.Ancestors(d))
	slices.Sort(got)
	if !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("Ancestors(D) = %v, want [A B C]", got)
	}
	// Same answer regardless of previous queries.
	b, _ := g.Node("B")
	_ = g.Ancestors(b)
	again := names(g.Ancestors(d))
	slices.Sort(again)
	if !slices.Equal(again, got) {
		t.Errorf("second Ancestors(D) = %v", again)
	}
}

func TestAncestorsUnevenDepth(t *testing.T) {
	// A -> B -> C -> E and A -> E: parents of E sit at different depths.
	raw := dot.New()
	_ = raw.AddNode("A", dot.NodeAttrs{Orig: true})
	for _, e := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "E"}, {"A", "E"}} {
		_, _ = raw.AddEdge(e[0], e[1], dot.EdgeAttrs{})
	}
	g := fromRaw(t, raw)
	e, _ := g.Node("E")

	got := names(g.Ancestors(e))
	if len(got) != 3 {
		t.Fatalf("Ancestors(E) = %v, want 3 distinct nodes", got)
	}
	for _, want := range []string{"A", "B", "C"} {
		if !slices.Contains(got, want) {
			t.Errorf("Ancestors(E) missing %s: %v", want, got)
		}
	}
	if slices.Contains(got, "E") {
		t.Error("Ancestors(E) contains E")
	}
}

func TestAncestorsIgnoreSubsumedEdges(t *testing.T) {
	g := fromRaw(t, diamondRaw())
	// D is covered by B and A is covered by D: neither makes an ancestor.
	for _, ref := range []dot.EdgeRef{{Source: "D", Target: "B"}, {Source: "D", Target: "A"}} {
		if _, err := g.AddSubsumedEdge(ref, dot.EdgeAttrs{Subsume: true}); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		node string
		want []string
	}{
		{"A", nil},
		{"B", []string{"A"}},
		{"D", []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		n, _ := g.Node(tt.node)
		got := names(g.Ancestors(n))
		slices.Sort(got)
		if !slices.Equal(got, tt.want) {
			t.Errorf("Ancestors(%s) = %v, want %v", tt.node, got, tt.want)
		}
	}
	if got := names(g.Parents("B")); !slices.Equal(got, []string{"A"}) {
		t.Errorf("Parents(B) = %v", got)
	}
	if len(g.Parents("A")) != 0 {
		t.Errorf("Parents(A) = %v", names(g.Parents("A")))
	}
}

func TestAddGraphLibNodeIdempotent(t *testing.T) {
	raw := diamondRaw()
	_ = raw.AddNode("inv", dot.NodeAttrs{Invariant: true})
	g := fromRaw(t, raw)

	n, added := g.AddGraphLibNode("inv")
	if !added || n == nil {
		t.Fatal("first AddGraphLibNode did not add")
	}
	if n.Label != "Invariant inv" || n.Color != "gray" || n.X != TopLevelX || n.Y != SyntheticY || !n.Synthetic {
		t.Errorf("synthesized node = %+v", n)
	}
	again, added := g.AddGraphLibNode("inv")
	if added || again != n {
		t.Error("second AddGraphLibNode changed the graph")
	}

	count := 0
	for _, m := range g.Nodes() {
		if m.Name == "inv" {
			count++
		}
	}
	if count != 1 || g.Len() != 5 {
		t.Errorf("inv listed %d times, Len = %d", count, g.Len())
	}
}

func TestAddGraphLibNodeSkips(t *testing.T) {
	raw := diamondRaw()
	_ = raw.AddNode("labelled", dot.NodeAttrs{Label: "state 9"})
	g := fromRaw(t, raw)

	tests := []struct {
		name string
		node string
	}{
		{"existing", "A"},
		{"explicit label", "labelled"},
		{"unknown to raw graph", "ghost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := g.Len()
			if _, added := g.AddGraphLibNode(tt.node); added {
				t.Error("node added")
			}
			if g.Len() != before {
				t.Errorf("Len changed %d -> %d", before, g.Len())
			}
		})
	}
}

func TestEdgeRoundTrip(t *testing.T) {
	raw := dot.New()
	_ = raw.AddNode("A", dot.NodeAttrs{Orig: true})
	_, _ = raw.AddEdge("A", "B", dot.EdgeAttrs{Color: "red", Label: "t1"})
	g := fromRaw(t, raw)

	edges := g.Edges()
	if len(edges) != 1 {
		t.Fatalf("Edges = %d, want 1", len(edges))
	}
	e := edges[0]
	if e.Color != "red" || e.Label != "t1" || e.Kind() != EdgeNormal {
		t.Errorf("edge = %+v", e)
	}
	if !slices.Contains(g.EdgesFrom("A"), e) {
		t.Error("EdgesFrom(A) missing edge")
	}
	if !slices.Contains(g.EdgesTo("B"), e) {
		t.Error("EdgesTo(B) missing edge")
	}
	if got := names(g.Parents("B")); !slices.Equal(got, []string{"A"}) {
		t.Errorf("Parents(B) = %v", got)
	}
}

func TestUnknownEndpointsDropped(t *testing.T) {
	raw := diamondRaw()
	_, _ = raw.AddEdge("D", "elsewhere", dot.EdgeAttrs{})
	tree, _ := hierarchy.Build(diamondRaw(), hierarchy.FindRoots(diamondRaw()))
	placed, _ := layout.Place(tree, make([]layout.Point, hierarchy.Count(tree)))

	g := New(placed, raw, raw.Edges())
	if len(g.Edges()) != 4 {
		t.Errorf("Edges = %d, want 4", len(g.Edges()))
	}

	_, err := g.AddSubsumedEdge(dot.EdgeRef{Source: "D", Target: "elsewhere"}, dot.EdgeAttrs{Subsume: true})
	if !errors.Is(err, ErrUnknownEndpoint) {
		t.Errorf("AddSubsumedEdge err = %v, want ErrUnknownEndpoint", err)
	}
}

func TestAddSubsumedEdge(t *testing.T) {
	g := fromRaw(t, diamondRaw())
	e, err := g.AddSubsumedEdge(dot.EdgeRef{Source: "C", Target: "B"}, dot.EdgeAttrs{Subsume: true, Color: "blue"})
	if err != nil {
		t.Fatalf("AddSubsumedEdge: %v", err)
	}
	if e.Kind() != EdgeSubsumed || e.Kind().String() != "subsumed" {
		t.Errorf("Kind = %v", e.Kind())
	}
	if got := g.GetEdges([]EdgeRef{{"C", "B"}}); len(got) != 1 || got[0] != e {
		t.Errorf("GetEdges = %v", got)
	}
	if !slices.Contains(g.Edges(), e) {
		t.Error("Edges() missing the side edge")
	}
	if slices.Contains(g.EdgesTo("B"), e) || slices.Contains(g.EdgesFrom("C"), e) {
		t.Error("side edge entered the by-source/by-target indexes")
	}
	if got := g.TargetEdges([]*Node{e.Target}); slices.Contains(got, e) {
		t.Errorf("TargetEdges(B) includes the side edge")
	}
	if g.Len() != 4 {
		t.Errorf("AddSubsumedEdge created nodes: Len = %d", g.Len())
	}
}

func TestTargetEdges(t *testing.T) {
	g := fromRaw(t, diamondRaw())
	d, _ := g.Node("D")
	b, _ := g.Node("B")

	got := g.TargetEdges([]*Node{d, b})
	var refs []EdgeRef
	for _, e := range got {
		refs = append(refs, e.Ref())
	}
	want := []EdgeRef{{"B", "D"}, {"C", "D"}, {"A", "B"}}
	if !slices.Equal(refs, want) {
		t.Errorf("TargetEdges = %v, want %v", refs, want)
	}
	if dup := g.TargetEdges([]*Node{b, b}); len(dup) != 2 {
		t.Errorf("TargetEdges([B B]) = %d edges, want 2 (no dedup)", len(dup))
	}
}

func TestGetEdgesValueKeyed(t *testing.T) {
	g := fromRaw(t, diamondRaw())

	// References built independently of the graph must still resolve.
	refs := []EdgeRef{{Source: "A", Target: "B"}, {Source: "X", Target: "Y"}, {Source: "C", Target: "D"}}
	got := g.GetEdges(refs)
	if len(got) != 2 {
		t.Fatalf("GetEdges = %d edges, want 2", len(got))
	}
	if got[0].Ref() != refs[0] || got[1].Ref() != refs[2] {
		t.Errorf("GetEdges = %v, %v", got[0].Ref(), got[1].Ref())
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	g := fromRaw(t, diamondRaw())
	r.Register(g)

	d, _ := g.Node("D")
	owner, ok := r.Owner(d)
	if !ok || owner != g {
		t.Errorf("Owner(D) = %v, %v", owner, ok)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d", r.Len())
	}
	r.Release(g.ID())
	if _, ok := r.Lookup(g.ID()); ok {
		t.Error("Lookup after Release succeeded")
	}
	if _, ok := r.Owner(nil); ok {
		t.Error("Owner(nil) succeeded")
	}
}

func TestNormalizeLabel(t *testing.T) {
	if got := NormalizeLabel(`a\nb\nc`); got != "a\nb\nc" {
		t.Errorf("NormalizeLabel = %q", got)
	}
}

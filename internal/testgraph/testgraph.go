// Package testgraph provides fixtures shared by package tests.
package testgraph

import (
	"context"

	"github.com/matzehuels/cubicleview/pkg/hierarchy"
	"github.com/matzehuels/cubicleview/pkg/layout"
)

// Sample is a small Cubicle graph.
//
// The hierarchy from the original state 1 is 1 -> {2 -> 4 -> 6, 3 -> 5}.
// State 4 is subsumed by 2, state 8 is an unlabeled invariant outside the
// hierarchy and state 7 a labeled one.
const Sample = `digraph G {
	1 [label="1: init", orig=true, color=green];
	2 [label="2: t1", color=blue];
	3 [label="3: t2", color=blue];
	4 [label="4", subsumed=true, color=gray];
	5 [label="5: bad", unsafe=true, color=red];
	6 [label="6"];
	7 [label="inv 7", invariant=true];
	8 [invariant=true];
	1 -> 2 [label="t1"];
	1 -> 3 [label="t2"];
	2 -> 4;
	4 -> 6;
	3 -> 5 [color=red];
	4 -> 2 [subsume=true, style=dashed];
	8 -> 1 [subsume=true];
}`

// Counts of the Sample variants.
const (
	SampleFullNodes   = 7
	SampleFullEdges   = 7
	SamplePrunedNodes = 4
	SamplePrunedEdges = 3
)

// TwoRoots has two original states.
const TwoRoots = `digraph G {
	a [orig=true];
	b [orig=true];
	a -> c;
}`

// DepthEngine places the i-th node in pre-order at (i*width, depth*height).
// It stands in for Graphviz where exact coordinates do not matter.
type DepthEngine struct{}

func (DepthEngine) Name() string { return "depth" }

func (DepthEngine) Layout(_ context.Context, root *hierarchy.Node, size layout.Size) (*layout.Tree, error) {
	var pos []layout.Point
	i := 0
	hierarchy.Walk(root, func(_ *hierarchy.Node, depth int) bool {
		pos = append(pos, layout.Point{X: float64(i) * size.Width, Y: float64(depth) * size.Height})
		i++
		return true
	})
	return layout.Place(root, pos)
}

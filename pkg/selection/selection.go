// Package selection tracks the selected node and the path from the root to
// it, as pure state transitions.
//
// [Select] computes the ancestors of the clicked node and the edges entering
// it or any ancestor, stored as name pairs so the state survives graph
// regeneration. It also records which previously highlighted nodes must be
// reset, so a view can update incrementally instead of recoloring everything.
package selection

import (
	"slices"

	"github.com/matzehuels/cubicleview/pkg/model"
)

// State is the selection slice of the application state.
// The zero value is an empty selection.
type State struct {
	Node          string          `json:"node,omitempty"`
	PrevNode      string          `json:"prev_node,omitempty"`
	Ancestors     []string        `json:"ancestors,omitempty"`
	PrevAncestors []string        `json:"prev_ancestors,omitempty"`
	Path          []model.EdgeRef `json:"path,omitempty"`
}

// Empty reports whether no node is selected.
func (s State) Empty() bool { return s.Node == "" }

// IsSelected reports whether name is the selected node.
func (s State) IsSelected(name string) bool { return name != "" && s.Node == name }

// IsAncestor reports whether name is an ancestor of the selected node.
func (s State) IsAncestor(name string) bool { return slices.Contains(s.Ancestors, name) }

// OnPath reports whether ref is part of the highlighted path.
func (s State) OnPath(ref model.EdgeRef) bool { return slices.Contains(s.Path, ref) }

// Select selects name in g. Selecting the current node again clears the
// selection. Unknown names leave the state unchanged.
func Select(s State, g *model.Graph, name string) State {
	if name != "" && name == s.Node {
		return Clear(s)
	}
	n, ok := g.Node(name)
	if !ok {
		return s
	}

	ancestors := g.Ancestors(n)
	next := State{
		Node:      name,
		PrevNode:  s.Node,
		Ancestors: nodeNames(ancestors),
	}
	for _, e := range g.TargetEdges(append(ancestors, n)) {
		if e.Subsume {
			continue
		}
		next.Path = append(next.Path, e.Ref())
	}
	for _, a := range s.Ancestors {
		if a != name && !slices.Contains(next.Ancestors, a) {
			next.PrevAncestors = append(next.PrevAncestors, a)
		}
	}
	return next
}

// Clear moves the current selection into the previous slots.
func Clear(s State) State {
	return State{
		PrevNode:      s.Node,
		PrevAncestors: s.Ancestors,
	}
}

func nodeNames(nodes []*model.Node) []string {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

package graph

import (
	"github.com/matzehuels/cubicleview/pkg/dot"
	"github.com/matzehuels/cubicleview/pkg/model"
	"github.com/matzehuels/cubicleview/pkg/options"
	"github.com/matzehuels/cubicleview/pkg/selection"
)

// Highlights of a node.
const (
	HighlightSelected = "selected"
	HighlightAncestor = "ancestor"
)

// =============================================================================
// Graph - Displayed Graph Serialization
// =============================================================================

// Graph is the serialization format of one displayed graph model.
type Graph struct {
	Variant   string     `json:"variant,omitempty" yaml:"variant,omitempty"`
	Nodes     []Node     `json:"nodes" yaml:"nodes"`
	Edges     []Edge     `json:"edges" yaml:"edges"`
	Selection *Selection `json:"selection,omitempty" yaml:"selection,omitempty"`
}

// Node is a placed node.
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`

	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	TargetY float64 `json:"target_y" yaml:"target_y"`
	Width   float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height  float64 `json:"height,omitempty" yaml:"height,omitempty"`

	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Synthetic  bool     `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
	Hidden     bool     `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Highlight  string   `json:"highlight,omitempty" yaml:"highlight,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed edge.
type Edge struct {
	From    string `json:"from" yaml:"from"`
	To      string `json:"to" yaml:"to"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Color   string `json:"color,omitempty" yaml:"color,omitempty"`
	Style   string `json:"style,omitempty" yaml:"style,omitempty"`
	Subsume bool   `json:"subsume,omitempty" yaml:"subsume,omitempty"`
	OnPath  bool   `json:"on_path,omitempty" yaml:"on_path,omitempty"`
}

// Selection is the selected node and its ancestors.
type Selection struct {
	Node      string   `json:"node" yaml:"node"`
	Ancestors []string `json:"ancestors,omitempty" yaml:"ancestors,omitempty"`
}

// =============================================================================
// Model → Graph Conversion
// =============================================================================

// FromModel converts a graph model as displayed with sel and opts.
// Nodes and edges keep the model's order.
func FromModel(g *model.Graph, variant string, sel selection.State, opts options.Info) Graph {
	out := Graph{
		Variant: variant,
		Nodes:   make([]Node, 0, g.Len()),
	}
	hidden := make(map[string]bool)
	for _, n := range g.Nodes() {
		node := Node{
			ID:         n.Name,
			Color:      n.Color,
			X:          n.X,
			Y:          n.Y,
			TargetY:    n.TargetY,
			Width:      n.Width,
			Height:     n.Height,
			Categories: Categories(n.Attrs),
			Synthetic:  n.Synthetic,
			Hidden:     !opts.Visible(n.Attrs),
		}
		if n.Label != n.Name {
			node.Label = n.Label
		}
		switch {
		case sel.IsSelected(n.Name):
			node.Highlight = HighlightSelected
		case sel.IsAncestor(n.Name):
			node.Highlight = HighlightAncestor
		}
		hidden[n.Name] = node.Hidden
		out.Nodes = append(out.Nodes, node)
	}

	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{
			From:    e.Source.Name,
			To:      e.Target.Name,
			Label:   e.Label,
			Color:   e.Color,
			Style:   e.Style,
			Subsume: e.Subsume,
			OnPath:  !e.Subsume && sel.OnPath(e.Ref()),
		})
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}

	if _, ok := g.Node(sel.Node); ok {
		out.Selection = &Selection{Node: sel.Node, Ancestors: sel.Ancestors}
	}
	return out
}

// Categories lists the category markers set in attrs.
func Categories(attrs dot.NodeAttrs) []string {
	var out []string
	for _, c := range []struct {
		set  bool
		name string
	}{
		{attrs.Orig, "orig"},
		{attrs.Approx, "approx"},
		{attrs.Invariant, "invariant"},
		{attrs.Subsumed, "subsumed"},
		{attrs.Unsafe, "unsafe"},
		{attrs.Error, "error"},
	} {
		if c.set {
			out = append(out, c.name)
		}
	}
	return out
}

package dot

import (
	"slices"
	"strings"
)

// UnsetLabel is the placeholder Graphviz assigns to nodes without a label.
// It renders as the node name and is treated as "no explicit label".
const UnsetLabel = `\N`

// NodeAttrs holds the node attributes cubicleview recognises.
type NodeAttrs struct {
	Color     string `json:"color,omitempty" yaml:"color,omitempty"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
	Shape     string `json:"shape,omitempty" yaml:"shape,omitempty"`
	FontColor string `json:"fontcolor,omitempty" yaml:"fontcolor,omitempty"`
	FontSize  string `json:"fontsize,omitempty" yaml:"fontsize,omitempty"`
	Style     string `json:"style,omitempty" yaml:"style,omitempty"`
	FillColor string `json:"fillcolor,omitempty" yaml:"fillcolor,omitempty"`

	Orig      bool `json:"orig,omitempty" yaml:"orig,omitempty"`
	Approx    bool `json:"approx,omitempty" yaml:"approx,omitempty"`
	Invariant bool `json:"invariant,omitempty" yaml:"invariant,omitempty"`
	Subsumed  bool `json:"subsumed,omitempty" yaml:"subsumed,omitempty"`
	Unsafe    bool `json:"unsafe,omitempty" yaml:"unsafe,omitempty"`
	Error     bool `json:"error,omitempty" yaml:"error,omitempty"`
}

// HasLabel reports whether the node carries an explicit label.
func (a NodeAttrs) HasLabel() bool {
	return a.Label != "" && a.Label != UnsetLabel
}

// Set assigns a recognised attribute and reports whether key was recognised.
func (a *NodeAttrs) Set(key, value string) bool {
	set, ok := nodeSetters[key]
	if !ok {
		return false
	}
	set(a, value)
	return true
}

var nodeSetters = map[string]func(*NodeAttrs, string){
	"color":     func(a *NodeAttrs, v string) { a.Color = v },
	"label":     func(a *NodeAttrs, v string) { a.Label = v },
	"shape":     func(a *NodeAttrs, v string) { a.Shape = v },
	"fontcolor": func(a *NodeAttrs, v string) { a.FontColor = v },
	"fontsize":  func(a *NodeAttrs, v string) { a.FontSize = v },
	"style":     func(a *NodeAttrs, v string) { a.Style = v },
	"fillcolor": func(a *NodeAttrs, v string) { a.FillColor = v },
	"orig":      func(a *NodeAttrs, v string) { a.Orig = ParseFlag(v) },
	"approx":    func(a *NodeAttrs, v string) { a.Approx = ParseFlag(v) },
	"invariant": func(a *NodeAttrs, v string) { a.Invariant = ParseFlag(v) },
	"subsumed":  func(a *NodeAttrs, v string) { a.Subsumed = ParseFlag(v) },
	"unsafe":    func(a *NodeAttrs, v string) { a.Unsafe = ParseFlag(v) },
	"error":     func(a *NodeAttrs, v string) { a.Error = ParseFlag(v) },
}

// EdgeAttrs holds the edge attributes cubicleview recognises.
type EdgeAttrs struct {
	Color      string `json:"color,omitempty" yaml:"color,omitempty"`
	PenWidth   string `json:"penwidth,omitempty" yaml:"penwidth,omitempty"`
	FontName   string `json:"fontname,omitempty" yaml:"fontname,omitempty"`
	Label      string `json:"label,omitempty" yaml:"label,omitempty"`
	Style      string `json:"style,omitempty" yaml:"style,omitempty"`
	ArrowHead  string `json:"arrowhead,omitempty" yaml:"arrowhead,omitempty"`
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Dir        string `json:"dir,omitempty" yaml:"dir,omitempty"`
	PenColor   string `json:"pencolor,omitempty" yaml:"pencolor,omitempty"`
	FontColor  string `json:"fontcolor,omitempty" yaml:"fontcolor,omitempty"`

	Subsume   bool `json:"subsume,omitempty" yaml:"subsume,omitempty"`
	Candidate bool `json:"candidate,omitempty" yaml:"candidate,omitempty"`
	Error     bool `json:"error,omitempty" yaml:"error,omitempty"`
}

// Set assigns a recognised attribute and reports whether key was recognised.
func (a *EdgeAttrs) Set(key, value string) bool {
	set, ok := edgeSetters[key]
	if !ok {
		return false
	}
	set(a, value)
	return true
}

var edgeSetters = map[string]func(*EdgeAttrs, string){
	"color":      func(a *EdgeAttrs, v string) { a.Color = v },
	"penwidth":   func(a *EdgeAttrs, v string) { a.PenWidth = v },
	"fontname":   func(a *EdgeAttrs, v string) { a.FontName = v },
	"label":      func(a *EdgeAttrs, v string) { a.Label = v },
	"style":      func(a *EdgeAttrs, v string) { a.Style = v },
	"arrowhead":  func(a *EdgeAttrs, v string) { a.ArrowHead = v },
	"constraint": func(a *EdgeAttrs, v string) { a.Constraint = v },
	"dir":        func(a *EdgeAttrs, v string) { a.Dir = v },
	"pencolor":   func(a *EdgeAttrs, v string) { a.PenColor = v },
	"fontcolor":  func(a *EdgeAttrs, v string) { a.FontColor = v },
	"subsume":    func(a *EdgeAttrs, v string) { a.Subsume = ParseFlag(v) },
	"candidate":  func(a *EdgeAttrs, v string) { a.Candidate = ParseFlag(v) },
	"error":      func(a *EdgeAttrs, v string) { a.Error = ParseFlag(v) },
}

// NodeKeys returns the recognised node attribute keys in sorted order.
func NodeKeys() []string { return sortedKeys(nodeSetters) }

// EdgeKeys returns the recognised edge attribute keys in sorted order.
func EdgeKeys() []string { return sortedKeys(edgeSetters) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ParseFlag interprets a DOT attribute value as a category marker.
// "true", "1", "yes" and "on" (any case) are set; anything else is not.
func ParseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

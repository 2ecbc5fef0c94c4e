// Package pipeline turns Cubicle DOT text into graph models ready to display.
//
// Loading runs in two stages:
//
//  1. Load: parse the text, strip subsumption edges, find the single original
//     state and expand the hierarchy (plus its pruned twin).
//  2. Build: lay out one variant of the hierarchy and materialize it as a
//     [model.Graph].
//
// A viewer loads once per file and builds a variant whenever a split needs
// one it does not have yet. The CLI render command builds both variants
// concurrently.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	info, err := runner.Load(ctx, "graph.dot", data)
//	if err != nil {
//	    return err
//	}
//	full, err := runner.Build(ctx, info, pipeline.VariantFull)
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/cubicleview/pkg/cache"
	"github.com/matzehuels/cubicleview/pkg/dot"
	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
	"github.com/matzehuels/cubicleview/pkg/hierarchy"
	"github.com/matzehuels/cubicleview/pkg/layout"
)

// Format constants for exported outputs.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatYAML: true,
}

// ValidateFormat checks a single output format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return cverrors.New(cverrors.ErrCodeInvalidFormat, "invalid format: %s (must be svg, png, json, or yaml)", format)
	}
	return nil
}

// ValidateFormats checks every format in the list.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Variant selects which hierarchy a graph model is built from.
type Variant int

const (
	// VariantPruned drops subsumed states and everything below them.
	VariantPruned Variant = iota
	// VariantFull keeps every state, adds unreachable states as synthetic
	// nodes and re-attaches subsumption edges.
	VariantFull
)

// VariantFor returns the variant displayed when subsumed states are shown
// or hidden.
func VariantFor(showSubsumed bool) Variant {
	if showSubsumed {
		return VariantFull
	}
	return VariantPruned
}

func (v Variant) String() string {
	if v == VariantFull {
		return "full"
	}
	return "pruned"
}

// ParseVariant maps "full" or "pruned" to a variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "full":
		return VariantFull, nil
	case "pruned":
		return VariantPruned, nil
	}
	return 0, cverrors.New(cverrors.ErrCodeInvalidInput, "unknown variant %q (must be full or pruned)", s)
}

// Info is a loaded graph: everything derived from the DOT text before layout.
type Info struct {
	// Source names where the text came from, for logs.
	Source string
	// Hash identifies the text.
	Hash string

	// Raw is the parsed graph with subsumption edges removed.
	Raw *dot.Graph
	// Subsumed holds the removed subsumption edges.
	Subsumed []dot.Edge

	Root   *hierarchy.Node
	Pruned *hierarchy.Node

	// NodeSize is the layout spacing chosen from the raw node count.
	NodeSize layout.Size
	Large    bool
}

// Tree returns the hierarchy laid out for v.
func (i *Info) Tree(v Variant) *hierarchy.Node {
	if v == VariantFull {
		return i.Root
	}
	return i.Pruned
}

// Load parses data and derives the hierarchies.
func Load(source string, data []byte, policy layout.Policy) (*Info, error) {
	raw, err := dot.Parse(data)
	if err != nil {
		return nil, cverrors.Wrap(cverrors.ErrCodeParse, err, "cannot read graph from %s", source)
	}

	info := &Info{
		Source: source,
		Hash:   cache.Hash(data),
		Raw:    raw,
	}
	for _, ref := range raw.Edges() {
		attrs, _ := raw.Edge(ref)
		if !attrs.Subsume {
			continue
		}
		info.Subsumed = append(info.Subsumed, dot.Edge{Ref: ref, Attrs: attrs})
		raw.RemoveEdge(ref)
	}

	root, err := hierarchy.Build(raw, hierarchy.FindRoots(raw))
	if err != nil {
		return nil, err
	}
	info.Root = root
	info.Pruned = hierarchy.PruneSubsumed(root)
	info.NodeSize = policy.SizeFor(raw.NodeCount())
	info.Large = policy.IsLarge(raw.NodeCount())
	return info, nil
}

// Stats records timings of one pipeline run.
type Stats struct {
	ParseTime  time.Duration
	LayoutTime time.Duration
	NodeCount  int
	EdgeCount  int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d edges, parse %s, layout %s",
		s.NodeCount, s.EdgeCount, s.ParseTime.Round(time.Millisecond), s.LayoutTime.Round(time.Millisecond))
}

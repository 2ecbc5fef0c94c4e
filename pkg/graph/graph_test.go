package graph

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cubicleview/internal/testgraph"
	"github.com/matzehuels/cubicleview/pkg/model"
	"github.com/matzehuels/cubicleview/pkg/options"
	"github.com/matzehuels/cubicleview/pkg/pipeline"
	"github.com/matzehuels/cubicleview/pkg/selection"
)

func sample(t *testing.T, v pipeline.Variant) *model.Graph {
	t.Helper()
	r := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	r.Engine = testgraph.DepthEngine{}
	res, err := r.Execute(context.Background(), "sample", []byte(testgraph.Sample), v)
	if err != nil {
		t.Fatal(err)
	}
	return res.Graphs[v]
}

func find(g Graph, id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

func TestFromModel(t *testing.T) {
	g := sample(t, pipeline.VariantFull)
	sel := selection.Select(selection.State{}, g, "4")
	opts := options.Default()
	opts.ShowUnsafe = false

	out := FromModel(g, "full", sel, opts)

	if len(out.Nodes) != testgraph.SampleFullNodes || len(out.Edges) != testgraph.SampleFullEdges {
		t.Fatalf("got %d nodes, %d edges", len(out.Nodes), len(out.Edges))
	}
	tests := []struct {
		id        string
		highlight string
		hidden    bool
		label     string
	}{
		{"4", HighlightSelected, false, ""},
		{"2", HighlightAncestor, false, "2: t1"},
		{"1", HighlightAncestor, false, "1: init"},
		{"5", "", true, "5: bad"},
		{"6", "", false, ""},
		{"8", "", false, "Invariant 8"},
	}
	for _, tt := range tests {
		n := find(out, tt.id)
		if n == nil {
			t.Errorf("node %s missing", tt.id)
			continue
		}
		if n.Highlight != tt.highlight || n.Hidden != tt.hidden || n.Label != tt.label {
			t.Errorf("node %s = %+v", tt.id, *n)
		}
	}
	if n := find(out, "8"); n == nil || !n.Synthetic || n.DisplayLabel() != "Invariant 8" {
		t.Errorf("synthetic node = %+v", n)
	}
	if got := find(out, "1").Categories; len(got) != 1 || got[0] != "orig" {
		t.Errorf("categories of 1 = %v", got)
	}
	if out.Selection == nil || out.Selection.Node != "4" {
		t.Errorf("selection = %+v", out.Selection)
	}

	onPath := 0
	for _, e := range out.Edges {
		if e.OnPath {
			onPath++
			if e.Subsume {
				t.Errorf("subsumption edge %s -> %s on path", e.From, e.To)
			}
		}
	}
	// 1 -> 2 -> 4.
	if onPath != 2 {
		t.Errorf("edges on path = %d, want 2", onPath)
	}
}

func TestFromModelForeignSelection(t *testing.T) {
	g := sample(t, pipeline.VariantPruned)
	sel := selection.State{Node: "6", Ancestors: []string{"4", "2", "1"}}

	out := FromModel(g, "pruned", sel, options.Default())
	if out.Selection != nil {
		t.Errorf("selection of a node outside the graph = %+v", out.Selection)
	}
	if n := find(out, "2"); n.Highlight != HighlightAncestor {
		t.Errorf("node 2 highlight = %q", n.Highlight)
	}
}

func TestRoundTrip(t *testing.T) {
	g := FromModel(sample(t, pipeline.VariantPruned), "pruned", selection.State{}, options.Default())
	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			data, err := Marshal(g, format)
			if err != nil {
				t.Fatal(err)
			}
			back, err := Read(bytes.NewReader(data), format)
			if err != nil {
				t.Fatal(err)
			}
			if len(back.Nodes) != len(g.Nodes) || len(back.Edges) != len(g.Edges) || back.Variant != "pruned" {
				t.Errorf("round trip = %+v", back)
			}
			if back.Nodes[0].X != g.Nodes[0].X {
				t.Errorf("x = %v, want %v", back.Nodes[0].X, g.Nodes[0].X)
			}
		})
	}
}

func TestFiles(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "a"}}, Edges: []Edge{}}
	dir := t.TempDir()
	for _, name := range []string{"g.json", "g.yml"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(g, path); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
		back, err := ReadFile(path)
		if err != nil || len(back.Nodes) != 1 || back.Nodes[0].ID != "a" {
			t.Errorf("ReadFile(%s) = %+v, %v", name, back, err)
		}
	}
	if err := WriteFile(g, filepath.Join(dir, "g.txt")); err == nil {
		t.Error("WriteFile(.txt) succeeded")
	}
}

func TestWriteUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, Graph{}, "xml")
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Errorf("Write(xml) = %v", err)
	}
}

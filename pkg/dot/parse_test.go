package dot

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

const sample = `digraph G {
  1 [label="init\nx = 0", orig=true, color=green];
  2 [label="t1\nx = 1", color=red, unsafe=true];
  3 [label="t2", subsumed=true, tooltip="hover"];
  4;
  1 -> 2 [label="t1", color=blue];
  1 -> 3;
  3 -> 2 [subsume=true, style=dashed];
  2 -> 4 [weight=3];
}`

func TestParse(t *testing.T) {
	g, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := g.Nodes(); !slices.Equal(got, []string{"1", "2", "3", "4"}) {
		t.Errorf("Nodes = %v", got)
	}
	if g.EdgeCount() != 4 {
		t.Errorf("EdgeCount = %d, want 4", g.EdgeCount())
	}

	root, _ := g.Node("1")
	if !root.Orig || root.Color != "green" {
		t.Errorf("node 1 = %+v", root)
	}
	if root.Label != `init\nx = 0` {
		t.Errorf("label = %q, want escaped newline kept", root.Label)
	}

	plain, _ := g.Node("4")
	if plain.HasLabel() {
		t.Errorf("node 4 has label %q, want none", plain.Label)
	}

	sub, _ := g.Node("3")
	if !sub.Subsumed {
		t.Error("node 3 not flagged subsumed")
	}

	attrs, ok := g.Edge(EdgeRef{Source: "3", Target: "2"})
	if !ok || !attrs.Subsume || attrs.Style != "dashed" {
		t.Errorf("edge 3->2 = %+v, %v", attrs, ok)
	}
	attrs, _ = g.Edge(EdgeRef{Source: "1", Target: "2"})
	if attrs.Color != "blue" || attrs.Label != "t1" {
		t.Errorf("edge 1->2 = %+v", attrs)
	}

	ignored := g.Ignored()
	if ignored["tooltip"] != 1 || ignored["weight"] != 1 {
		t.Errorf("Ignored = %v, want tooltip and weight counted", ignored)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t"},
		{"syntax", "digraph G { 1 -> }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input)); err == nil {
				t.Error("Parse succeeded, want error")
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.dot")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if g.NodeCount() != 4 {
		t.Errorf("NodeCount = %d, want 4", g.NodeCount())
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.dot")); !os.IsNotExist(err) {
		t.Errorf("ParseFile(missing) = %v, want not-exist", err)
	}
}

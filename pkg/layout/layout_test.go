package layout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/cubicleview/pkg/cache"
	"github.com/matzehuels/cubicleview/pkg/hierarchy"
)

func sampleTree() *hierarchy.Node {
	return &hierarchy.Node{Name: "A", Children: []*hierarchy.Node{
		{Name: "B", Children: []*hierarchy.Node{{Name: "D"}}},
		{Name: "C", Children: []*hierarchy.Node{{Name: "D"}}},
	}}
}

func TestPolicySizeFor(t *testing.T) {
	tests := []struct {
		count int
		want  Size
		large bool
	}{
		{1, Size{50, 75}, false},
		{199, Size{50, 75}, false},
		{200, Size{50, 75}, false},
		{201, Size{300, 300}, true},
	}
	for _, tt := range tests {
		if got := DefaultPolicy.SizeFor(tt.count); got != tt.want {
			t.Errorf("SizeFor(%d) = %v, want %v", tt.count, got, tt.want)
		}
		if got := DefaultPolicy.IsLarge(tt.count); got != tt.large {
			t.Errorf("IsLarge(%d) = %v, want %v", tt.count, got, tt.large)
		}
	}
}

func TestPlace(t *testing.T) {
	pos := []Point{{0, 0}, {-1, 1}, {-1, 2}, {1, 1}, {1, 2}}
	tree, err := Place(sampleTree(), pos)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if tree.Name != "A" || len(tree.Children) != 2 {
		t.Fatalf("tree = %+v", tree)
	}
	c := tree.Children[1]
	if c.Name != "C" || c.X != 1 || c.Y != 1 {
		t.Errorf("C = %+v", c)
	}
	if d := c.Children[0]; d.Name != "D" || d.X != 1 || d.Y != 2 {
		t.Errorf("C's D = %+v", d)
	}

	got := Positions(tree)
	for i := range pos {
		if got[i] != pos[i] {
			t.Errorf("Positions[%d] = %v, want %v", i, got[i], pos[i])
		}
	}

	if _, err := Place(sampleTree(), pos[:2]); err == nil {
		t.Error("Place accepted too few positions")
	}
	if _, err := Place(nil, nil); err == nil {
		t.Error("Place accepted nil hierarchy")
	}
}

func TestBounds(t *testing.T) {
	tree, _ := Place(sampleTree(), []Point{{0, 0}, {-10, 75}, {-10, 150}, {10, 75}, {10, 150}})
	min, max := Bounds(tree)
	if min != (Point{-10, 0}) || max != (Point{10, 150}) {
		t.Errorf("Bounds = %v, %v", min, max)
	}
}

func TestTreeDOT(t *testing.T) {
	src, count := TreeDOT(sampleTree(), Size{Width: 72, Height: 144})
	if count != 5 {
		t.Errorf("count = %d, want 5", count)
	}
	for _, want := range []string{"nodesep=1.0000", "ranksep=2.0000", "ordering=out", "n0 -> n1;", "n1 -> n2;", "n0 -> n3;", "n3 -> n4;"} {
		if !strings.Contains(src, want) {
			t.Errorf("DOT missing %q:\n%s", want, src)
		}
	}
}

func TestParsePos(t *testing.T) {
	tests := []struct {
		in      string
		want    Point
		wantErr bool
	}{
		{"27,90", Point{27, 90}, false},
		{"1.5,-2!", Point{1.5, -2}, false},
		{"", Point{}, true},
		{"x,1", Point{}, true},
		{"1,y", Point{}, true},
	}
	for _, tt := range tests {
		got, err := parsePos(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parsePos(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestGraphvizEngine(t *testing.T) {
	size := Size{Width: 50, Height: 75}
	tree, err := NewGraphvizEngine().Layout(context.Background(), sampleTree(), size)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if tree.X != 0 || tree.Y != 0 {
		t.Errorf("root at (%v, %v), want origin", tree.X, tree.Y)
	}
	b, c := tree.Children[0], tree.Children[1]
	if b.Y <= 0 || b.Y != c.Y {
		t.Errorf("children at y=%v and %v, want equal and below root", b.Y, c.Y)
	}
	if b.X >= c.X {
		t.Errorf("sibling order lost: B.x=%v C.x=%v", b.X, c.X)
	}
	if c.X-b.X < size.Width*0.9 {
		t.Errorf("siblings %v apart, want about %v", c.X-b.X, size.Width)
	}
	if d := b.Children[0]; d.Y <= b.Y {
		t.Errorf("grandchild y=%v not below child y=%v", d.Y, b.Y)
	}
}

type countingEngine struct {
	calls int
	err   error
}

func (e *countingEngine) Name() string { return "counting" }

func (e *countingEngine) Layout(_ context.Context, root *hierarchy.Node, size Size) (*Tree, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	var pos []Point
	hierarchy.Walk(root, func(_ *hierarchy.Node, depth int) bool {
		pos = append(pos, Point{X: float64(len(pos)) * size.Width, Y: float64(depth) * size.Height})
		return true
	})
	return Place(root, pos)
}

func TestCachedEngine(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingEngine{}
	e := NewCachedEngine(inner, fc, nil, time.Hour, nil)

	first, err := e.Layout(ctx, sampleTree(), Size{10, 20})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	second, err := e.Layout(ctx, sampleTree(), Size{10, 20})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}
	if second.Children[1].Children[0].Y != first.Children[1].Children[0].Y {
		t.Error("cached layout differs from computed one")
	}

	if _, err := e.Layout(ctx, sampleTree(), Size{30, 20}); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("different size should miss, calls = %d", inner.calls)
	}
	if e.Name() != "counting" {
		t.Errorf("Name = %q", e.Name())
	}
}

func TestCachedEngineError(t *testing.T) {
	boom := errors.New("boom")
	e := NewCachedEngine(&countingEngine{err: boom}, nil, nil, 0, nil)
	if _, err := e.Layout(context.Background(), sampleTree(), Size{1, 1}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

package layout

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/cubicleview/pkg/dot"
	"github.com/matzehuels/cubicleview/pkg/hierarchy"
)

// Size is the spacing cell of one tree node.
type Size struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Policy chooses node spacing from graph size.
type Policy struct {
	Threshold int  `toml:"threshold"`
	Small     Size `toml:"small"`
	Large     Size `toml:"large"`
}

// DefaultPolicy is the spacing used unless configured otherwise.
var DefaultPolicy = Policy{
	Threshold: 200,
	Small:     Size{Width: 50, Height: 75},
	Large:     Size{Width: 300, Height: 300},
}

// SizeFor returns the spacing for a graph of count nodes.
func (p Policy) SizeFor(count int) Size {
	if count > p.Threshold {
		return p.Large
	}
	return p.Small
}

// IsLarge reports whether count is above the threshold.
func (p Policy) IsLarge(count int) bool { return count > p.Threshold }

// Point is a 2D position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tree is a positioned hierarchy node.
type Tree struct {
	Name     string        `json:"name"`
	Data     dot.NodeAttrs `json:"data"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Children []*Tree       `json:"children,omitempty"`
}

// Engine positions a hierarchy.
type Engine interface {
	Layout(ctx context.Context, root *hierarchy.Node, size Size) (*Tree, error)
	Name() string
}

// Place copies root into a positioned tree, taking coordinates from pos in
// hierarchy pre-order.
func Place(root *hierarchy.Node, pos []Point) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("layout: nil hierarchy")
	}
	if want := hierarchy.Count(root); len(pos) != want {
		return nil, fmt.Errorf("layout: %d positions for %d nodes", len(pos), want)
	}

	type item struct {
		src    *hierarchy.Node
		parent *Tree
	}
	var out *Tree
	i := 0
	stack := []item{{root, nil}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t := &Tree{Name: it.src.Name, Data: it.src.Data, X: pos[i].X, Y: pos[i].Y}
		i++
		if it.parent == nil {
			out = t
		} else {
			it.parent.Children = append(it.parent.Children, t)
		}
		for j := len(it.src.Children) - 1; j >= 0; j-- {
			stack = append(stack, item{it.src.Children[j], t})
		}
	}
	return out, nil
}

// Positions lists the tree's coordinates in pre-order.
func Positions(t *Tree) []Point {
	var out []Point
	Walk(t, func(n *Tree) { out = append(out, Point{n.X, n.Y}) })
	return out
}

// Walk visits the tree in pre-order.
func Walk(t *Tree, fn func(*Tree)) {
	if t == nil {
		return
	}
	stack := []*Tree{t}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// Bounds returns the min and max corner of the tree's node positions.
func Bounds(t *Tree) (min, max Point) {
	min = Point{math.Inf(1), math.Inf(1)}
	max = Point{math.Inf(-1), math.Inf(-1)}
	Walk(t, func(n *Tree) {
		min.X = math.Min(min.X, n.X)
		min.Y = math.Min(min.Y, n.Y)
		max.X = math.Max(max.X, n.X)
		max.Y = math.Max(max.Y, n.Y)
	})
	return min, max
}

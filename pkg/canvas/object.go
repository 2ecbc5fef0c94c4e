package canvas

import (
	"math"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Object is a node of the scene.
type Object interface {
	// Frame returns the object's placement, for reading or mutation.
	Frame() *Frame
	// LocalBounds is the box of the object's content in its own space.
	LocalBounds() Rect
}

// Bounds returns o's box in its parent's space. Hidden objects have none.
func Bounds(o Object) Rect {
	f := o.Frame()
	if f.Hidden {
		return Rect{}
	}
	return f.Matrix().ApplyRect(o.LocalBounds())
}

// Container groups child objects under one transform.
type Container struct {
	frame    Frame
	children []Object
}

// NewContainer creates an empty container.
func NewContainer() *Container { return &Container{} }

func (c *Container) Frame() *Frame { return &c.frame }

// AddChild appends objects drawn on top of the existing children.
func (c *Container) AddChild(objs ...Object) {
	c.children = append(c.children, objs...)
}

// RemoveChild detaches o and reports whether it was a child.
func (c *Container) RemoveChild(o Object) bool {
	i := slices.Index(c.children, o)
	if i < 0 {
		return false
	}
	c.children = slices.Delete(c.children, i, i+1)
	return true
}

// RemoveChildren detaches every child.
func (c *Container) RemoveChildren() { c.children = nil }

// Children returns the children in drawing order.
func (c *Container) Children() []Object { return c.children }

// LocalBounds covers the bounds of every visible child.
func (c *Container) LocalBounds() Rect {
	var b bounds
	for _, o := range c.children {
		b.rect(Bounds(o))
	}
	return b.result()
}

// Bounds returns the container's box in its parent's space.
func (c *Container) Bounds() Rect { return Bounds(c) }

// Text is a single- or multi-line label.
//
// Text is measured in monospace cells: a cell is 0.6 em wide and a line
// 1.2 em high, and wide runes take two cells.
type Text struct {
	frame Frame

	Content  string
	FontSize float64
	Color    uint32
	// Stroke outlines the glyphs when its width is positive.
	Stroke LineStyle
	// Resolution is the rasterization density sinks should use.
	Resolution float64
	// Anchor places the text box relative to the position, in fractions of
	// its size: (0, 0) is the top-left corner, (0.5, 0.5) the center.
	Anchor Point
}

// NewText creates a label.
func NewText(content string, fontSize float64) *Text {
	return &Text{Content: content, FontSize: fontSize, Resolution: 1}
}

func (t *Text) Frame() *Frame { return &t.frame }

// Lines splits the content at newlines.
func (t *Text) Lines() []string { return strings.Split(t.Content, "\n") }

// Size returns the width and height of the text box.
func (t *Text) Size() (w, h float64) {
	lines := t.Lines()
	cells := 0
	for _, l := range lines {
		cells = max(cells, runewidth.StringWidth(l))
	}
	return float64(cells) * 0.6 * t.FontSize, float64(len(lines)) * 1.2 * t.FontSize
}

// LocalBounds returns the text box, shifted by the anchor.
func (t *Text) LocalBounds() Rect {
	w, h := t.Size()
	return Rect{-t.Anchor.X * w, -t.Anchor.Y * h, w, h}
}

// Bounds returns the text box in its parent's space.
func (t *Text) Bounds() Rect { return Bounds(t) }

// Visit calls fn for o and every visible descendant in drawing order, with
// the transform from each object's local space to the space m maps into.
// Pass [Identity] to get coordinates in o's parent space.
func Visit(o Object, m Matrix, fn func(o Object, m Matrix)) {
	f := o.Frame()
	if f.Hidden {
		return
	}
	m = m.Mul(f.Matrix())
	fn(o, m)
	if p, ok := o.(interface{ Children() []Object }); ok {
		for _, c := range p.Children() {
			Visit(c, m, fn)
		}
	}
}

// Decompose splits a transform built from frames into translation, rotation
// and uniform scale.
func (m Matrix) Decompose() (translate Point, rotation, scale float64) {
	return Point{m.E, m.F}, math.Atan2(m.B, m.A), math.Hypot(m.A, m.B)
}

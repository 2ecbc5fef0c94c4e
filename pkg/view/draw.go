package view

import (
	"math"

	"github.com/matzehuels/cubicleview/pkg/canvas"
	"github.com/matzehuels/cubicleview/pkg/model"
)

// Colors.
const (
	DefaultFill  uint32 = 0xffffff
	SelectedFill uint32 = 0xb4e6a4
	AncestorFill uint32 = 0xde9dff
	PathColor    uint32 = 0xde9dff
	HoverContour uint32 = 0xff0000
	LabelOutline uint32 = 0xffffff
)

// Stroke widths.
const (
	NodeLineWidth = 1.5
	PathWidth     = 1.5
	EdgeWidth     = 0.5
)

// Text metrics.
const (
	NodeFontSize   = 2.5
	EdgeFontSize   = 3
	HoverFontSize  = 26
	TextResolution = 16
)

// Arrow head geometry.
const (
	ArrowLength = 6
	ArrowWings  = 2
)

// Surface is the drawing target of the view.
type Surface interface {
	Clear()
	LineStyle(width float64, color uint32)
	BeginFill(color uint32)
	EndFill()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	DrawRect(x, y, w, h float64)
	DrawRoundedRect(x, y, w, h, radius float64)
	AddChild(objs ...canvas.Object)
	RemoveChildren()
	Bounds() canvas.Rect
	LocalBounds() canvas.Rect
}

// ColorToHex maps a DOT color name to RGB. Unknown names are black.
func ColorToHex(name string) uint32 {
	switch name {
	case "gray":
		return 0x808080
	case "red":
		return 0xff0000
	case "blue":
		return 0x0000ff
	case "green":
		return 0x00ff00
	default:
		return 0x000000
	}
}

// EdgeColor is the color of e when it is not highlighted.
func EdgeColor(e *model.Edge) uint32 {
	if e.Subsume && e.Color == "" {
		return ColorToHex("gray")
	}
	return ColorToHex(e.Color)
}

// DrawNode redraws a node box around a label of the given bounds, centered on
// the surface origin.
func DrawNode(s Surface, bounds canvas.Rect, contour, fill uint32) {
	w, h := bounds.Width+NodeLineWidth, bounds.Height+NodeLineWidth
	s.Clear()
	s.LineStyle(NodeLineWidth, contour)
	s.BeginFill(fill)
	s.DrawRect(-w/2, -h/2, w, h)
	s.EndFill()
}

// DrawArrow draws the edge from src to dst with an arrow head stopping width
// short of dst, and the label next to the head. The line style must already
// be set. It reports false when the edge has zero length; the line is drawn
// but the head and label are skipped.
func DrawArrow(s Surface, src, dst *model.Node, width float64, label string) bool {
	s.MoveTo(src.X, src.Y)
	s.LineTo(dst.X, dst.TargetY)

	dx, dy := dst.X-src.X, dst.TargetY-src.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return false
	}
	nx, ny := dx/l, dy/l

	ex, ey := src.X+nx*(l-width), src.Y+ny*(l-width)
	bx, by := src.X+nx*(l-width-ArrowLength), src.Y+ny*(l-width-ArrowLength)
	// (-ny, nx) is orthogonal to the edge.
	s.MoveTo(ex, ey)
	s.LineTo(bx-ny*ArrowWings, by+nx*ArrowWings)
	s.MoveTo(ex, ey)
	s.LineTo(bx+ny*ArrowWings, by-nx*ArrowWings)

	if label != "" {
		t := canvas.NewText(label, EdgeFontSize)
		t.Stroke = canvas.LineStyle{Width: 1, Color: LabelOutline}
		t.Resolution = TextResolution
		w, _ := t.Size()
		t.Frame().Rotation = math.Pi
		t.Frame().Position = canvas.Point{X: ex + w/2, Y: ey}
		s.AddChild(t)
	}
	return true
}

// DrawHover builds the overlay showing n's label near node, a box in stage
// coordinates. The overlay keeps a constant size and is moved so it stays
// inside stage.
func DrawHover(n *model.Node, node, stage canvas.Rect) *canvas.Graphics {
	hover := canvas.NewGraphics()
	text := canvas.NewText(n.Label, HoverFontSize)
	w, h := text.Size()

	hover.LineStyle(NodeLineWidth, HoverContour)
	hover.BeginFill(DefaultFill)
	hover.DrawRoundedRect(-5, -5, w+10, h+10, 20)
	hover.EndFill()
	hover.AddChild(text)

	box := canvas.Rect{X: node.X + 20, Y: node.Y + 20, Width: w + 10, Height: h + 10}
	if box.X+box.Width > stage.X+stage.Width {
		box.X = stage.X + stage.Width - box.Width - 10
	}
	if box.X < stage.X {
		box.X = stage.X + 10
	}
	if box.Y+box.Height > stage.Y+stage.Height {
		box.Y = stage.Y + stage.Height - box.Height - 10
	}
	if box.Y < stage.Y {
		box.Y = stage.Y + 10
	}
	hover.Frame().Position = canvas.Point{X: box.X + 5, Y: box.Y + 5}
	return hover
}

// PlaceNode normalizes n's label, sizes n from it and returns the node's
// drawing at its layout position. It shifts n.X by half the label width and
// sets n.TargetY, so it must run once per freshly built node. Large graphs
// draw nodes a quarter turn back to match the rotated stage.
func PlaceNode(n *model.Node, large bool) *canvas.Graphics {
	n.Label = model.NormalizeLabel(n.Label)
	text := canvas.NewText(n.Label, NodeFontSize)
	text.Resolution = TextResolution
	w, h := text.Size()

	// Anchored at its bottom-right corner and turned half a turn, the label
	// ends up centered on the drawing's origin.
	text.Anchor = canvas.Point{X: 1, Y: 1}
	text.Frame().Rotation = math.Pi
	text.Frame().Position = canvas.Point{X: -w / 2, Y: -h / 2}

	gfx := canvas.NewGraphics()
	DrawNode(gfx, canvas.Rect{Width: w, Height: h}, ColorToHex(n.Color), DefaultFill)
	gfx.AddChild(text)

	if large {
		n.TargetY = n.Y
	} else {
		n.TargetY = n.Y - h/2
	}
	n.X += w / 2
	n.Width, n.Height = w, h

	gfx.Frame().Position = canvas.Point{X: n.X, Y: n.Y}
	if large {
		gfx.Frame().Rotation -= math.Pi / 2
	}
	return gfx
}

package canvas

// ShapeKind distinguishes recorded shapes.
type ShapeKind int

const (
	ShapePath ShapeKind = iota
	ShapeRect
	ShapeRoundedRect
)

// LineStyle is the stroke of a shape. A zero width draws no stroke.
type LineStyle struct {
	Width float64
	Color uint32
}

// Fill is the fill of a shape.
type Fill struct {
	Color uint32
	On    bool
}

// Shape is one recorded drawing command.
type Shape struct {
	Kind ShapeKind
	Line LineStyle
	Fill Fill

	// Path vertices.
	Points []Point
	Closed bool

	// Rectangle geometry.
	Rect   Rect
	Radius float64
}

// Graphics records vector shapes through a pen-style API. It is also a
// container, so labels can be attached to it.
//
// The pen state (line style and fill) applies to shapes started after it is
// set, like a canvas context.
type Graphics struct {
	Container

	shapes []Shape
	line   LineStyle
	fill   Fill
	open   bool // the last shape is a path still accepting vertices
}

// NewGraphics creates an empty drawing.
func NewGraphics() *Graphics { return &Graphics{} }

// Clear drops every shape and resets the pen. Children are kept.
func (g *Graphics) Clear() {
	g.shapes = nil
	g.line = LineStyle{}
	g.fill = Fill{}
	g.open = false
}

// LineStyle sets the stroke for following shapes.
func (g *Graphics) LineStyle(width float64, color uint32) {
	g.line = LineStyle{Width: width, Color: color}
}

// BeginFill sets the fill for following shapes.
func (g *Graphics) BeginFill(color uint32) { g.fill = Fill{Color: color, On: true} }

// EndFill stops filling following shapes.
func (g *Graphics) EndFill() {
	g.fill = Fill{}
	g.open = false
}

// MoveTo starts a new path at (x, y).
func (g *Graphics) MoveTo(x, y float64) {
	g.shapes = append(g.shapes, Shape{
		Kind:   ShapePath,
		Line:   g.line,
		Fill:   g.fill,
		Points: []Point{{x, y}},
	})
	g.open = true
}

// LineTo extends the open path to (x, y), starting one if needed.
func (g *Graphics) LineTo(x, y float64) {
	if !g.open {
		g.MoveTo(x, y)
		return
	}
	s := &g.shapes[len(g.shapes)-1]
	s.Points = append(s.Points, Point{x, y})
}

// ClosePath closes the open path.
func (g *Graphics) ClosePath() {
	if g.open {
		g.shapes[len(g.shapes)-1].Closed = true
	}
	g.open = false
}

// DrawRect records a rectangle.
func (g *Graphics) DrawRect(x, y, w, h float64) {
	g.shapes = append(g.shapes, Shape{Kind: ShapeRect, Line: g.line, Fill: g.fill, Rect: Rect{x, y, w, h}})
	g.open = false
}

// DrawRoundedRect records a rectangle with rounded corners.
func (g *Graphics) DrawRoundedRect(x, y, w, h, radius float64) {
	g.shapes = append(g.shapes, Shape{
		Kind:   ShapeRoundedRect,
		Line:   g.line,
		Fill:   g.fill,
		Rect:   Rect{x, y, w, h},
		Radius: radius,
	})
	g.open = false
}

// Shapes returns the recorded shapes in drawing order.
func (g *Graphics) Shapes() []Shape { return g.shapes }

// LocalBounds covers every shape, including half its stroke, and every child.
func (g *Graphics) LocalBounds() Rect {
	var b bounds
	for _, s := range g.shapes {
		pad := s.Line.Width / 2
		switch s.Kind {
		case ShapePath:
			for _, p := range s.Points {
				b.point(Point{p.X - pad, p.Y - pad})
				b.point(Point{p.X + pad, p.Y + pad})
			}
		default:
			b.point(Point{s.Rect.X - pad, s.Rect.Y - pad})
			b.point(s.Rect.Max().Add(Point{pad, pad}))
		}
	}
	for _, o := range g.children {
		b.rect(Bounds(o))
	}
	return b.result()
}

// Bounds returns the drawing's box in its parent's space.
func (g *Graphics) Bounds() Rect { return Bounds(g) }

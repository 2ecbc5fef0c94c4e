package canvas

import "math"

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }


// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Len returns the distance from the origin.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Rect is an axis-aligned box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Center returns the middle of r.
func (r Rect) Center() Point { return Point{r.X + r.Width/2, r.Y + r.Height/2} }

// Max returns the corner opposite to (X, Y).
func (r Rect) Max() Point { return Point{r.X + r.Width, r.Y + r.Height} }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{r.X + d, r.Y + d, r.Width - 2*d, r.Height - 2*d}
}

// Union returns the box covering r and s.
func (r Rect) Union(s Rect) Rect {
	var b bounds
	b.rect(r)
	b.rect(s)
	return b.result()
}

// bounds accumulates points into a bounding box.
type bounds struct {
	minX, minY, maxX, maxY float64
	ok                     bool
}

func (b *bounds) point(p Point) {
	if !b.ok {
		b.minX, b.minY, b.maxX, b.maxY = p.X, p.Y, p.X, p.Y
		b.ok = true
		return
	}
	b.minX = math.Min(b.minX, p.X)
	b.minY = math.Min(b.minY, p.Y)
	b.maxX = math.Max(b.maxX, p.X)
	b.maxY = math.Max(b.maxY, p.Y)
}

func (b *bounds) rect(r Rect) {
	if r.Width == 0 && r.Height == 0 && r.X == 0 && r.Y == 0 {
		return
	}
	b.point(Point{r.X, r.Y})
	b.point(r.Max())
}

func (b *bounds) result() Rect {
	if !b.ok {
		return Rect{}
	}
	return Rect{b.minX, b.minY, b.maxX - b.minX, b.maxY - b.minY}
}

// Matrix is a 2D affine transform:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transform.
var Identity = Matrix{A: 1, D: 1}

// Apply maps p.
func (m Matrix) Apply(p Point) Point {
	return Point{m.A*p.X + m.C*p.Y + m.E, m.B*p.X + m.D*p.Y + m.F}
}

// Mul returns the transform applying n first, then m.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// ApplyRect maps the corners of r and returns their bounding box.
func (m Matrix) ApplyRect(r Rect) Rect {
	if r == (Rect{}) {
		return Rect{}
	}
	var b bounds
	for _, p := range []Point{{r.X, r.Y}, {r.X + r.Width, r.Y}, {r.X, r.Y + r.Height}, r.Max()} {
		b.point(m.Apply(p))
	}
	return b.result()
}

// Frame is the placement of an object in its parent.
type Frame struct {
	Position Point
	// Scale is uniform; zero means 1.
	Scale    float64
	Rotation float64
	Hidden   bool
}

// K returns the effective scale.
func (f *Frame) K() float64 {
	if f.Scale == 0 {
		return 1
	}
	return f.Scale
}

// Matrix returns the local-to-parent transform.
func (f *Frame) Matrix() Matrix {
	k := f.K()
	sin, cos := math.Sincos(f.Rotation)
	return Matrix{
		A: k * cos, B: k * sin,
		C: -k * sin, D: k * cos,
		E: f.Position.X, F: f.Position.Y,
	}
}

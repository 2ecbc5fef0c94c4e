package sink

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/cubicleview/pkg/canvas"
)

// precision is the number of SVG user units per scene unit. svgo takes
// integer coordinates, so geometry is scaled up and the group scaled back.
const precision = 100

// WriteSVG writes scene as a width x height SVG document.
func WriteSVG(w io.Writer, scene canvas.Object, width, height int) error {
	ew := &errWriter{w: w}
	s := svg.New(ew)
	s.Start(width, height)
	s.Rect(0, 0, width, height, "fill:#ffffff")

	canvas.Visit(scene, canvas.Identity, func(o canvas.Object, m canvas.Matrix) {
		switch o := o.(type) {
		case *canvas.Graphics:
			if len(o.Shapes()) == 0 {
				return
			}
			s.Gtransform(transform(m))
			for _, sh := range o.Shapes() {
				svgShape(s, sh)
			}
			s.Gend()
		case *canvas.Text:
			svgText(s, o, m)
		}
	})

	s.End()
	return ew.err
}

func transform(m canvas.Matrix) string {
	return fmt.Sprintf("matrix(%g %g %g %g %g %g) scale(%g)", m.A, m.B, m.C, m.D, m.E, m.F, 1.0/precision)
}

func svgShape(s *svg.SVG, sh canvas.Shape) {
	style := shapeStyle(sh)
	switch sh.Kind {
	case canvas.ShapeRect:
		r := sh.Rect
		s.Rect(units(r.X), units(r.Y), units(r.Width), units(r.Height), style)
	case canvas.ShapeRoundedRect:
		r := sh.Rect
		s.Roundrect(units(r.X), units(r.Y), units(r.Width), units(r.Height), units(sh.Radius), units(sh.Radius), style)
	case canvas.ShapePath:
		if len(sh.Points) < 2 {
			return
		}
		xs := make([]int, len(sh.Points))
		ys := make([]int, len(sh.Points))
		for i, p := range sh.Points {
			xs[i], ys[i] = units(p.X), units(p.Y)
		}
		if sh.Closed {
			s.Polygon(xs, ys, style)
		} else {
			s.Polyline(xs, ys, style)
		}
	}
}

func shapeStyle(sh canvas.Shape) string {
	fill := "none"
	if sh.Fill.On {
		fill = hex(sh.Fill.Color)
	}
	if sh.Line.Width <= 0 {
		return "fill:" + fill + ";stroke:none"
	}
	return fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d", fill, hex(sh.Line.Color), units(sh.Line.Width))
}

func svgText(s *svg.SVG, t *canvas.Text, m canvas.Matrix) {
	if t.Content == "" {
		return
	}
	s.Gtransform(transform(m))
	box := t.LocalBounds()
	style := fmt.Sprintf("font-family:monospace;font-size:%d;fill:%s", units(t.FontSize), hex(t.Color))
	if t.Stroke.Width > 0 {
		style += fmt.Sprintf(";stroke:%s;stroke-width:%d;paint-order:stroke", hex(t.Stroke.Color), units(t.Stroke.Width))
	}
	for i, line := range t.Lines() {
		baseline := box.Y + float64(i+1)*1.2*t.FontSize - 0.3*t.FontSize
		s.Text(units(box.X), units(baseline), line, style)
	}
	s.Gend()
}

func units(v float64) int { return int(math.Round(v * precision)) }

func hex(c uint32) string { return fmt.Sprintf("#%06x", c&0xffffff) }

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, nil
}

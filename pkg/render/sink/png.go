package sink

import (
	"io"

	"git.sr.ht/~sbinet/gg"

	"github.com/matzehuels/cubicleview/pkg/canvas"
)

// glyphHeight is the line height of gg's built-in face.
const glyphHeight = 13.0

// WritePNG rasterizes scene into a width x height PNG.
func WritePNG(w io.Writer, scene canvas.Object, width, height int) error {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	canvas.Visit(scene, canvas.Identity, func(o canvas.Object, m canvas.Matrix) {
		switch o := o.(type) {
		case *canvas.Graphics:
			k := setMatrix(dc, m)
			for _, sh := range o.Shapes() {
				pngShape(dc, sh, k)
			}
		case *canvas.Text:
			pngText(dc, o, m)
		}
	})
	dc.Identity()
	return dc.EncodePNG(w)
}

// setMatrix loads m into dc and returns its scale.
func setMatrix(dc *gg.Context, m canvas.Matrix) float64 {
	pos, rot, k := m.Decompose()
	dc.Identity()
	dc.Translate(pos.X, pos.Y)
	dc.Rotate(rot)
	dc.Scale(k, k)
	return k
}

func pngShape(dc *gg.Context, sh canvas.Shape, k float64) {
	switch sh.Kind {
	case canvas.ShapeRect:
		dc.DrawRectangle(sh.Rect.X, sh.Rect.Y, sh.Rect.Width, sh.Rect.Height)
	case canvas.ShapeRoundedRect:
		dc.DrawRoundedRectangle(sh.Rect.X, sh.Rect.Y, sh.Rect.Width, sh.Rect.Height, sh.Radius)
	case canvas.ShapePath:
		if len(sh.Points) < 2 {
			return
		}
		dc.NewSubPath()
		dc.MoveTo(sh.Points[0].X, sh.Points[0].Y)
		for _, p := range sh.Points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		if sh.Closed {
			dc.ClosePath()
		}
	}
	if sh.Fill.On {
		setColor(dc, sh.Fill.Color)
		dc.FillPreserve()
	}
	if sh.Line.Width > 0 {
		setColor(dc, sh.Line.Color)
		// gg strokes in device pixels.
		dc.SetLineWidth(sh.Line.Width * k)
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

func pngText(dc *gg.Context, t *canvas.Text, m canvas.Matrix) {
	if t.Content == "" || t.FontSize <= 0 {
		return
	}
	setMatrix(dc, m)
	box := t.LocalBounds()
	f := t.FontSize * 1.2 / glyphHeight
	dc.Translate(box.X, box.Y)
	dc.Scale(f, f)
	setColor(dc, t.Color)
	for i, line := range t.Lines() {
		dc.DrawStringAnchored(line, 0, float64(i)*glyphHeight, 0, 1)
	}
}

func setColor(dc *gg.Context, c uint32) {
	dc.SetRGB255(int(c>>16&0xff), int(c>>8&0xff), int(c&0xff))
}

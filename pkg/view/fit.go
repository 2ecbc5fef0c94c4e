package view

import (
	"math"

	"github.com/matzehuels/cubicleview/pkg/canvas"
)

// FitConfig controls how a graph is fitted into its view.
type FitConfig struct {
	// Threshold is the node count above which graphs are drawn sideways.
	Threshold int `toml:"threshold"`
	// Padding is kept free below the graph.
	Padding float64 `toml:"padding"`
}

// DefaultFit is the fit used unless configured otherwise.
var DefaultFit = FitConfig{Threshold: 200, Padding: 100}

// Transform places a stage in its view.
type Transform struct {
	X, Y     float64
	K        float64
	Rotation float64
}

// Fit returns the transform showing graph, in stage coordinates, inside view.
//
// Graphs up to the threshold are turned upside down so the root sits at the
// bottom, and scaled to the view height. Larger graphs are turned a quarter
// turn and scaled so their width fills the view height. A degenerate graph or
// view keeps scale 1.
func Fit(graph, view canvas.Rect, nodeCount int, cfg FitConfig) Transform {
	mid := view.Center()
	t := Transform{
		X:        mid.X,
		Y:        2*mid.Y - cfg.Padding,
		K:        1,
		Rotation: math.Pi,
	}
	extent := graph.Height
	if nodeCount > cfg.Threshold {
		extent = graph.Width
		t.Rotation = -math.Pi / 2
	}
	if extent > 0 {
		if k := (view.Height - cfg.Padding) / extent; k > 0 {
			t.K = k
		}
	}
	return t
}

// ApplyTo sets f to t.
func (t Transform) ApplyTo(f *canvas.Frame) {
	f.Position = canvas.Point{X: t.X, Y: t.Y}
	f.Scale = t.K
	f.Rotation = t.Rotation
}

// Zoom is a user pan and zoom applied on top of the fit.
type Zoom struct {
	X, Y float64
	K    float64
}

// NoZoom leaves the fit unchanged.
var NoZoom = Zoom{K: 1}

// Compose applies z after t.
func (z Zoom) Compose(t Transform) Transform {
	k := z.K
	if k == 0 {
		k = 1
	}
	return Transform{
		X:        z.X + k*t.X,
		Y:        z.Y + k*t.Y,
		K:        k * t.K,
		Rotation: t.Rotation,
	}
}

package view

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cubicleview/pkg/canvas"
	"github.com/matzehuels/cubicleview/pkg/model"
	"github.com/matzehuels/cubicleview/pkg/observability"
	"github.com/matzehuels/cubicleview/pkg/options"
	"github.com/matzehuels/cubicleview/pkg/pipeline"
	"github.com/matzehuels/cubicleview/pkg/selection"
	"github.com/matzehuels/cubicleview/pkg/store"
)

// Builder builds the graph model of one layout variant.
type Builder interface {
	Build(ctx context.Context, info *pipeline.Info, v pipeline.Variant) (*model.Graph, error)
}

// State is the reconciliation state of a split.
type State int

const (
	StateEmpty State = iota
	StateInitialized
	StateIdle
	StateSelectionHighlighted
	StateOptionChanged
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateInitialized:
		return "initialized"
	case StateIdle:
		return "idle"
	case StateSelectionHighlighted:
		return "selection-highlighted"
	case StateOptionChanged:
		return "option-changed"
	}
	return "unknown"
}

// Plan lists the updates a split needs to catch up with the store.
type Plan struct {
	// Rebuild switches to a fresh graph model of Variant. It implies every
	// other step.
	Rebuild bool
	Variant pipeline.Variant

	Recolor     bool
	Visibility  bool
	RedrawEdges bool
	Refit       bool
	Hover       bool
}

// Empty reports whether nothing needs updating.
func (p Plan) Empty() bool {
	return !p.Rebuild && !p.Recolor && !p.Visibility && !p.RedrawEdges && !p.Refit && !p.Hover
}

// Config configures a split.
type Config struct {
	Fit FitConfig
	// View is the split's viewport in scene coordinates.
	View   canvas.Rect
	Logger *log.Logger
	// OnState observes state transitions.
	OnState func(from, to State)
}

// Split is the scene of one split view.
type Split struct {
	builder Builder
	cfg     Config
	logger  *log.Logger

	state   State
	info    *pipeline.Info
	graph   *model.Graph
	variant pipeline.Variant
	opts    options.Info
	sel     selection.State

	root  *canvas.Container
	stage *canvas.Container
	links *canvas.Graphics
	nodes map[string]*canvas.Graphics
	hover *canvas.Container

	fit     Transform
	zoom    Zoom
	refresh bool
}

// NewSplit creates an empty split.
func NewSplit(b Builder, cfg Config) *Split {
	if cfg.Fit == (FitConfig{}) {
		cfg.Fit = DefaultFit
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Split{
		builder: b,
		cfg:     cfg,
		logger:  logger,
		root:    canvas.NewContainer(),
		stage:   canvas.NewContainer(),
		links:   canvas.NewGraphics(),
		nodes:   make(map[string]*canvas.Graphics),
		hover:   canvas.NewContainer(),
		zoom:    NoZoom,
	}
	s.root.AddChild(s.stage, s.hover)
	return s
}

// State returns the split's state.
func (s *Split) State() State { return s.state }

// Graph returns the displayed graph model, or nil before the first build.
func (s *Split) Graph() *model.Graph { return s.graph }

// Variant returns the displayed layout variant.
func (s *Split) Variant() pipeline.Variant { return s.variant }

// Scene returns the split's root object.
func (s *Split) Scene() *canvas.Container { return s.root }

// View returns the split's viewport.
func (s *Split) View() canvas.Rect { return s.cfg.View }

// Transform returns the stage transform, fit and zoom combined.
func (s *Split) Transform() Transform { return s.zoom.Compose(s.fit) }

// Resize moves the split's viewport. The next update refits the graph.
func (s *Split) Resize(view canvas.Rect) {
	if view == s.cfg.View {
		return
	}
	s.cfg.View = view
	s.refresh = true
}

// SetZoom sets the user zoom and repositions the stage.
func (s *Split) SetZoom(z Zoom) {
	s.zoom = z
	s.Transform().ApplyTo(s.stage.Frame())
}

// Reconcile compares st with what split i last drew.
func (s *Split) Reconcile(st store.State, i int) Plan {
	if !st.Loaded() || i < 0 || i >= len(st.Options) {
		return Plan{}
	}
	opts := st.Options[i]
	v := pipeline.VariantFor(opts.ShowSubsumed)
	if s.graph == nil || s.info != st.Graph || v != s.variant {
		return Plan{
			Rebuild:     true,
			Variant:     v,
			Recolor:     true,
			Visibility:  true,
			RedrawEdges: true,
			Refit:       true,
			Hover:       true,
		}
	}

	var p Plan
	if !sameSelection(s.sel, st.Selection) {
		p.Recolor = true
		p.RedrawEdges = true
	}
	if !slices.Equal(s.opts.Disabled(), opts.Disabled()) {
		p.Visibility = true
		p.RedrawEdges = true
	}
	if s.opts.Hovered != opts.Hovered {
		p.Hover = true
	}
	if s.refresh {
		p.Refit = true
		p.Hover = true
	}
	return p
}

// Update reconciles split i with st and applies the result.
func (s *Split) Update(ctx context.Context, st store.State, i int) (Plan, error) {
	p := s.Reconcile(st, i)
	if p.Empty() {
		return p, nil
	}
	return p, s.Apply(ctx, st, i, p)
}

// Apply carries out p for split i. A failed rebuild leaves the previous
// scene in place.
func (s *Split) Apply(ctx context.Context, st store.State, i int, p Plan) error {
	if p.Empty() {
		return nil
	}
	start := time.Now()
	opts := st.Options[i]

	if p.Rebuild {
		g, err := s.builder.Build(ctx, st.Graph, p.Variant)
		if err != nil {
			return err
		}
		if s.state == StateEmpty {
			s.transition(StateInitialized)
		} else {
			s.transition(StateOptionChanged)
		}
		if s.graph != nil {
			st.Graphs.Release(s.graph.ID())
		}
		st.Graphs.Register(g)
		s.info, s.graph, s.variant = st.Graph, g, p.Variant
		s.build(st.Graph.Large)
		s.sel = selection.State{}
		observability.View().OnRebuild(ctx, i, p.Variant.String(), g.Len())
		s.logger.Debug("split rebuilt", "split", i, "variant", p.Variant, "nodes", g.Len())
	} else if p.Recolor && s.state == StateIdle {
		s.transition(StateSelectionHighlighted)
	} else if p.Visibility && s.state == StateIdle {
		s.transition(StateOptionChanged)
	}

	if p.Recolor {
		s.recolor(st.Selection)
	}
	if p.Visibility {
		s.applyVisibility(opts)
	}
	edges := 0
	if p.RedrawEdges {
		edges = s.redrawEdges(st.Selection)
	}
	if p.Refit {
		s.fit = Fit(s.stage.LocalBounds(), s.cfg.View, st.Graph.Raw.NodeCount(), s.cfg.Fit)
		s.Transform().ApplyTo(s.stage.Frame())
		s.refresh = false
	}
	if p.Hover {
		s.drawHover(opts.Hovered)
	}

	s.opts = opts
	s.sel = st.Selection
	s.transition(StateIdle)
	observability.View().OnRedraw(ctx, i, edges, time.Since(start))
	return nil
}

// Close releases the split's graph model from reg.
func (s *Split) Close(reg *model.Registry) {
	if s.graph != nil && reg != nil {
		reg.Release(s.graph.ID())
	}
}

// NodeAt returns the visible node drawn at p, in scene coordinates.
func (s *Split) NodeAt(p canvas.Point) (*model.Node, bool) {
	if s.graph == nil {
		return nil, false
	}
	for _, n := range s.graph.Nodes() {
		if box, ok := s.NodeBounds(n.Name); ok && box.Contains(p) {
			return n, true
		}
	}
	return nil, false
}

// NodeBounds returns the scene-space box of a visible node.
func (s *Split) NodeBounds(name string) (canvas.Rect, bool) {
	gfx := s.nodes[name]
	if gfx == nil || gfx.Frame().Hidden {
		return canvas.Rect{}, false
	}
	return s.stage.Frame().Matrix().ApplyRect(canvas.Bounds(gfx)), true
}

func (s *Split) transition(to State) {
	if to == s.state {
		return
	}
	from := s.state
	s.state = to
	if s.cfg.OnState != nil {
		s.cfg.OnState(from, to)
	}
}

// build replaces the stage content with drawings of the current graph.
func (s *Split) build(large bool) {
	s.stage.RemoveChildren()
	s.links = canvas.NewGraphics()
	s.nodes = make(map[string]*canvas.Graphics, s.graph.Len())
	s.stage.AddChild(s.links)
	for _, n := range s.graph.Nodes() {
		gfx := PlaceNode(n, large)
		s.nodes[n.Name] = gfx
		s.stage.AddChild(gfx)
	}
}

// recolor resets the fill of nodes highlighted by the last applied
// selection and highlights the ones of sel.
func (s *Split) recolor(sel selection.State) {
	reset := slices.Concat([]string{s.sel.Node, sel.PrevNode}, s.sel.Ancestors, sel.PrevAncestors)
	for _, name := range reset {
		s.fill(name, DefaultFill)
	}
	for _, name := range sel.Ancestors {
		s.fill(name, AncestorFill)
	}
	s.fill(sel.Node, SelectedFill)
}

func (s *Split) fill(name string, color uint32) {
	if name == "" {
		return
	}
	n, ok := s.graph.Node(name)
	if !ok {
		return
	}
	gfx := s.nodes[name]
	DrawNode(gfx, canvas.Rect{Width: n.Width, Height: n.Height}, ColorToHex(n.Color), color)
}

func (s *Split) applyVisibility(opts options.Info) {
	for _, n := range s.graph.Nodes() {
		s.nodes[n.Name].Frame().Hidden = !opts.Visible(n.Attrs)
	}
}

func (s *Split) hidden(n *model.Node) bool {
	gfx := s.nodes[n.Name]
	return gfx == nil || gfx.Frame().Hidden
}

// redrawEdges redraws every edge between visible nodes and returns how many
// were drawn.
func (s *Split) redrawEdges(sel selection.State) int {
	s.links.Clear()
	s.links.RemoveChildren()
	drawn := 0
	for _, e := range s.graph.Edges() {
		if s.hidden(e.Source) || s.hidden(e.Target) {
			continue
		}
		if !e.Subsume && sel.OnPath(e.Ref()) {
			s.links.LineStyle(PathWidth, PathColor)
		} else {
			s.links.LineStyle(EdgeWidth, EdgeColor(e))
		}
		if DrawArrow(s.links, e.Source, e.Target, e.Target.Width, e.Label) {
			drawn++
		}
		s.links.ClosePath()
	}
	return drawn
}

func (s *Split) drawHover(name string) {
	s.hover.RemoveChildren()
	if name == "" {
		return
	}
	n, ok := s.graph.Node(name)
	if !ok || s.hidden(n) {
		return
	}
	box, ok := s.NodeBounds(name)
	if !ok {
		return
	}
	s.hover.AddChild(DrawHover(n, box, s.cfg.View))
}

func sameSelection(a, b selection.State) bool {
	return a.Node == b.Node && slices.Equal(a.Ancestors, b.Ancestors)
}

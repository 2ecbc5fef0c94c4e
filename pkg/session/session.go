// Package session runs one interactive viewing session.
//
// A [Session] owns the application store, one [view.Split] per split and
// the redraw machinery. Every state change happens on the session's event
// loop: front ends submit work through the exported methods, which queue a
// closure to [Session.Run] and wait for its result.
//
// # Frames
//
// Store dispatches request a redraw from a [view.Scheduler]. The scheduled
// flush runs at the end of the current event, so all dispatches of one
// operation are reconciled in a single pass and the splits are up to date
// when the operation returns. Subscribers then receive one [Event].
//
// # Usage
//
//	sess := session.New(runner, session.Config{View: cfg.View})
//	go sess.Run(ctx)
//	defer sess.Close()
//
//	if err := sess.Load(ctx, "graph.dot", data); err != nil {
//	    return err
//	}
//	sess.Select(ctx, 0, "42")
//	sess.Render(ctx, 0, pipeline.FormatSVG, w)
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cubicleview/pkg/canvas"
	"github.com/matzehuels/cubicleview/pkg/config"
	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
	"github.com/matzehuels/cubicleview/pkg/graph"
	"github.com/matzehuels/cubicleview/pkg/model"
	"github.com/matzehuels/cubicleview/pkg/options"
	"github.com/matzehuels/cubicleview/pkg/pipeline"
	"github.com/matzehuels/cubicleview/pkg/render/sink"
	"github.com/matzehuels/cubicleview/pkg/selection"
	"github.com/matzehuels/cubicleview/pkg/store"
	"github.com/matzehuels/cubicleview/pkg/view"
)

// ErrClosed is returned for operations on a closed session.
var ErrClosed = errors.New("session closed")

// Runner loads graphs and builds their layout variants.
type Runner interface {
	view.Builder
	Load(ctx context.Context, source string, data []byte) (*pipeline.Info, error)
}

// Config configures a session.
type Config struct {
	View   config.View
	Logger *log.Logger
}

// Event tells subscribers that the splits were redrawn.
type Event struct {
	Kind   string    `json:"kind"`
	Splits int       `json:"splits"`
	Source string    `json:"source,omitempty"`
	Node   string    `json:"node,omitempty"`
	Time   time.Time `json:"time"`
}

// Event kinds.
const (
	EventRedraw = "redraw"
	EventHover  = "hover"
)

type request struct {
	fn   func() error
	done chan error
}

// Session is one viewing session.
type Session struct {
	id        string
	createdAt time.Time

	runner Runner
	cfg    Config
	logger *log.Logger

	requests chan request
	quit     chan struct{}
	once     sync.Once

	mu       sync.Mutex
	lastUsed time.Time

	// Owned by the event loop.
	ctx       context.Context
	store     *store.Store
	splits    []*view.Split
	scheduler *view.Scheduler
	frames    []func()
	flushErr  error
	hover     *view.HoverClock
	click     view.ClickTracker
	listeners map[int]func(Event)
	nextID    int
}

// New creates a session. It does nothing until [Session.Run] is called.
func New(r Runner, cfg Config) *Session {
	if cfg.View == (config.View{}) {
		cfg.View = config.Default().View
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := time.Now()
	s := &Session{
		id:        uuid.NewString(),
		createdAt: now,
		lastUsed:  now,
		runner:    r,
		cfg:       cfg,
		logger:    logger,
		requests:  make(chan request),
		quit:      make(chan struct{}),
		ctx:       context.Background(),
		store:     store.New(logger),
		listeners: make(map[int]func(Event)),
	}
	s.scheduler = view.NewScheduler(func(fn func()) { s.frames = append(s.frames, fn) }, s.flush)
	s.store.Subscribe(func(_, _ store.State) { s.scheduler.Request() })
	s.hover = view.NewHoverClock(cfg.View.HoverInterval, func() {
		_ = s.post(func() error {
			s.notify(Event{Kind: EventHover})
			return nil
		})
	})
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LastUsed returns when the session last handled an operation.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// IsExpired reports whether the session has been idle longer than ttl.
func (s *Session) IsExpired(ttl time.Duration) bool {
	return time.Since(s.LastUsed()) > ttl
}

// Run processes operations until ctx is cancelled or the session is closed.
func (s *Session) Run(ctx context.Context) error {
	s.ctx = ctx
	defer s.hover.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return ctx.Err()
		case <-s.quit:
			return nil
		case r := <-s.requests:
			err := r.fn()
			if ferr := s.runFrames(); err == nil {
				err = ferr
			}
			if r.done != nil {
				r.done <- err
			}
		}
	}
}

// Close stops the event loop. It is safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() { close(s.quit) })
}

// Do runs fn on the event loop and waits for it. The error is fn's, or the
// error of the redraw that followed it.
func (s *Session) Do(ctx context.Context, fn func() error) error {
	r := request{fn: fn, done: make(chan error, 1)}
	select {
	case s.requests <- r:
	case <-s.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	s.touch()
	select {
	case err := <-r.done:
		return err
	case <-s.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues fn without waiting for it.
func (s *Session) post(fn func() error) error {
	select {
	case s.requests <- request{fn: fn}:
		return nil
	case <-s.quit:
		return ErrClosed
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

// Subscribe registers fn for redraw events and returns a function removing
// it. fn runs on the event loop and must not block or call the session.
func (s *Session) Subscribe(ctx context.Context, fn func(Event)) (func(), error) {
	var id int
	err := s.Do(ctx, func() error {
		id = s.nextID
		s.nextID++
		s.listeners[id] = fn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return func() {
		_ = s.post(func() error {
			delete(s.listeners, id)
			return nil
		})
	}, nil
}

// =============================================================================
// Operations
// =============================================================================

// Load parses data and shows it in a single split with default options.
func (s *Session) Load(ctx context.Context, source string, data []byte) error {
	info, err := s.runner.Load(ctx, source, data)
	if err != nil {
		return err
	}
	return s.Do(ctx, func() error {
		s.store.Dispatch(store.SetDot{Text: string(data), Source: source})
		s.store.Dispatch(store.SetGraph{Info: info})
		return nil
	})
}

// Select selects node as displayed in split. Selecting the selected node
// again clears the selection.
func (s *Session) Select(ctx context.Context, split int, node string) error {
	return s.Do(ctx, func() error {
		sp, err := s.split(split)
		if err != nil {
			return err
		}
		g := sp.Graph()
		if g == nil {
			return cverrors.New(cverrors.ErrCodeInternal, "split %d has no graph", split)
		}
		if _, ok := g.Node(node); !ok {
			return cverrors.New(cverrors.ErrCodeNodeNotFound, "node %q is not shown in split %d", node, split)
		}
		s.store.Dispatch(store.SelectNode{Graph: g.ID(), Node: node})
		return nil
	})
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection(ctx context.Context) error {
	return s.Do(ctx, func() error {
		s.store.Dispatch(store.ClearSelection{})
		return nil
	})
}

// AddSplit adds a split with default options and returns its index.
func (s *Session) AddSplit(ctx context.Context) (int, error) {
	var i int
	err := s.Do(ctx, func() error {
		if !s.store.State().Loaded() {
			return cverrors.New(cverrors.ErrCodeInvalidInput, "no graph loaded")
		}
		st := s.store.Dispatch(store.AddOptions{})
		i = len(st.Options) - 1
		return nil
	})
	return i, err
}

// DeleteSplit removes a split. The last split cannot be removed.
func (s *Session) DeleteSplit(ctx context.Context, split int) error {
	return s.Do(ctx, func() error {
		sp, err := s.split(split)
		if err != nil {
			return err
		}
		if len(s.splits) == 1 {
			return cverrors.New(cverrors.ErrCodeInvalidSplit, "cannot remove the last split")
		}
		sp.Close(s.store.State().Graphs)
		s.splits = append(s.splits[:split:split], s.splits[split+1:]...)
		s.store.Dispatch(store.DeleteOptions{Split: split})
		return nil
	})
}

// ToggleAll flips "show all" on split.
func (s *Session) ToggleAll(ctx context.Context, split int) error {
	return s.options(ctx, split, store.ToggleAll{Split: split})
}

// ToggleFlag flips one category on split.
func (s *Session) ToggleFlag(ctx context.Context, split int, f options.Flag) error {
	return s.options(ctx, split, store.ToggleFlag{Split: split, Flag: f})
}

// Hover shows the overlay of node in split, or hides it for an empty node.
func (s *Session) Hover(ctx context.Context, split int, node string) error {
	return s.options(ctx, split, store.SetHovered{Split: split, Node: node})
}

// Pointer event kinds.
const (
	PointerDown = "down"
	PointerMove = "move"
	PointerUp   = "up"
)

// Pointer feeds a pointer event at p, in the scene coordinates of split.
// Moving over a node hovers it. A press and release without movement in
// between selects the node under the pointer, or clears the selection when
// released over the background.
func (s *Session) Pointer(ctx context.Context, split int, kind string, p canvas.Point) error {
	return s.Do(ctx, func() error {
		sp, err := s.split(split)
		if err != nil {
			return err
		}
		n, onNode := sp.NodeAt(p)
		switch kind {
		case PointerDown:
			s.click.Down()
		case PointerMove:
			s.click.Move()
			name := ""
			if onNode {
				name = n.Name
			}
			if opts := s.store.State().Options; split < len(opts) && opts[split].Hovered != name {
				s.store.Dispatch(store.SetHovered{Split: split, Node: name})
			}
		case PointerUp:
			if !s.click.Up() {
				return nil
			}
			if onNode {
				s.store.Dispatch(store.SelectNode{Graph: sp.Graph().ID(), Node: n.Name})
			} else {
				s.store.Dispatch(store.ClearSelection{})
			}
		default:
			return cverrors.New(cverrors.ErrCodeInvalidInput, "unknown pointer event %q", kind)
		}
		return nil
	})
}

func (s *Session) options(ctx context.Context, split int, a store.Action) error {
	return s.Do(ctx, func() error {
		if _, err := s.split(split); err != nil {
			return err
		}
		s.store.Dispatch(a)
		return nil
	})
}

// Resize sets the window size shared by the splits.
func (s *Session) Resize(ctx context.Context, width, height int) error {
	if width <= 0 || height <= 0 {
		return cverrors.New(cverrors.ErrCodeInvalidInput, "window size must be positive, got %dx%d", width, height)
	}
	return s.Do(ctx, func() error {
		s.cfg.View.Width, s.cfg.View.Height = width, height
		s.scheduler.Request()
		return nil
	})
}

// Zoom sets the user zoom of split.
func (s *Session) Zoom(ctx context.Context, split int, z view.Zoom) error {
	return s.Do(ctx, func() error {
		sp, err := s.split(split)
		if err != nil {
			return err
		}
		sp.SetZoom(z)
		s.scheduler.Request()
		return nil
	})
}

// Render writes the scene of split in format (svg or png).
func (s *Session) Render(ctx context.Context, split int, format string, w io.Writer) error {
	return s.Do(ctx, func() error {
		sp, err := s.split(split)
		if err != nil {
			return err
		}
		v := sp.View()
		width, height := int(v.Width), int(v.Height)
		switch format {
		case pipeline.FormatSVG:
			return sink.WriteSVG(w, sp.Scene(), width, height)
		case pipeline.FormatPNG:
			return sink.WritePNG(w, sp.Scene(), width, height)
		}
		return cverrors.New(cverrors.ErrCodeInvalidFormat, "cannot render a split as %q (must be svg or png)", format)
	})
}

// Graph returns the serialized graph of split as displayed.
func (s *Session) Graph(ctx context.Context, split int) (graph.Graph, error) {
	var out graph.Graph
	err := s.Do(ctx, func() error {
		sp, err := s.split(split)
		if err != nil {
			return err
		}
		st := s.store.State()
		out = graph.FromModel(sp.Graph(), sp.Variant().String(), st.Selection, st.Options[split])
		return nil
	})
	return out, err
}

// Snapshot describes a session.
type Snapshot struct {
	ID        string          `json:"id"`
	Source    string          `json:"source,omitempty"`
	Nodes     int             `json:"nodes"`
	Selection selection.State `json:"selection"`
	Splits    []SplitInfo     `json:"splits"`
}

// SplitInfo describes one split.
type SplitInfo struct {
	Index   int          `json:"index"`
	Variant string       `json:"variant"`
	State   string       `json:"state"`
	Nodes   int          `json:"nodes"`
	Edges   int          `json:"edges"`
	Options options.Info `json:"options"`
}

// Snapshot returns the session's current state.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.Do(ctx, func() error {
		st := s.store.State()
		snap = Snapshot{ID: s.id, Source: st.Source, Selection: st.Selection, Splits: []SplitInfo{}}
		if st.Loaded() {
			snap.Nodes = st.Graph.Raw.NodeCount()
		}
		for i, sp := range s.splits {
			info := SplitInfo{
				Index:   i,
				Variant: sp.Variant().String(),
				State:   sp.State().String(),
				Options: st.Options[i],
			}
			if g := sp.Graph(); g != nil {
				info.Nodes, info.Edges = g.Len(), len(g.Edges())
			}
			snap.Splits = append(snap.Splits, info)
		}
		return nil
	})
	return snap, err
}

// SplitGraph returns the graph model displayed by split. The model must only
// be read, and only until the next operation.
func (s *Session) SplitGraph(ctx context.Context, split int) (*model.Graph, error) {
	var g *model.Graph
	err := s.Do(ctx, func() error {
		sp, err := s.split(split)
		if err != nil {
			return err
		}
		g = sp.Graph()
		return nil
	})
	return g, err
}

// =============================================================================
// Event loop internals
// =============================================================================

func (s *Session) split(i int) (*view.Split, error) {
	if !s.store.State().Loaded() {
		return nil, cverrors.New(cverrors.ErrCodeInvalidInput, "no graph loaded")
	}
	if i < 0 || i >= len(s.splits) {
		return nil, cverrors.New(cverrors.ErrCodeInvalidSplit, "split %d out of range (have %d)", i, len(s.splits))
	}
	return s.splits[i], nil
}

func (s *Session) runFrames() error {
	s.flushErr = nil
	for len(s.frames) > 0 {
		frames := s.frames
		s.frames = nil
		for _, fn := range frames {
			fn()
		}
	}
	return s.flushErr
}

// flush brings every split up to date with the store.
func (s *Session) flush() {
	st := s.store.State()
	s.syncSplits(st)

	views := splitViews(s.cfg.View, len(s.splits))
	for i, sp := range s.splits {
		sp.Resize(views[i])
		if _, err := sp.Update(s.ctx, st, i); err != nil {
			s.logger.Error("split update failed", "split", i, "error", err)
			s.flushErr = errors.Join(s.flushErr, err)
		}
	}

	hovering := st.Options.Hovering()
	s.hover.Sync(hovering)
	s.notify(Event{Kind: EventRedraw, Source: st.Source, Node: st.Selection.Node})
}

// syncSplits matches the split count to the store's option sets.
func (s *Session) syncSplits(st store.State) {
	for len(s.splits) > len(st.Options) {
		last := s.splits[len(s.splits)-1]
		last.Close(st.Graphs)
		s.splits = s.splits[:len(s.splits)-1]
	}
	for len(s.splits) < len(st.Options) {
		s.splits = append(s.splits, view.NewSplit(s.runner, view.Config{
			Fit: view.FitConfig{
				Threshold: s.cfg.View.Threshold,
				Padding:   s.cfg.View.Padding,
			},
			Logger: s.logger,
		}))
	}
}

func (s *Session) notify(e Event) {
	e.Splits = len(s.splits)
	e.Time = time.Now()
	for _, fn := range s.listeners {
		fn(e)
	}
}

// splitViews shares the window width equally between n splits.
func splitViews(v config.View, n int) []canvas.Rect {
	out := make([]canvas.Rect, n)
	if n == 0 {
		return out
	}
	w := float64(v.Width) / float64(n)
	for i := range out {
		out[i] = canvas.Rect{Width: w, Height: float64(v.Height)}
	}
	return out
}

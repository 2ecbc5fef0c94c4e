// Package store holds the viewer's application state and applies actions to
// it through pure reducers.
//
// The state has four slices: the loaded DOT text, the derived graph
// information, the global selection and the per-split options. Every
// [Action] updates one slice (loading a graph also resets the splits).
// Subscribers receive the previous and the next state after each dispatch.
package store

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cubicleview/pkg/model"
	"github.com/matzehuels/cubicleview/pkg/options"
	"github.com/matzehuels/cubicleview/pkg/pipeline"
	"github.com/matzehuels/cubicleview/pkg/selection"
)

// State is a snapshot of the application state. Reducers never mutate a
// State in place, so snapshots stay valid after later dispatches. The graph
// registry is shared by every snapshot of one store.
type State struct {
	Dot       string
	Source    string
	Graph     *pipeline.Info
	Selection selection.State
	Options   options.List

	Graphs *model.Registry
}

// Loaded reports whether a graph has been loaded.
func (s State) Loaded() bool { return s.Graph != nil }

// Listener observes dispatches.
type Listener func(prev, next State)

// Store dispatches actions and notifies listeners. It is safe for concurrent
// use, but listeners run on the dispatching goroutine.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
	logger    *log.Logger
}

// New creates a store with no graph loaded. A nil logger discards output.
func New(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		state:     State{Graphs: model.NewRegistry()},
		listeners: make(map[int]Listener),
		logger:    logger,
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies a and returns the new state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	prev := s.state
	next := a.reduce(prev, s.logger)
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	s.logger.Debug("dispatch", "action", fmt.Sprintf("%T", a))
	for _, l := range listeners {
		l(prev, next)
	}
	return next
}

// Subscribe registers fn and returns a function removing it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

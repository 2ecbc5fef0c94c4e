package store

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cubicleview/pkg/options"
	"github.com/matzehuels/cubicleview/pkg/pipeline"
	"github.com/matzehuels/cubicleview/pkg/selection"
)

// Action is a state transition.
type Action interface {
	reduce(s State, logger *log.Logger) State
}

// SetDot records newly read DOT text.
type SetDot struct {
	Text   string
	Source string
}

func (a SetDot) reduce(s State, _ *log.Logger) State {
	s.Dot = a.Text
	s.Source = a.Source
	return s
}

// SetGraph installs a loaded graph. The selection is emptied and the splits
// are reset to a single one with default options.
type SetGraph struct {
	Info *pipeline.Info
}

func (a SetGraph) reduce(s State, _ *log.Logger) State {
	s.Graph = a.Info
	s.Selection = selection.State{}
	s.Options = s.Options.Reset().Add()
	return s
}

// SelectNode selects a node of the graph model identified by Graph.
// Selecting the selected node again clears the selection.
type SelectNode struct {
	Graph uuid.UUID
	Node  string
}

func (a SelectNode) reduce(s State, logger *log.Logger) State {
	g, ok := s.Graphs.Lookup(a.Graph)
	if !ok {
		logger.Debug("select in unknown graph ignored", "graph", a.Graph, "node", a.Node)
		return s
	}
	s.Selection = selection.Select(s.Selection, g, a.Node)
	return s
}

// ClearSelection empties the selection, as a background click does.
type ClearSelection struct{}

func (ClearSelection) reduce(s State, _ *log.Logger) State {
	s.Selection = selection.Clear(s.Selection)
	return s
}

// AddOptions adds a split with default options.
type AddOptions struct{}

func (AddOptions) reduce(s State, _ *log.Logger) State {
	s.Options = s.Options.Add()
	return s
}

// ResetOptions removes every split.
type ResetOptions struct{}

func (ResetOptions) reduce(s State, _ *log.Logger) State {
	s.Options = s.Options.Reset()
	return s
}

// DeleteOptions removes one split.
type DeleteOptions struct {
	Split int
}

func (a DeleteOptions) reduce(s State, logger *log.Logger) State {
	return withOptions(s, logger, a, a.Split, func(l options.List) (options.List, bool) { return l.Delete(a.Split) })
}

// ToggleAll flips "show all" on one split.
type ToggleAll struct {
	Split int
}

func (a ToggleAll) reduce(s State, logger *log.Logger) State {
	return withOptions(s, logger, a, a.Split, func(l options.List) (options.List, bool) { return l.ToggleAll(a.Split) })
}

// ToggleFlag flips one category on one split.
type ToggleFlag struct {
	Split int
	Flag  options.Flag
}

func (a ToggleFlag) reduce(s State, logger *log.Logger) State {
	return withOptions(s, logger, a, a.Split, func(l options.List) (options.List, bool) { return l.Toggle(a.Split, a.Flag) })
}

// SetHovered sets or clears (empty Node) the hovered node of one split.
type SetHovered struct {
	Split int
	Node  string
}

func (a SetHovered) reduce(s State, logger *log.Logger) State {
	return withOptions(s, logger, a, a.Split, func(l options.List) (options.List, bool) { return l.SetHovered(a.Split, a.Node) })
}

// withOptions applies an options reducer; out-of-range splits are ignored.
func withOptions(s State, logger *log.Logger, a Action, split int, fn func(options.List) (options.List, bool)) State {
	next, ok := fn(s.Options)
	if !ok {
		logger.Debug("options action ignored", "action", a, "split", split, "splits", len(s.Options))
		return s
	}
	s.Options = next
	return s
}

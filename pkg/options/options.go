// Package options holds the per-split display options and their reducers.
//
// Each split of the viewer owns one [Info]. The category flags decide which
// node categories a split shows; ShowAll mirrors whether every category is
// shown. Only ShowSubsumed changes which layout variant a split displays; the
// other flags are visibility hints applied when drawing.
//
// Reducers on [List] never mutate their receiver. Operations addressing a
// split that does not exist return the list unchanged and report false, since
// split indices can lag behind the split count while splits are removed.
package options

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/cubicleview/pkg/dot"
)

// Flag names one node category filter.
type Flag int

const (
	FlagApprox Flag = iota
	FlagInvariant
	FlagSubsumed
	FlagUnsafe
	FlagError
)

// Flags lists every category flag.
var Flags = []Flag{FlagApprox, FlagInvariant, FlagSubsumed, FlagUnsafe, FlagError}

var flagNames = map[Flag]string{
	FlagApprox:    "approx",
	FlagInvariant: "invariant",
	FlagSubsumed:  "subsumed",
	FlagUnsafe:    "unsafe",
	FlagError:     "error",
}

func (f Flag) String() string {
	if s, ok := flagNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Flag(%d)", int(f))
}

// ParseFlag maps a category name to its flag.
func ParseFlag(s string) (Flag, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range flagNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Info is the option set of one split.
type Info struct {
	ShowAll       bool `json:"show_all"`
	ShowApprox    bool `json:"show_approx"`
	ShowInvariant bool `json:"show_invariant"`
	ShowSubsumed  bool `json:"show_subsumed"`
	ShowUnsafe    bool `json:"show_unsafe"`
	ShowError     bool `json:"show_error"`

	// Hovered is the node whose overlay is shown, or empty.
	Hovered string `json:"hovered,omitempty"`
}

// Default returns options showing every category.
func Default() Info {
	return Info{
		ShowAll:       true,
		ShowApprox:    true,
		ShowInvariant: true,
		ShowSubsumed:  true,
		ShowUnsafe:    true,
		ShowError:     true,
	}
}

// Get returns the value of f.
func (i Info) Get(f Flag) bool {
	switch f {
	case FlagApprox:
		return i.ShowApprox
	case FlagInvariant:
		return i.ShowInvariant
	case FlagSubsumed:
		return i.ShowSubsumed
	case FlagUnsafe:
		return i.ShowUnsafe
	case FlagError:
		return i.ShowError
	}
	return false
}

func (i *Info) set(f Flag, v bool) {
	switch f {
	case FlagApprox:
		i.ShowApprox = v
	case FlagInvariant:
		i.ShowInvariant = v
	case FlagSubsumed:
		i.ShowSubsumed = v
	case FlagUnsafe:
		i.ShowUnsafe = v
	case FlagError:
		i.ShowError = v
	}
}

func (i *Info) setAll(v bool) {
	i.ShowAll = v
	for _, f := range Flags {
		i.set(f, v)
	}
}

// syncAll recomputes ShowAll from the category flags.
func (i *Info) syncAll() {
	i.ShowAll = true
	for _, f := range Flags {
		if !i.Get(f) {
			i.ShowAll = false
			return
		}
	}
}

// Visible reports whether a node with attrs is shown under these options.
// A node is hidden when any of its categories is disabled.
func (i Info) Visible(attrs dot.NodeAttrs) bool {
	switch {
	case attrs.Approx && !i.ShowApprox,
		attrs.Invariant && !i.ShowInvariant,
		attrs.Subsumed && !i.ShowSubsumed,
		attrs.Unsafe && !i.ShowUnsafe,
		attrs.Error && !i.ShowError:
		return false
	}
	return true
}

// Disabled lists the categories turned off, in [Flags] order.
func (i Info) Disabled() []Flag {
	var out []Flag
	for _, f := range Flags {
		if !i.Get(f) {
			out = append(out, f)
		}
	}
	return out
}

// List is the ordered option sets of all splits.
type List []Info

// Add appends a split with default options.
func (l List) Add() List {
	return append(slices.Clone(l), Default())
}

// Reset removes every split.
func (l List) Reset() List { return nil }

// Delete removes split i.
func (l List) Delete(i int) (List, bool) {
	if !l.valid(i) {
		return l, false
	}
	return slices.Delete(slices.Clone(l), i, i+1), true
}

// ToggleAll flips ShowAll on split i and sets every category to match.
func (l List) ToggleAll(i int) (List, bool) {
	return l.update(i, func(in *Info) { in.setAll(!in.ShowAll) })
}

// Toggle flips one category on split i.
func (l List) Toggle(i int, f Flag) (List, bool) {
	if _, ok := flagNames[f]; !ok {
		return l, false
	}
	return l.update(i, func(in *Info) {
		in.set(f, !in.Get(f))
		in.syncAll()
	})
}

// SetHovered sets the hovered node of split i. An empty name hides the overlay.
func (l List) SetHovered(i int, name string) (List, bool) {
	return l.update(i, func(in *Info) { in.Hovered = name })
}

// Hovering reports whether any split shows a hover overlay.
func (l List) Hovering() bool {
	return slices.ContainsFunc(l, func(in Info) bool { return in.Hovered != "" })
}

func (l List) valid(i int) bool { return i >= 0 && i < len(l) }

func (l List) update(i int, fn func(*Info)) (List, bool) {
	if !l.valid(i) {
		return l, false
	}
	next := slices.Clone(l)
	fn(&next[i])
	return next, true
}

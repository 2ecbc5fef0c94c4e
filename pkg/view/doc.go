// Package view draws graph models and keeps each split's scene in step with
// the application state.
//
// # Drawing
//
// [DrawNode], [DrawArrow] and [DrawHover] issue drawing commands against a
// [Surface]; [PlaceNode] sizes a node from its label and positions its
// drawing. Edges of a split share one surface, so any edge change clears and
// redraws all of them in one pass, while node drawings are recolored in
// place.
//
// # Splits
//
// A [Split] owns the scene of one split view. [Split.Reconcile] compares the
// store state with what the split last drew and returns a [Plan];
// [Split.Apply] carries the plan out:
//
//	Empty -> Initialized -> Idle
//	Idle -> SelectionHighlighted -> Idle   (recolor, redraw edges)
//	Idle -> OptionChanged -> Idle          (rebuild the graph model)
//
// # Redraw coalescing
//
// [Scheduler] collapses redraw requests made before the next frame into one
// flush, and [HoverClock] ticks only while a hover overlay is shown.
package view

// Package hierarchy turns a Cubicle search graph into a rooted tree for layout.
//
// # Overview
//
// The tree layout engine expects a plain recursive tree. [Build] produces one
// by following the successor relation from the single node flagged as the
// original state. A node with several predecessors is copied once per path,
// so the result is a spanning tree over forward edges rather than a
// deduplicated DAG. Subsume edges are expected to be stripped beforehand.
//
// [PruneSubsumed] derives the alternate tree used when subsumed states are
// hidden: every subsumed node is dropped together with its whole subtree,
// even descendants that are not subsumed themselves.
//
// # Errors
//
// [Build] fails with [ErrRootCount] unless exactly one root candidate is
// given, and with [ErrCycle] when the successor relation reachable from the
// root loops back on itself. Both are wrapped in a coded error carrying
// INVALID_ROOT or INVALID_GRAPH.
package hierarchy

// Package model materializes a positioned Cubicle graph for display and
// answers the ancestry queries behind path highlighting.
//
// # Overview
//
// A [Graph] is built from three inputs: a positioned layout tree, the raw
// parsed graph (for attribute lookups) and the list of raw edges. Each
// distinct node name becomes exactly one [Node], in first-discovery order of
// a depth-first walk over the tree. Edges whose endpoints were not reached
// by the walk are dropped silently.
//
// Two derived indices are built while resolving the construction edges: the
// immediate parents of every node and the incoming/outgoing edges of every
// node. The graph only grows afterwards, through [Graph.AddGraphLibNode]
// (synthesizes a placeholder for a node the layout never reached, typically
// an invariant) and [Graph.AddSubsumedEdge] (re-attaches a side edge
// stripped before layout). Side edges are drawn and can be looked up by
// name pair, but they never enter the parent indices, so subsumption does
// not count as ancestry.
//
// # Variants
//
// One load produces several independent graphs, for instance "all nodes"
// and "subsumed nodes hidden". Nodes refer back to their graph through the
// graph's [uuid.UUID], resolved with a [Registry]; there are no pointers
// from nodes to graphs.
//
// # Ancestry
//
// [Graph.Ancestors] returns every node reachable through the parents index,
// deduplicated by name, excluding the node itself. The root has no
// ancestors. Edge references ([EdgeRef]) are plain name pairs so they stay
// valid across graph regenerations.
package model

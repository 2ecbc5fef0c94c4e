// Package dot reads Cubicle model-checker graphs from Graphviz DOT text.
//
// # Overview
//
// Cubicle dumps its search graph as a DOT digraph: one node per explored
// state, forward edges for transitions, and extra "subsume" edges pointing
// from a state to the state that subsumes it. Category markers (orig, approx,
// invariant, subsumed, unsafe, error) are ordinary DOT attributes.
//
// [Parse] hands the text to the Graphviz cgraph parser (through go-graphviz)
// and copies the result into a [Graph], a plain in-memory digraph that the rest
// of cubicleview queries and mutates without touching the cgraph handle again.
//
// # Closed attribute sets
//
// Attributes are captured into the fixed structs [NodeAttrs] and [EdgeAttrs].
// Keys outside the recognised set are dropped at parse time and counted in
// [Graph.Ignored] so callers can log them. Category markers are booleans: see
// [ParseFlag] for the accepted spellings.
//
// # Basic Usage
//
//	g, err := dot.Parse(data)
//	if err != nil {
//	    return err
//	}
//	roots := g.FilterNodes(func(_ string, a dot.NodeAttrs) bool { return a.Orig })
//	for _, ref := range g.Edges() {
//	    attrs, _ := g.Edge(ref)
//	    if attrs.Subsume {
//	        g.RemoveEdge(ref)
//	    }
//	}
//
// # Concurrency
//
// A [Graph] is not safe for concurrent mutation. Parsed graphs are typically
// built once, stripped of subsume edges, then only read.
package dot

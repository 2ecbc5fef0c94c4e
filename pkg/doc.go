// Package pkg provides the libraries behind cubicleview, an interactive
// viewer for the search graphs the Cubicle model checker writes as DOT.
//
// # Overview
//
// A Cubicle graph is a backward reachability search: one root node, nodes
// for the explored states and "subsume" side edges from states that were
// covered by earlier ones. cubicleview lays the graph out as a tree,
// draws it into one or more side-by-side splits and highlights the path
// from the root to a selected node.
//
// The pkg directory is organized into four areas:
//
//  1. Graph domain: [dot], [hierarchy], [layout], [model], [selection]
//  2. Display: [options], [store], [view], [canvas], [render/sink]
//  3. Orchestration: [pipeline], [cache], [session], [server], [watch]
//  4. Support: [config], [graph], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The data flow of one load:
//
//	DOT text
//	    ↓
//	[dot] parse nodes, edges and Cubicle attributes
//	    ↓
//	[hierarchy] full and pruned trees (subsume edges set aside)
//	    ↓
//	[layout] coordinates per variant (graphviz dot engine)
//	    ↓
//	[model] materialized graph, subsume edges re-attached
//	    ↓
//	[store] + [view] per-split scenes driven by state changes
//	    ↓
//	[render/sink] SVG or PNG, or [server] events to a browser
//
// [pipeline] runs the first four steps and caches layouts through [cache].
// [session] owns the store and the splits of one viewer and serializes
// every operation on a single goroutine; [server] exposes sessions over
// HTTP and websockets.
//
// # Quick Start
//
//	r := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	sess := session.New(r, session.Config{})
//	go sess.Run(ctx)
//	defer sess.Close()
//
//	if err := sess.Load(ctx, "model.dot", data); err != nil {
//	    return err
//	}
//	_ = sess.Select(ctx, 0, "6")
//	_ = sess.Render(ctx, 0, "svg", os.Stdout)
package pkg

// Package graph provides the serialization format of displayed graphs.
//
// A [Graph] captures one split's graph model as drawn: node positions and
// label sizes after placement, category markers, and the highlighting of
// the current selection. It is used for `inspect` output, the HTTP API and
// snapshot files.
//
// # Formats
//
// Graphs are written as JSON or YAML:
//
//	{
//	  "variant": "pruned",
//	  "nodes": [{"id": "1", "label": "1: init", "x": 1.5, "y": 0, ...}],
//	  "edges": [{"from": "1", "to": "2", "label": "t1", "on_path": true}]
//	}
//
// Common operations:
//
//	out := graph.FromModel(g, "full", sel, opts)
//	graph.Write(w, out, graph.FormatYAML)
//	graph.WriteFile(out, "snapshot.json")   // format from the extension
//	back, _ := graph.ReadFile("snapshot.json")
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph

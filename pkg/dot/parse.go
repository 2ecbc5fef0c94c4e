package dot

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// Parse reads a DOT digraph into a [Graph].
//
// Nodes are copied in declaration order and edges grouped by source node.
// Unrecognised attributes are counted in [Graph.Ignored].
func Parse(data []byte) (*Graph, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	cg, err := graphviz.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer cg.Close()

	g := New()
	nodeExtra, err := declaredExtra(cg, cgraph.NODE, nodeSetters)
	if err != nil {
		return nil, err
	}
	edgeExtra, err := declaredExtra(cg, cgraph.EDGE, edgeSetters)
	if err != nil {
		return nil, err
	}

	if err := eachNode(cg, func(n *cgraph.Node) error {
		name, err := n.Name()
		if err != nil {
			return err
		}
		var attrs NodeAttrs
		for key := range nodeSetters {
			if v := n.GetStr(key); v != "" {
				attrs.Set(key, v)
			}
		}
		if attrs.Label == UnsetLabel {
			attrs.Label = ""
		}
		for _, key := range nodeExtra {
			if n.GetStr(key) != "" {
				g.ignored[key]++
			}
		}
		return g.AddNode(name, attrs)
	}); err != nil {
		return nil, fmt.Errorf("read nodes: %w", err)
	}

	if err := eachNode(cg, func(n *cgraph.Node) error {
		return eachOut(cg, n, func(e *cgraph.Edge) error {
			tail, err := e.Tail()
			if err != nil {
				return err
			}
			head, err := e.Head()
			if err != nil {
				return err
			}
			source, err := tail.Name()
			if err != nil {
				return err
			}
			target, err := head.Name()
			if err != nil {
				return err
			}
			var attrs EdgeAttrs
			for key := range edgeSetters {
				if v := e.GetStr(key); v != "" {
					attrs.Set(key, v)
				}
			}
			for _, key := range edgeExtra {
				if e.GetStr(key) != "" {
					g.ignored[key]++
				}
			}
			_, err = g.AddEdge(source, target, attrs)
			return err
		})
	}); err != nil {
		return nil, fmt.Errorf("read edges: %w", err)
	}

	return g, nil
}

// ParseFile reads and parses a DOT file.
func ParseFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func eachNode(g *cgraph.Graph, fn func(*cgraph.Node) error) error {
	n, err := g.FirstNode()
	for ; err == nil && n != nil; n, err = g.NextNode(n) {
		if err := fn(n); err != nil {
			return err
		}
	}
	return err
}

func eachOut(g *cgraph.Graph, n *cgraph.Node, fn func(*cgraph.Edge) error) error {
	e, err := g.FirstOut(n)
	for ; err == nil && e != nil; e, err = g.NextOut(e) {
		if err := fn(e); err != nil {
			return err
		}
	}
	return err
}

// declaredExtra lists attribute names declared for kind that are not in known.
func declaredExtra[V any](g *cgraph.Graph, kind cgraph.ObjectTag, known map[string]V) ([]string, error) {
	var extra []string
	sym, err := g.NextAttr(int(kind), nil)
	for ; err == nil && sym != nil; sym, err = g.NextAttr(int(kind), sym) {
		name := sym.Name()
		if _, ok := known[name]; !ok {
			extra = append(extra, name)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}
	return extra, nil
}

package layout

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cubicleview/pkg/hierarchy"
)

// pointsPerInch converts Graphviz inch attributes to layout units.
const pointsPerInch = 72.0

// GraphvizEngine lays trees out with the Graphviz "dot" engine.
type GraphvizEngine struct{}

// NewGraphvizEngine creates a Graphviz-backed engine.
func NewGraphvizEngine() *GraphvizEngine { return &GraphvizEngine{} }

// Name identifies the engine in cache keys.
func (*GraphvizEngine) Name() string { return "graphviz-dot" }

// Layout positions root. Every tree node becomes a point-sized Graphviz node
// with out-edge ordering preserved, so siblings keep hierarchy order.
func (e *GraphvizEngine) Layout(ctx context.Context, root *hierarchy.Node, size Size) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("layout: nil hierarchy")
	}
	src, count := TreeDOT(root, size)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.DOT)

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse tree DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("run dot layout: %w", err)
	}

	laid, err := graphviz.ParseBytes(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("read dot layout: %w", err)
	}
	defer laid.Close()

	pos := make([]Point, count)
	for i := range pos {
		n, err := laid.NodeByName(nodeID(i))
		if err != nil || n == nil {
			return nil, fmt.Errorf("layout lost node %s", nodeID(i))
		}
		p, err := parsePos(n.GetStr("pos"))
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", nodeID(i), err)
		}
		pos[i] = p
	}

	// Graphviz puts the origin bottom-left with the root on top.
	origin := pos[0]
	for i := range pos {
		pos[i] = Point{X: pos[i].X - origin.X, Y: origin.Y - pos[i].Y}
	}
	return Place(root, pos)
}

// TreeDOT renders root as a DOT digraph whose node ids n0..nk follow
// hierarchy pre-order. It returns the source and the node count.
func TreeDOT(root *hierarchy.Node, size Size) (string, int) {
	var b strings.Builder
	b.WriteString("digraph tree {\n")
	fmt.Fprintf(&b, "  graph [rankdir=TB, ordering=out, nodesep=%s, ranksep=%s, splines=false];\n",
		inches(size.Width), inches(size.Height))
	b.WriteString("  node [shape=point, width=0.01, height=0.01, fixedsize=true, label=\"\"];\n")

	ids := map[*hierarchy.Node]int{}
	count := 0
	hierarchy.Walk(root, func(n *hierarchy.Node, _ int) bool {
		ids[n] = count
		fmt.Fprintf(&b, "  %s;\n", nodeID(count))
		count++
		return true
	})
	hierarchy.Walk(root, func(n *hierarchy.Node, _ int) bool {
		for _, c := range n.Children {
			fmt.Fprintf(&b, "  %s -> %s;\n", nodeID(ids[n]), nodeID(ids[c]))
		}
		return true
	})
	b.WriteString("}\n")
	return b.String(), count
}

func nodeID(i int) string { return "n" + strconv.Itoa(i) }

func inches(units float64) string {
	return strconv.FormatFloat(math.Max(units/pointsPerInch, 0.02), 'f', 4, 64)
}

// parsePos reads a Graphviz "x,y" or "x,y!" position.
func parsePos(s string) (Point, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "!")
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, fmt.Errorf("malformed pos %q", s)
	}
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return Point{}, fmt.Errorf("malformed pos %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return Point{}, fmt.Errorf("malformed pos %q: %w", s, err)
	}
	return Point{X: x, Y: y}, nil
}

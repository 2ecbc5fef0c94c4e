package hierarchy

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/cubicleview/pkg/dot"
	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
)

var (
	// ErrRootCount is returned by [Build] when the root candidates do not
	// contain exactly one node.
	ErrRootCount = errors.New("the root graph must be exactly one element long")

	// ErrCycle is returned by [Build] when a cycle is reachable from the root.
	ErrCycle = errors.New("successor relation contains a cycle")

	// ErrTooLarge is returned by [BuildLimit] when the expanded tree exceeds
	// the node limit.
	ErrTooLarge = errors.New("hierarchy exceeds node limit")
)

// DefaultLimit caps the number of tree nodes [Build] will expand.
// Path copies can grow exponentially on dense DAGs.
const DefaultLimit = 1 << 20

// Node is one vertex of the layout tree.
type Node struct {
	Name     string        `json:"name"`
	Data     dot.NodeAttrs `json:"data"`
	Children []*Node       `json:"children,omitempty"`
}

// FindRoots returns the nodes of g flagged as original states.
func FindRoots(g *dot.Graph) *dot.Graph {
	return g.FilterNodes(func(_ string, a dot.NodeAttrs) bool { return a.Orig })
}

// Build expands g into a tree rooted at the single node of roots.
func Build(g *dot.Graph, roots *dot.Graph) (*Node, error) {
	return BuildLimit(g, roots, DefaultLimit)
}

// BuildLimit is [Build] with an explicit node limit; limit <= 0 disables it.
func BuildLimit(g *dot.Graph, roots *dot.Graph, limit int) (*Node, error) {
	if n := roots.NodeCount(); n != 1 {
		return nil, cverrors.Wrap(cverrors.ErrCodeInvalidRoot, ErrRootCount,
			"The root graph must be exactly one element long. It contains %d elements.", n)
	}
	rootName := roots.Nodes()[0]
	attrs, ok := g.Node(rootName)
	if !ok {
		return nil, cverrors.New(cverrors.ErrCodeInvalidRoot, "root %q is not part of the graph", rootName)
	}
	if err := checkAcyclic(g, rootName); err != nil {
		return nil, err
	}

	root := &Node{Name: rootName, Data: attrs}
	stack := []*Node{root}
	count := 1
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, name := range g.Successors(n.Name) {
			data, _ := g.Node(name)
			child := &Node{Name: name, Data: data}
			n.Children = append(n.Children, child)
			stack = append(stack, child)
			count++
			if limit > 0 && count > limit {
				return nil, cverrors.Wrap(cverrors.ErrCodeInvalidGraph, ErrTooLarge,
					"expanding %q produces more than %d tree nodes", rootName, limit)
			}
		}
	}
	return root, nil
}

// checkAcyclic rejects cycles in the successor relation reachable from root.
func checkAcyclic(g *dot.Graph, root string) error {
	ids := map[string]int64{root: 0}
	names := []string{root}
	dg := simple.NewDirectedGraph()
	dg.AddNode(simple.Node(0))

	queue := []string{root}
	for len(queue) > 0 {
		from := queue[0]
		queue = queue[1:]
		for _, to := range g.Successors(from) {
			if to == from {
				return cverrors.Wrap(cverrors.ErrCodeInvalidGraph, ErrCycle, "node %q is its own successor", from)
			}
			id, seen := ids[to]
			if !seen {
				id = int64(len(names))
				ids[to] = id
				names = append(names, to)
				dg.AddNode(simple.Node(id))
				queue = append(queue, to)
			}
			dg.SetEdge(dg.NewEdge(simple.Node(ids[from]), simple.Node(id)))
		}
	}

	if _, err := topo.Sort(dg); err != nil {
		var u topo.Unorderable
		if errors.As(err, &u) && len(u) > 0 {
			cycle := make([]string, 0, len(u[0]))
			for _, n := range u[0] {
				cycle = append(cycle, names[n.ID()])
			}
			return cverrors.Wrap(cverrors.ErrCodeInvalidGraph, ErrCycle, "cycle through %s", strings.Join(cycle, ", "))
		}
		return cverrors.Wrap(cverrors.ErrCodeInvalidGraph, ErrCycle, "%v", err)
	}
	return nil
}

// PruneSubsumed returns a copy of the tree without subsumed nodes or their
// subtrees. The root is always kept; a subsumed root keeps no children.
func PruneSubsumed(root *Node) *Node {
	if root == nil {
		return nil
	}
	out := &Node{Name: root.Name, Data: root.Data}
	if root.Data.Subsumed {
		return out
	}

	type pairing struct{ src, dst *Node }
	stack := []pairing{{root, out}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range p.src.Children {
			if c.Data.Subsumed {
				continue
			}
			cp := &Node{Name: c.Name, Data: c.Data}
			p.dst.Children = append(p.dst.Children, cp)
			stack = append(stack, pairing{c, cp})
		}
	}
	return out
}

// Walk visits the tree in pre-order. Returning false from fn skips the
// node's children.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	if root == nil {
		return
	}
	type item struct {
		n     *Node
		depth int
	}
	stack := []item{{root, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(it.n, it.depth) {
			continue
		}
		for i := len(it.n.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.n.Children[i], it.depth + 1})
		}
	}
}

// Count returns the number of tree nodes, counting path copies separately.
func Count(root *Node) int {
	n := 0
	Walk(root, func(*Node, int) bool { n++; return true })
	return n
}

// Depth returns the number of levels in the tree.
func Depth(root *Node) int {
	d := 0
	Walk(root, func(_ *Node, depth int) bool {
		if depth+1 > d {
			d = depth + 1
		}
		return true
	})
	return d
}

// Names returns the distinct node names in pre-order of first appearance.
func Names(root *Node) []string {
	seen := make(map[string]bool)
	var out []string
	Walk(root, func(n *Node, _ int) bool {
		if !seen[n.Name] {
			seen[n.Name] = true
			out = append(out, n.Name)
		}
		return true
	})
	return out
}

// String renders the tree as an indented outline.
func (n *Node) String() string {
	var b strings.Builder
	Walk(n, func(c *Node, depth int) bool {
		fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", depth), c.Name)
		return true
	})
	return b.String()
}

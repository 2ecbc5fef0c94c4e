package cli

import (
	"strings"

	"github.com/sahilm/fuzzy"

	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
	"github.com/matzehuels/cubicleview/pkg/model"
)

// nodeIndex finds nodes by partial name or label.
type nodeIndex struct {
	nodes []*model.Node
	keys  []string
}

func newNodeIndex(g *model.Graph) *nodeIndex {
	nodes := g.Nodes()
	keys := make([]string, len(nodes))
	for i, n := range nodes {
		keys[i] = n.Name
		if n.Label != n.Name {
			keys[i] += " " + strings.ReplaceAll(n.Label, "\n", " ")
		}
	}
	return &nodeIndex{nodes: nodes, keys: keys}
}

// Search returns the nodes matching query, best first. An empty query
// returns every node in discovery order.
func (x *nodeIndex) Search(query string) []*model.Node {
	query = strings.TrimSpace(query)
	if query == "" {
		return x.nodes
	}
	matches := fuzzy.Find(query, x.keys)
	out := make([]*model.Node, 0, len(matches))
	for _, m := range matches {
		out = append(out, x.nodes[m.Index])
	}
	return out
}

// Resolve returns the node named query, or the best fuzzy match.
func (x *nodeIndex) Resolve(query string) (*model.Node, error) {
	if err := cverrors.ValidateNodeName(query); err != nil {
		return nil, err
	}
	for _, n := range x.nodes {
		if n.Name == query {
			return n, nil
		}
	}
	if found := x.Search(query); len(found) > 0 {
		return found[0], nil
	}
	return nil, cverrors.New(cverrors.ErrCodeNodeNotFound, "no state matches %q", query)
}

package hierarchy_test

import (
	"fmt"

	"github.com/matzehuels/cubicleview/pkg/dot"
	"github.com/matzehuels/cubicleview/pkg/hierarchy"
)

func ExampleBuild() {
	g := dot.New()
	_ = g.AddNode("init", dot.NodeAttrs{Orig: true})
	_, _ = g.AddEdge("init", "s1", dot.EdgeAttrs{})
	_, _ = g.AddEdge("init", "s2", dot.EdgeAttrs{})
	_, _ = g.AddEdge("s1", "s3", dot.EdgeAttrs{})

	tree, err := hierarchy.Build(g, hierarchy.FindRoots(g))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(tree)
	// Output:
	// init
	//   s1
	//     s3
	//   s2
}

func ExamplePruneSubsumed() {
	g := dot.New()
	_ = g.AddNode("init", dot.NodeAttrs{Orig: true})
	_ = g.AddNode("s1", dot.NodeAttrs{Subsumed: true})
	_, _ = g.AddEdge("init", "s1", dot.EdgeAttrs{})
	_, _ = g.AddEdge("s1", "s3", dot.EdgeAttrs{})
	_, _ = g.AddEdge("init", "s2", dot.EdgeAttrs{})

	tree, _ := hierarchy.Build(g, hierarchy.FindRoots(g))
	fmt.Println(hierarchy.Names(hierarchy.PruneSubsumed(tree)))
	// Output:
	// [init s2]
}

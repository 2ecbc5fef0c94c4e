package cli

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cubicleview/pkg/model"
	"github.com/matzehuels/cubicleview/pkg/pipeline"
	"github.com/matzehuels/cubicleview/pkg/selection"
)

type pathOpts struct {
	variant string
	list    bool
	copy    bool
	noCache bool
}

// pathCommand traces a state back to the initial state.
func (c *CLI) pathCommand() *cobra.Command {
	opts := pathOpts{variant: "full"}

	cmd := &cobra.Command{
		Use:   "path <file.dot> <state>",
		Short: "Trace a state back to the initial state",
		Long: `Path selects a state, named exactly or by a fuzzy query over names and
labels, and prints its ancestors and the transitions leading to it.`,
		Example: `  cubicleview path search.dot 42
  cubicleview path search.dot "unsafe t3" --list`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPath(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.variant, "variant", opts.variant, "graph variant: full or pruned")
	cmd.Flags().BoolVar(&opts.list, "list", false, "list the matching states instead of tracing one")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy the path to the clipboard")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable layout caching")
	return cmd
}

func (c *CLI) runPath(cmd *cobra.Command, args []string, opts pathOpts) error {
	ctx := cmd.Context()
	v, err := pipeline.ParseVariant(opts.variant)
	if err != nil {
		return err
	}
	path, data, err := readGraph(args[:1])
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	st := startStage(loggerFromContext(ctx), "layout", path)
	info, err := runner.Load(ctx, path, data)
	if err != nil {
		return err
	}
	g, err := runner.Build(ctx, info, v)
	if err != nil {
		return err
	}
	st.done("variant", v, "states", g.Len())

	idx := newNodeIndex(g)
	if opts.list {
		found := idx.Search(args[1])
		if len(found) == 0 {
			printWarning("No state matches %q", args[1])
			return nil
		}
		for _, n := range found {
			fmt.Println(formatState(n))
		}
		return nil
	}

	n, err := idx.Resolve(args[1])
	if err != nil {
		return err
	}
	sel := selection.Select(selection.State{}, g, n.Name)
	printTrace(g, sel)

	if opts.copy {
		if err := clipboard.WriteAll(formatTrace(sel)); err != nil {
			printWarning("Cannot copy to clipboard: %v", err)
		} else {
			printSuccess("Copied path to clipboard")
		}
	}
	return nil
}

// printTrace prints the selected state, its ancestors and the path edges.
func printTrace(g *model.Graph, sel selection.State) {
	n, _ := g.Node(sel.Node)
	fmt.Println(StyleTitle.Render("State ") + StyleSelected.Render(sel.Node))
	printKeyValue("label", strings.ReplaceAll(n.Label, "\n", " "))
	printKeyValue("ancestors", fmt.Sprint(len(sel.Ancestors)))
	printKeyValue("path edges", fmt.Sprint(len(sel.Path)))
	fmt.Println()

	if len(sel.Ancestors) > 0 {
		names := make([]string, len(sel.Ancestors))
		for i, a := range sel.Ancestors {
			names[i] = StyleAncestor.Render(a)
		}
		fmt.Println(StyleDim.Render("ancestors ") + strings.Join(names, StyleDim.Render(", ")))
	}
	for _, ref := range sel.Path {
		label := ""
		for _, e := range g.GetEdges([]model.EdgeRef{ref}) {
			if e.Label != "" {
				label = e.Label
				break
			}
		}
		line := "  " + StyleAncestor.Render(ref.Source) + " " + StyleDim.Render(iconArrow) + " " + StyleHighlight.Render(ref.Target)
		if label != "" {
			line += " " + StyleDim.Render("["+label+"]")
		}
		fmt.Println(line)
	}
}

// formatTrace renders the path edges as plain text, one per line.
func formatTrace(sel selection.State) string {
	var b strings.Builder
	for _, ref := range sel.Path {
		b.WriteString(ref.String())
		b.WriteByte('\n')
	}
	return b.String()
}

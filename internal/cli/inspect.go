package cli

import (
	"os"

	"github.com/spf13/cobra"

	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
	"github.com/matzehuels/cubicleview/pkg/graph"
	"github.com/matzehuels/cubicleview/pkg/options"
	"github.com/matzehuels/cubicleview/pkg/pipeline"
	"github.com/matzehuels/cubicleview/pkg/selection"
)

type inspectOpts struct {
	variant string
	format  string
	output  string
	node    string
	noCache bool
}

// inspectCommand prints a laid out graph variant as JSON or YAML.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{variant: "full", format: graph.FormatJSON}

	cmd := &cobra.Command{
		Use:   "inspect <file.dot>",
		Short: "Print the laid out graph as JSON or YAML",
		Long: `Inspect lays out a Cubicle graph and prints its nodes with positions and
categories, and its edges. With --select, the state and its ancestors are
marked and the edges of the path to it flagged.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.variant, "variant", opts.variant, "graph variant: full or pruned")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json or yaml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.node, "select", "", "state to select (name or fuzzy query)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable layout caching")
	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, args []string, opts inspectOpts) error {
	ctx := cmd.Context()
	v, err := pipeline.ParseVariant(opts.variant)
	if err != nil {
		return err
	}
	format := opts.format
	if opts.output != "" && !cmd.Flags().Changed("format") {
		if format, err = graph.FormatOf(opts.output); err != nil {
			return err
		}
	}
	if format != graph.FormatJSON && format != graph.FormatYAML {
		return cverrors.New(cverrors.ErrCodeInvalidFormat, "invalid format: %s (must be json or yaml)", format)
	}

	path, data, err := readGraph(args)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, path, data, v)
	if err != nil {
		return err
	}
	logStats(loggerFromContext(ctx), path, res.Stats)
	g := res.Graphs[v]

	var sel selection.State
	if opts.node != "" {
		n, err := newNodeIndex(g).Resolve(opts.node)
		if err != nil {
			return err
		}
		sel = selection.Select(sel, g, n.Name)
	}

	out := graph.FromModel(g, v.String(), sel, options.Default())
	if opts.output == "" {
		return graph.Write(os.Stdout, out, format)
	}
	f, err := os.Create(opts.output)
	if err != nil {
		return cverrors.Wrap(cverrors.ErrCodeInvalidInput, err, "cannot create %s", opts.output)
	}
	if err := graph.Write(f, out, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printSuccess("Wrote %s variant (%s)", v, res.Stats)
	printFile(opts.output)
	return nil
}

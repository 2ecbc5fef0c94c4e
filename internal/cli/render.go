package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cubicleview/pkg/config"
	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
	"github.com/matzehuels/cubicleview/pkg/options"
	"github.com/matzehuels/cubicleview/pkg/pipeline"
	"github.com/matzehuels/cubicleview/pkg/session"
)

type renderOpts struct {
	formats  string
	variants string
	output   string
	node     string
	hide     string
	width    int
	height   int
	noCache  bool
}

// renderCommand draws graph variants to image files.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{formats: pipeline.FormatSVG, variants: "full"}

	cmd := &cobra.Command{
		Use:   "render <file.dot>",
		Short: "Render graph variants as SVG or PNG",
		Long: `Render lays out a Cubicle graph and draws it the way the viewer shows it.

Each requested variant is drawn in its own view, concurrently. The pruned
variant leaves out subsumed states and everything below them.`,
		Example: `  cubicleview render search.dot
  cubicleview render search.dot -f svg,png --variant full,pruned -o out/search
  cubicleview render search.dot --select 42 --hide approx,invariant`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "output formats: svg, png (comma-separated)")
	cmd.Flags().StringVar(&opts.variants, "variant", opts.variants, "variants: full, pruned (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path prefix (default: input path without extension)")
	cmd.Flags().StringVar(&opts.node, "select", "", "state to select (name or fuzzy query)")
	cmd.Flags().StringVar(&opts.hide, "hide", "", "categories to hide: approx, invariant, unsafe, error")
	cmd.Flags().IntVar(&opts.width, "width", 0, "image width in pixels (default from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "image height in pixels (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable layout caching")
	return cmd
}

// renderJob is one variant to draw.
type renderJob struct {
	variant pipeline.Variant
	hide    []options.Flag
	node    string
	formats []string
	base    string
	view    config.View
}

func (c *CLI) runRender(ctx context.Context, args []string, opts renderOpts) error {
	formats := splitList(opts.formats)
	for _, f := range formats {
		if f != pipeline.FormatSVG && f != pipeline.FormatPNG {
			return cverrors.New(cverrors.ErrCodeInvalidFormat, "invalid format: %s (must be svg or png)", f)
		}
	}
	var variants []pipeline.Variant
	for _, name := range splitList(opts.variants) {
		v, err := pipeline.ParseVariant(name)
		if err != nil {
			return err
		}
		variants = append(variants, v)
	}
	hide, err := parseHidden(opts.hide)
	if err != nil {
		return err
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

	v := c.Config.View
	if opts.width > 0 {
		v.Width = opts.width
	}
	if opts.height > 0 {
		v.Height = opts.height
	}
	base := outputBase(path, opts.output)

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", path))
	spinner.Start()
	st := startStage(loggerFromContext(ctx), "render", path)

	var (
		mu    sync.Mutex
		files []string
	)
	eg, ctx := errgroup.WithContext(ctx)
	for _, variant := range variants {
		job := renderJob{variant: variant, hide: hide, node: opts.node, formats: formats, base: base, view: v}
		if len(variants) > 1 {
			job.base = base + "-" + variant.String()
		}
		eg.Go(func() error {
			written, err := c.renderVariant(ctx, runner, path, data, job)
			mu.Lock()
			files = append(files, written...)
			mu.Unlock()
			if err != nil {
				return fmt.Errorf("%s: %w", job.variant, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %d file(s)", len(files)))
	st.done("variants", len(variants), "files", len(files))

	for _, f := range files {
		printFile(f)
	}
	return nil
}

// renderVariant draws job in a private session and returns the files
// written.
func (c *CLI) renderVariant(ctx context.Context, runner session.Runner, path string, data []byte, job renderJob) ([]string, error) {
	sess := session.New(runner, session.Config{View: job.view, Logger: c.Logger})
	sctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go sess.Run(sctx)

	if err := sess.Load(ctx, path, data); err != nil {
		return nil, err
	}
	if job.variant == pipeline.VariantPruned {
		if err := sess.ToggleFlag(ctx, 0, options.FlagSubsumed); err != nil {
			return nil, err
		}
	}
	for _, f := range job.hide {
		if err := sess.ToggleFlag(ctx, 0, f); err != nil {
			return nil, err
		}
	}
	if job.node != "" {
		g, err := sess.SplitGraph(ctx, 0)
		if err != nil {
			return nil, err
		}
		n, err := newNodeIndex(g).Resolve(job.node)
		if err != nil {
			return nil, err
		}
		if err := sess.Select(ctx, 0, n.Name); err != nil {
			return nil, err
		}
	}

	var written []string
	for _, format := range job.formats {
		name := job.base + "." + format
		f, err := os.Create(name)
		if err != nil {
			return written, cverrors.Wrap(cverrors.ErrCodeInvalidInput, err, "cannot create %s", name)
		}
		err = sess.Render(ctx, 0, format, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}

// parseHidden maps a comma-separated category list to flags. Subsumed
// states are hidden by choosing the pruned variant instead.
func parseHidden(s string) ([]options.Flag, error) {
	var out []options.Flag
	for _, name := range splitList(s) {
		f, err := options.ParseFlag(name)
		if err != nil {
			return nil, cverrors.Wrap(cverrors.ErrCodeInvalidInput, err, "invalid --hide")
		}
		if f == options.FlagSubsumed {
			return nil, cverrors.New(cverrors.ErrCodeInvalidInput, "use --variant pruned to hide subsumed states")
		}
		out = append(out, f)
	}
	return out, nil
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

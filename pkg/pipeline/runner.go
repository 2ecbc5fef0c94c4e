package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cubicleview/pkg/cache"
	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
	"github.com/matzehuels/cubicleview/pkg/layout"
	"github.com/matzehuels/cubicleview/pkg/model"
	"github.com/matzehuels/cubicleview/pkg/observability"
)

// Runner loads graphs and builds their variants, caching layouts.
//
// The Runner keeps no per-graph state, so one Runner can serve several
// sessions from different goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	Engine layout.Engine
	Policy layout.Policy
}

// NewRunner creates a runner laying out with Graphviz through the given cache.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Engine: layout.NewCachedEngine(layout.NewGraphvizEngine(), c, keyer, cache.TTLLayout, logger),
		Policy: layout.DefaultPolicy,
	}
}

// Load parses data and derives its hierarchies.
func (r *Runner) Load(ctx context.Context, source string, data []byte) (*Info, error) {
	observability.Pipeline().OnParseStart(ctx, source)
	start := time.Now()
	info, err := Load(source, data, r.Policy)
	nodes := 0
	if info != nil {
		nodes = info.Raw.NodeCount()
	}
	observability.Pipeline().OnParseComplete(ctx, source, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	for key, n := range info.Raw.Ignored() {
		r.Logger.Debug("ignored attribute", "key", key, "count", n)
	}
	r.Logger.Info("loaded graph",
		"source", source,
		"nodes", info.Raw.NodeCount(),
		"edges", info.Raw.EdgeCount(),
		"subsumed", len(info.Subsumed),
		"duration", time.Since(start))
	return info, nil
}

// Build lays out variant v of info and materializes it.
//
// The full variant also gets one synthetic node per raw state the hierarchy
// never reached, and the subsumption edges removed at load time. Subsumption
// edges whose endpoints are not in the model are dropped.
func (r *Runner) Build(ctx context.Context, info *Info, v Variant) (*model.Graph, error) {
	tree := info.Tree(v)
	observability.Pipeline().OnLayoutStart(ctx, v.String(), info.Raw.NodeCount())
	start := time.Now()
	positioned, err := r.Engine.Layout(ctx, tree, info.NodeSize)
	observability.Pipeline().OnLayoutComplete(ctx, v.String(), time.Since(start), err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, cverrors.Wrap(cverrors.ErrCodeLayout, err, "layout of %s variant failed", v)
	}

	g := model.New(positioned, info.Raw, info.Raw.Edges())
	if v == VariantFull {
		for _, name := range info.Raw.Nodes() {
			g.AddGraphLibNode(name)
		}
		dropped := 0
		for _, e := range info.Subsumed {
			if _, err := g.AddSubsumedEdge(e.Ref, e.Attrs); err != nil {
				if !errors.Is(err, model.ErrUnknownEndpoint) {
					return nil, err
				}
				dropped++
			}
		}
		if dropped > 0 {
			r.Logger.Debug("dropped subsumption edges", "count", dropped)
		}
	}

	r.Logger.Debug("built graph model",
		"variant", v,
		"nodes", g.Len(),
		"edges", len(g.Edges()),
		"duration", time.Since(start))
	return g, nil
}

// BuildAll builds the given variants concurrently.
func (r *Runner) BuildAll(ctx context.Context, info *Info, variants ...Variant) (map[Variant]*model.Graph, error) {
	var (
		mu  sync.Mutex
		out = make(map[Variant]*model.Graph, len(variants))
	)
	eg, ctx := errgroup.WithContext(ctx)
	for _, v := range variants {
		eg.Go(func() error {
			g, err := r.Build(ctx, info, v)
			if err != nil {
				return fmt.Errorf("%s: %w", v, err)
			}
			mu.Lock()
			out[v] = g
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Result is the output of [Runner.Execute].
type Result struct {
	Info   *Info
	Graphs map[Variant]*model.Graph
	Stats  Stats
}

// Execute loads data and builds the requested variants.
func (r *Runner) Execute(ctx context.Context, source string, data []byte, variants ...Variant) (*Result, error) {
	start := time.Now()
	info, err := r.Load(ctx, source, data)
	if err != nil {
		return nil, err
	}
	res := &Result{Info: info}
	res.Stats.ParseTime = time.Since(start)
	res.Stats.NodeCount = info.Raw.NodeCount()
	res.Stats.EdgeCount = info.Raw.EdgeCount() + len(info.Subsumed)

	start = time.Now()
	if res.Graphs, err = r.BuildAll(ctx, info, variants...); err != nil {
		return nil, err
	}
	res.Stats.LayoutTime = time.Since(start)
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

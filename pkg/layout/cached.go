package layout

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cubicleview/pkg/cache"
	"github.com/matzehuels/cubicleview/pkg/hierarchy"
	"github.com/matzehuels/cubicleview/pkg/observability"
)

// CachedEngine memoizes another engine. Entries hold the pre-order position
// list, keyed by the hierarchy shape and the node size.
type CachedEngine struct {
	inner  Engine
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedEngine wraps inner. Nil cache, keyer or logger fall back to
// no caching, the default keyer and a discarding logger.
func NewCachedEngine(inner Engine, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *CachedEngine {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CachedEngine{inner: inner, cache: c, keyer: keyer, ttl: ttl, logger: logger}
}

// Name returns the wrapped engine's name.
func (e *CachedEngine) Name() string { return e.inner.Name() }

// Layout returns a cached layout when one matches, else computes and stores it.
// Cache failures are logged and never fail the layout.
func (e *CachedEngine) Layout(ctx context.Context, root *hierarchy.Node, size Size) (*Tree, error) {
	shape, err := json.Marshal(root)
	if err != nil {
		return e.inner.Layout(ctx, root, size)
	}
	key := e.keyer.LayoutKey(cache.Hash(shape), cache.LayoutKeyOpts{
		Engine: e.inner.Name(),
		Width:  size.Width,
		Height: size.Height,
	})

	if data, hit, err := e.cache.Get(ctx, key); err != nil {
		e.logger.Warn("layout cache read failed", "err", err)
	} else if hit {
		var pos []Point
		if err := json.Unmarshal(data, &pos); err == nil {
			if t, err := Place(root, pos); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				e.logger.Debug("layout cache hit", "nodes", len(pos))
				return t, nil
			}
		}
		e.logger.Debug("discarding unusable layout cache entry")
	}

	observability.Cache().OnCacheMiss(ctx, "layout")

	t, err := e.inner.Layout(ctx, root, size)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(Positions(t)); err == nil {
		if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
			e.logger.Warn("layout cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return t, nil
}

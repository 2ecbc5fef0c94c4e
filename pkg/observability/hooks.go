// Package observability lets callers watch cubicleview at work without the
// libraries depending on a logging or metrics backend.
//
// Three hook sets exist: [PipelineHooks] for parsing and layout,
// [CacheHooks] for layout cache traffic and [ViewHooks] for split rebuilds
// and redraws. Each defaults to a no-op. The CLI installs logging hooks in
// verbose mode:
//
//	observability.SetPipelineHooks(hooks)
//	defer observability.Reset()
//
// Library code fetches the current set at the call site:
//
//	observability.Pipeline().OnParseStart(ctx, source)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from graph loading.
type PipelineHooks interface {
	// Parse events
	OnParseStart(ctx context.Context, source string)
	OnParseComplete(ctx context.Context, source string, nodeCount int, duration time.Duration, err error)

	// Layout events, one per layout variant
	OnLayoutStart(ctx context.Context, variant string, nodeCount int)
	OnLayoutComplete(ctx context.Context, variant string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// keyType names the cached artifact, e.g. "layout".
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// View Hooks
// =============================================================================

// ViewHooks receives events from split views.
type ViewHooks interface {
	// OnRebuild records a split switching to a freshly built graph model.
	OnRebuild(ctx context.Context, split int, variant string, nodeCount int)

	// OnRedraw records one coalesced redraw of a split.
	OnRedraw(ctx context.Context, split int, edges int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                         {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)     {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopViewHooks ignores every event.
type NoopViewHooks struct{}

func (NoopViewHooks) OnRebuild(context.Context, int, string, int)          {}
func (NoopViewHooks) OnRedraw(context.Context, int, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// hookSet is swapped as a whole so readers never take a lock.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	view     ViewHooks
}

var (
	current atomic.Pointer[hookSet]
	writeMu sync.Mutex
)

func init() { Reset() }

func update(fn func(*hookSet)) {
	writeMu.Lock()
	defer writeMu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetViewHooks installs h. A nil h is ignored.
func SetViewHooks(h ViewHooks) {
	if h != nil {
		update(func(s *hookSet) { s.view = h })
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// View returns the installed view hooks.
func View() ViewHooks { return current.Load().view }

// Reset reinstalls the no-op hooks.
func Reset() {
	writeMu.Lock()
	defer writeMu.Unlock()
	current.Store(&hookSet{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		view:     NoopViewHooks{},
	})
}

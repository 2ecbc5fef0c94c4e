package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cubicleview/pkg/observability"
)

// logHooks traces observability events at debug level.
type logHooks struct {
	logger *log.Logger
}

func installHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("trace")}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetViewHooks(h)
}

func (h logHooks) OnParseStart(_ context.Context, source string) {
	h.logger.Debug("parse start", "source", source)
}

func (h logHooks) OnParseComplete(_ context.Context, source string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("parse failed", "source", source, "error", err)
		return
	}
	h.logger.Debug("parse done", "source", source, "nodes", nodes, "duration", d)
}

func (h logHooks) OnLayoutStart(_ context.Context, variant string, nodes int) {
	h.logger.Debug("layout start", "variant", variant, "nodes", nodes)
}

func (h logHooks) OnLayoutComplete(_ context.Context, variant string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "variant", variant, "error", err)
		return
	}
	h.logger.Debug("layout done", "variant", variant, "duration", d)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRebuild(_ context.Context, split int, variant string, nodes int) {
	h.logger.Debug("split rebuilt", "split", split, "variant", variant, "nodes", nodes)
}

func (h logHooks) OnRedraw(_ context.Context, split, edges int, d time.Duration) {
	h.logger.Debug("split redrawn", "split", split, "edges", edges, "duration", d)
}

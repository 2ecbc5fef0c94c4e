package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooks(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "graph.dot")
	p.OnParseComplete(ctx, "graph.dot", 12, time.Millisecond, nil)
	p.OnLayoutStart(ctx, "full", 12)
	p.OnLayoutComplete(ctx, "full", time.Millisecond, errors.New("boom"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "layout", 512)

	v := NoopViewHooks{}
	v.OnRebuild(ctx, 0, "pruned", 4)
	v.OnRedraw(ctx, 1, 3, time.Millisecond)
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() default is not a no-op")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() default is not a no-op")
	}
	if _, ok := View().(NoopViewHooks); !ok {
		t.Error("View() default is not a no-op")
	}

	rec := &recorder{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	SetViewHooks(rec)

	ctx := context.Background()
	Pipeline().OnLayoutStart(ctx, "full", 3)
	Cache().OnCacheHit(ctx, "layout")
	View().OnRedraw(ctx, 0, 2, 0)

	want := []string{"layout:full", "hit:layout", "redraw:0"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, rec.events[i], want[i])
		}
	}

	Reset()
	if _, ok := View().(NoopViewHooks); !ok {
		t.Error("Reset() kept custom view hooks")
	}
}

func TestSetNilIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	rec := &recorder{}
	SetViewHooks(rec)
	SetViewHooks(nil)
	SetPipelineHooks(nil)
	SetCacheHooks(nil)

	if View() != ViewHooks(rec) {
		t.Error("SetViewHooks(nil) replaced registered hooks")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("SetPipelineHooks(nil) replaced the default")
	}
}

type recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopViewHooks
	events []string
}

func (r *recorder) OnLayoutStart(_ context.Context, variant string, _ int) {
	r.events = append(r.events, "layout:"+variant)
}

func (r *recorder) OnCacheHit(_ context.Context, keyType string) {
	r.events = append(r.events, "hit:"+keyType)
}

func (r *recorder) OnRedraw(_ context.Context, split, _ int, _ time.Duration) {
	r.events = append(r.events, "redraw:"+string(rune('0'+split)))
}

package view

import (
	"testing"
	"time"
)

func TestSchedulerCoalesces(t *testing.T) {
	var frames []func()
	flushes := 0
	s := NewScheduler(func(fn func()) { frames = append(frames, fn) }, func() { flushes++ })

	s.Request()
	s.Request()
	s.Request()
	if len(frames) != 1 || !s.Pending() {
		t.Fatalf("frames = %d, pending = %v; want 1, true", len(frames), s.Pending())
	}
	frames[0]()
	if flushes != 1 || s.Pending() {
		t.Errorf("flushes = %d, pending = %v; want 1, false", flushes, s.Pending())
	}

	s.Request()
	if len(frames) != 2 {
		t.Fatalf("frames = %d after flush, want 2", len(frames))
	}
	frames[1]()
	if flushes != 2 {
		t.Errorf("flushes = %d, want 2", flushes)
	}
}

func TestSchedulerImmediate(t *testing.T) {
	flushes := 0
	s := NewScheduler(nil, func() { flushes++ })
	s.Request()
	s.Request()
	if flushes != 2 {
		t.Errorf("flushes = %d, want 2", flushes)
	}
}

func TestHoverClock(t *testing.T) {
	ticks := make(chan struct{}, 16)
	c := NewHoverClock(time.Millisecond, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	c.Sync(true)
	c.Sync(true)
	if !c.Running() {
		t.Fatal("clock not running")
	}
	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("no tick within a second")
	}

	c.Sync(false)
	if c.Running() {
		t.Error("clock still running")
	}
	c.Stop()
}

func TestClickTracker(t *testing.T) {
	tests := []struct {
		name  string
		steps func(*ClickTracker)
		want  bool
	}{
		{"click", func(c *ClickTracker) { c.Down() }, true},
		{"drag", func(c *ClickTracker) { c.Down(); c.Move() }, false},
		{"move before press", func(c *ClickTracker) { c.Move(); c.Down() }, true},
		{"release only", func(*ClickTracker) {}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c ClickTracker
			tt.steps(&c)
			if got := c.Up(); got != tt.want {
				t.Errorf("Up() = %v, want %v", got, tt.want)
			}
		})
	}
}

package view

import (
	"sync"
	"time"
)

// FrameFunc arranges for fn to run at the next frame.
type FrameFunc func(fn func())

// Immediate runs the flush right away. Requests made during a flush are
// handled by a following flush.
func Immediate(fn func()) { fn() }

// After returns a FrameFunc deferring the flush by d.
func After(d time.Duration) FrameFunc {
	return func(fn func()) { time.AfterFunc(d, fn) }
}

// Scheduler coalesces redraw requests. Any number of requests made before
// the frame fires result in one flush.
type Scheduler struct {
	mu      sync.Mutex
	dirty   bool
	pending bool

	frame FrameFunc
	flush func()
}

// NewScheduler creates a scheduler calling flush through frame.
// A nil frame flushes immediately.
func NewScheduler(frame FrameFunc, flush func()) *Scheduler {
	if frame == nil {
		frame = Immediate
	}
	return &Scheduler{frame: frame, flush: flush}
}

// Request marks the scene dirty and schedules a flush unless one is pending.
func (s *Scheduler) Request() {
	s.mu.Lock()
	s.dirty = true
	if s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = true
	s.mu.Unlock()
	s.frame(s.run)
}

// Pending reports whether a flush is scheduled.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Scheduler) run() {
	s.mu.Lock()
	s.pending = false
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	s.mu.Unlock()
	s.flush()
}

// HoverClock calls tick periodically while a hover overlay is shown.
type HoverClock struct {
	interval time.Duration
	tick     func()

	mu   sync.Mutex
	done chan struct{}
}

// NewHoverClock creates a stopped clock.
func NewHoverClock(interval time.Duration, tick func()) *HoverClock {
	return &HoverClock{interval: interval, tick: tick}
}

// Sync starts the clock when active and stops it otherwise.
func (c *HoverClock) Sync(active bool) {
	if active {
		c.start()
	} else {
		c.Stop()
	}
}

// Running reports whether the clock ticks.
func (c *HoverClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done != nil
}

func (c *HoverClock) start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return
	}
	done := make(chan struct{})
	c.done = done
	t := time.NewTicker(c.interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-t.C:
				c.tick()
			case <-done:
				return
			}
		}
	}()
}

// Stop stops the clock. It is safe to call on a stopped clock.
func (c *HoverClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
}

// ClickTracker tells background clicks from drags.
type ClickTracker struct {
	down  bool
	moved bool
}

// Down records a button press.
func (c *ClickTracker) Down() {
	c.down = true
	c.moved = false
}

// Move records pointer movement.
func (c *ClickTracker) Move() {
	if c.down {
		c.moved = true
	}
}

// Up records a button release and reports whether it completed a click.
func (c *ClickTracker) Up() bool {
	click := c.down && !c.moved
	c.down, c.moved = false, false
	return click
}

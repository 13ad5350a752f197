package service

import (
	"sync"
	"time"
)

const (
	// EditDebounce coalesces keystroke-driven URL writes.
	EditDebounce = 300 * time.Millisecond
	// SelectorThrottle bounds URL writes caused by selector changes.
	SelectorThrottle = 1000 * time.Millisecond
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock is backed by the time package.
var SystemClock Clock = systemClock{}

// Debouncer calls fn with the latest argument once wait has passed
// without another Call.
type Debouncer[T any] struct {
	mu      sync.Mutex
	clock   Clock
	wait    time.Duration
	fn      func(T)
	timer   Timer
	gen     uint64
	pending T
}

func NewDebouncer[T any](clock Clock, wait time.Duration, fn func(T)) *Debouncer[T] {
	if clock == nil {
		clock = SystemClock
	}
	return &Debouncer[T]{clock: clock, wait: wait, fn: fn}
}

func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = v
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(gen) })
}

// fire runs the call scheduled as generation gen unless a later Call
// superseded it.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.timer == nil || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}

// Flush runs a pending call immediately.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer.Stop()
	gen := d.gen
	d.mu.Unlock()
	d.fire(gen)
}

// Cancel drops a pending call.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Throttler calls fn at most once per wait. A call inside the window is
// deferred to the end of the window, keeping only the latest argument.
type Throttler[T any] struct {
	mu         sync.Mutex
	clock      Clock
	wait       time.Duration
	fn         func(T)
	last       time.Time
	timer      Timer
	gen        uint64
	pending    T
	hasPending bool
}

func NewThrottler[T any](clock Clock, wait time.Duration, fn func(T)) *Throttler[T] {
	if clock == nil {
		clock = SystemClock
	}
	return &Throttler[T]{clock: clock, wait: wait, fn: fn}
}

func (t *Throttler[T]) Call(v T) {
	t.mu.Lock()

	now := t.clock.Now()
	remaining := t.wait - now.Sub(t.last)
	if t.last.IsZero() || remaining <= 0 {
		if t.timer != nil {
			t.timer.Stop()
			t.timer = nil
			t.gen++
		}
		t.hasPending = false
		t.last = now
		t.mu.Unlock()
		t.fn(v)
		return
	}

	t.pending = v
	t.hasPending = true
	if t.timer == nil {
		t.gen++
		gen := t.gen
		t.timer = t.clock.AfterFunc(remaining, func() { t.fire(gen) })
	}
	t.mu.Unlock()
}

func (t *Throttler[T]) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	if !t.hasPending {
		t.mu.Unlock()
		return
	}
	v := t.pending
	t.hasPending = false
	t.last = t.clock.Now()
	t.mu.Unlock()

	t.fn(v)
}

// Flush runs a deferred call immediately.
func (t *Throttler[T]) Flush() {
	t.mu.Lock()
	if t.timer == nil {
		t.mu.Unlock()
		return
	}
	t.timer.Stop()
	gen := t.gen
	t.mu.Unlock()
	t.fire(gen)
}

// Cancel drops a deferred call.
func (t *Throttler[T]) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
		t.gen++
	}
	t.hasPending = false
}

package service

import (
	"sort"
	"sync"
	"testing"
	"time"
)

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeClock only moves when Advance is called; due callbacks run on the
// calling goroutine.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

type callLog struct {
	mu    sync.Mutex
	calls []int
}

func (l *callLog) record(v int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, v)
}

func (l *callLog) get() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]int(nil), l.calls...)
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDebouncer_TrailingEdge(t *testing.T) {

	clock := newFakeClock()
	log := &callLog{}
	d := NewDebouncer(clock, EditDebounce, log.record)

	d.Call(1)
	clock.Advance(100 * time.Millisecond)
	d.Call(2)
	clock.Advance(100 * time.Millisecond)
	d.Call(3)

	clock.Advance(299 * time.Millisecond)
	if got := log.get(); len(got) != 0 {
		t.Fatalf("expected no calls before the quiet period, got %v", got)
	}

	clock.Advance(time.Millisecond)
	if got := log.get(); !equalInts(got, []int{3}) {
		t.Errorf("expected [3], got %v", got)
	}

	clock.Advance(time.Second)
	if got := log.get(); !equalInts(got, []int{3}) {
		t.Errorf("expected a single call, got %v", got)
	}
}

func TestDebouncer_Flush(t *testing.T) {

	clock := newFakeClock()
	log := &callLog{}
	d := NewDebouncer(clock, EditDebounce, log.record)

	d.Call(5)
	d.Flush()
	if got := log.get(); !equalInts(got, []int{5}) {
		t.Fatalf("expected [5] after flush, got %v", got)
	}

	clock.Advance(time.Second)
	d.Flush()
	if got := log.get(); !equalInts(got, []int{5}) {
		t.Errorf("expected flushed call not to repeat, got %v", got)
	}
}

func TestDebouncer_Cancel(t *testing.T) {

	clock := newFakeClock()
	log := &callLog{}
	d := NewDebouncer(clock, EditDebounce, log.record)

	d.Call(1)
	d.Cancel()
	clock.Advance(time.Second)

	if got := log.get(); len(got) != 0 {
		t.Errorf("expected no calls after cancel, got %v", got)
	}
}

func TestThrottler_LeadingAndTrailing(t *testing.T) {

	clock := newFakeClock()
	log := &callLog{}
	th := NewThrottler(clock, SelectorThrottle, log.record)

	th.Call(1)
	if got := log.get(); !equalInts(got, []int{1}) {
		t.Fatalf("expected an immediate first call, got %v", got)
	}

	clock.Advance(100 * time.Millisecond)
	th.Call(2)
	clock.Advance(100 * time.Millisecond)
	th.Call(3)

	clock.Advance(799 * time.Millisecond)
	if got := log.get(); !equalInts(got, []int{1}) {
		t.Fatalf("expected calls inside the window to wait, got %v", got)
	}

	clock.Advance(time.Millisecond)
	if got := log.get(); !equalInts(got, []int{1, 3}) {
		t.Fatalf("expected the latest deferred call, got %v", got)
	}

	clock.Advance(time.Second)
	th.Call(4)
	if got := log.get(); !equalInts(got, []int{1, 3, 4}) {
		t.Errorf("expected a call after the window to run at once, got %v", got)
	}
}

func TestThrottler_Cancel(t *testing.T) {

	clock := newFakeClock()
	log := &callLog{}
	th := NewThrottler(clock, SelectorThrottle, log.record)

	th.Call(1)
	clock.Advance(100 * time.Millisecond)
	th.Call(2)
	th.Cancel()
	clock.Advance(2 * time.Second)

	if got := log.get(); !equalInts(got, []int{1}) {
		t.Errorf("expected the deferred call to be dropped, got %v", got)
	}
}

func TestThrottler_Flush(t *testing.T) {

	clock := newFakeClock()
	log := &callLog{}
	th := NewThrottler(clock, SelectorThrottle, log.record)

	th.Call(1)
	clock.Advance(100 * time.Millisecond)
	th.Call(2)
	th.Flush()

	if got := log.get(); !equalInts(got, []int{1, 2}) {
		t.Fatalf("expected the deferred call to run on flush, got %v", got)
	}

	clock.Advance(2 * time.Second)
	th.Flush()
	if got := log.get(); !equalInts(got, []int{1, 2}) {
		t.Errorf("expected no further calls, got %v", got)
	}
}

package testutil

import (
	"sync"
	"time"
)

// ManualTimers is a timer factory whose timers only fire when a test says so.
// Its AfterFunc has the shape of time.AfterFunc.
type ManualTimers struct {
	mu     sync.Mutex
	timers []*ManualTimer
}

func NewManualTimers() *ManualTimers {
	return &ManualTimers{}
}

// ManualTimer is one scheduled callback.
type ManualTimer struct {
	mu      sync.Mutex
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

// AfterFunc schedules f. It never runs on its own.
func (m *ManualTimers) AfterFunc(d time.Duration, f func()) *ManualTimer {
	t := &ManualTimer{delay: d, f: f}
	m.mu.Lock()
	m.timers = append(m.timers, t)
	m.mu.Unlock()
	return t
}

// Created returns how many timers were scheduled.
func (m *ManualTimers) Created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Active returns the timers that are neither stopped nor fired.
func (m *ManualTimers) Active() []*ManualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ManualTimer
	for _, t := range m.timers {
		if t.isActive() {
			out = append(out, t)
		}
	}
	return out
}

// FireAll fires every active timer on the calling goroutine and returns how
// many fired.
func (m *ManualTimers) FireAll() int {
	n := 0
	for _, t := range m.Active() {
		if t.Fire() {
			n++
		}
	}
	return n
}

// Fire runs the callback unless the timer was stopped or already fired.
// A stopped timer may still be fired with FireStale to simulate a callback
// that raced with Stop.
func (t *ManualTimer) Fire() bool {
	t.mu.Lock()
	if !t.active() {
		t.mu.Unlock()
		return false
	}
	t.fired = true
	t.mu.Unlock()
	t.f()
	return true
}

// FireStale runs the callback even if the timer was stopped.
func (t *ManualTimer) FireStale() {
	t.mu.Lock()
	t.fired = true
	t.mu.Unlock()
	t.f()
}

// Stop has the semantics of (*time.Timer).Stop.
func (t *ManualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

// Delay is the duration the timer was armed with.
func (t *ManualTimer) Delay() time.Duration {
	return t.delay
}

func (t *ManualTimer) isActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active()
}

func (t *ManualTimer) active() bool {
	return !t.stopped && !t.fired
}

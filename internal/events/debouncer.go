package events

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default debounce window.
const DefaultDebounceDuration = 200 * time.Millisecond

// Debouncer coalesces bursts of triggers into one callback. Only the
// callback passed to the last Trigger runs, once the window has elapsed
// without another Trigger.
type Debouncer struct {
	mu sync.Mutex
	// run is held while a callback executes, so a Flush never overtakes a
	// timer callback that already took its value. Lock order: run, then mu.
	run      sync.Mutex
	duration time.Duration
	timer    *time.Timer
	pending  func()
	seq      uint64
}

// NewDebouncer returns a Debouncer. A zero duration selects
// DefaultDebounceDuration.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration == 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{duration: duration}
}

// Trigger schedules callback, replacing anything already pending.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = callback
	d.timer = time.AfterFunc(d.duration, func() { d.fire(seq) })
}

func (d *Debouncer) fire(seq uint64) {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	if seq != d.seq || d.pending == nil {
		d.mu.Unlock()
		return
	}
	cb := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	cb()
}

// Flush runs the pending callback now, if there is one. It waits for a
// timer callback that is already running to return first.
func (d *Debouncer) Flush() {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	cb := d.pending
	d.pending = nil
	d.seq++
	d.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Cancel drops the pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.seq++
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Duration returns the debounce window.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}

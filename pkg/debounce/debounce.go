// Package debounce coalesces rapid repeated triggers into a single call
// after a quiet window.
package debounce

import (
	"sync"
	"time"
)

// Debouncer invokes the most recently submitted function once no new trigger
// has arrived for the configured delay. Triggers within the window replace the
// pending function, so only the latest one runs.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
	stopped bool
}

// New creates a Debouncer with the given quiet-window delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiet window. A trigger arriving
// before the window elapses resets the timer and replaces the pending fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// fire runs the pending function, if any.
func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Flush runs any pending function immediately, cancelling the timer.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Stop cancels any pending invocation. The Debouncer accepts no further
// triggers after Stop.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
	d.stopped = true
}

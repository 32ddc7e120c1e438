package foundations

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of work into a single execution. Each
// Schedule call arms a timer for the configured delay; scheduling
// again before it fires discards the previously pending task entirely
// and starts over with the new one. Only the last task of a burst ever
// runs.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	task  func()
}

// NewDebouncer creates a debouncer with the given delay window.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule runs task after the delay unless superseded by a later
// Schedule call first.
func (d *Debouncer) Schedule(task func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.task = task
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		d.task = nil
		d.mu.Unlock()
		task()
	})
}

// Cancel discards any pending task.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.task = nil
}

// Flush runs any pending task immediately instead of waiting out the
// delay. Used on shutdown so a trailing settings change is not lost.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	var task func()
	if d.timer != nil && d.timer.Stop() {
		task = d.task
	}
	d.timer = nil
	d.task = nil
	d.mu.Unlock()

	if task != nil {
		task()
	}
}

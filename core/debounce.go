package core

import (
	"sync"
	"time"
)

// Debouncer coalesces triggers that arrive within an interval. Only the
// newest pending function runs, once the interval passes without another
// trigger.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	version  uint64
}

// NewDebouncer creates a Debouncer with the given interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules fn, superseding any call that has not run yet.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.version++
	v := d.version
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		current := d.version == v
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Stop drops any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.version++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

package mention

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a suggestion lookup is issued.
const DefaultDebounce = 300 * time.Millisecond

// Handle is a pending delayed call.
type Handle struct {
	timer *time.Timer
}

// Cancel stops the call if it has not fired yet and reports whether it did so.
func (h *Handle) Cancel() bool {
	if h == nil || h.timer == nil {
		return false
	}
	return h.timer.Stop()
}

// After runs fn once delay has elapsed, unless the returned handle is
// cancelled first.
func After(delay time.Duration, fn func()) *Handle {
	return &Handle{timer: time.AfterFunc(delay, fn)}
}

// Debouncer collapses bursts of triggers into a single call issued after the
// last trigger plus the delay.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending *Handle
}

// NewDebouncer creates a debouncer. A non-positive delay uses DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger cancels any pending call and schedules fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending.Cancel()
	d.pending = After(d.delay, fn)
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending.Cancel()
	d.pending = nil
}

// Delay returns the configured quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

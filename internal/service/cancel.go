package service

import "time"

// CancelWindow is a fixed countdown gate for consumer-initiated
// cancellation. The countdown starts when the window is opened and is
// re-checked at execution time, so an action queued before expiry cannot
// fire after it.
type CancelWindow struct {
	start time.Time
	ttl   time.Duration
	now   func() time.Time
}

// NewCancelWindow opens a window of the given duration starting now
func NewCancelWindow(ttl time.Duration) *CancelWindow {
	return &CancelWindow{
		start: time.Now(),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Open reports whether the countdown has not yet elapsed
func (w *CancelWindow) Open() bool {
	if w == nil {
		return false
	}
	return w.now().Sub(w.start) < w.ttl
}

// Remaining returns the time left on the countdown, never negative
func (w *CancelWindow) Remaining() time.Duration {
	if w == nil {
		return 0
	}
	left := w.ttl - w.now().Sub(w.start)
	if left < 0 {
		return 0
	}
	return left
}

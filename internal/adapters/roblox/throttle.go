package roblox

import (
	"context"
	"sync"
	"time"
)

// Backoff windows used by the finder
const (
	BackoffWindow = 30 * time.Second
	InitialDelay  = 500 * time.Millisecond
	pollEvery     = 50 * time.Millisecond
)

// Throttle is the shared "next allowed time" for the primary account lookup.
// The watermark only moves forward.
type Throttle struct {
	mu    sync.Mutex
	until time.Time
	now   func() time.Time
	poll  time.Duration
}

// NewThrottle starts with the watermark at now+initial
func NewThrottle(initial time.Duration) *Throttle {
	t := &Throttle{now: time.Now, poll: pollEvery}
	t.until = t.now().Add(initial)
	return t
}

// Watermark returns the current next-allowed time
func (t *Throttle) Watermark() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.until
}

// RecordFailure pushes the watermark to now+window unless it is already later.
// It returns the resulting watermark and whether it moved.
func (t *Throttle) RecordFailure(window time.Duration) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := t.now().Add(window)
	if next.After(t.until) {
		t.until = next
		return next, true
	}
	return t.until, false
}

// Wait blocks in short increments until the watermark has passed.
// It returns false if stopped reports true or ctx ends first.
func (t *Throttle) Wait(ctx context.Context, stopped func() bool) bool {
	for {
		t.mu.Lock()
		remaining := t.until.Sub(t.now())
		t.mu.Unlock()
		if remaining <= 0 {
			return true
		}
		if stopped != nil && stopped() {
			return false
		}
		step := min(t.poll, remaining)
		timer := time.NewTimer(step)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}

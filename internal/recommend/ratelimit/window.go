// Package ratelimit caps how often a member may force a regeneration.
//
// Every forced refresh records a fresh generation and, through repeat
// avoidance, shrinks the pool available to the next one, so the limit is
// counted per member over a sliding window.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"tandem/pkg/requestcontext"
)

// Result describes one admission decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Window is an in-memory sliding-window counter keyed by member.
type Window struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string][]time.Time
}

// NewWindow admits at most limit calls per key within window. A limit of
// zero or less admits everything.
func NewWindow(limit int, window time.Duration) *Window {
	return &Window{
		limit:   limit,
		window:  window,
		buckets: make(map[string][]time.Time),
	}
}

// Allow records a call for key if it fits in the window.
func (w *Window) Allow(ctx context.Context, key string) Result {
	if w == nil || w.limit <= 0 {
		return Result{Allowed: true}
	}
	now := requestcontext.Now(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()

	stamps := prune(w.buckets[key], now.Add(-w.window))
	if len(stamps) >= w.limit {
		w.buckets[key] = stamps
		resetAt := stamps[0].Add(w.window)
		return Result{
			Allowed:    false,
			Limit:      w.limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}
	}
	stamps = append(stamps, now)
	w.buckets[key] = stamps
	return Result{
		Allowed:   true,
		Limit:     w.limit,
		Remaining: w.limit - len(stamps),
		ResetAt:   stamps[0].Add(w.window),
	}
}

// Reset forgets every call recorded for key.
func (w *Window) Reset(key string) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.buckets, key)
}

// Sweep drops keys whose calls have all left the window and returns how many
// were removed.
func (w *Window) Sweep(ctx context.Context) int {
	if w == nil {
		return 0
	}
	cutoff := requestcontext.Now(ctx).Add(-w.window)

	w.mu.Lock()
	defer w.mu.Unlock()

	removed := 0
	for key, stamps := range w.buckets {
		if len(prune(stamps, cutoff)) == 0 {
			delete(w.buckets, key)
			removed++
		}
	}
	return removed
}

// prune drops stamps at or before cutoff. Stamps are appended in order.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	return stamps[i:]
}

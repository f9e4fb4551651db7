package status

import (
	"context"
	"sync"
	"time"

	"shaper-sync/core/reconcile"
)

// Tracker remembers the latest cycle summary. It doubles as a reconcile.Hook
// so the engine feeds it for free.
type Tracker struct {
	mu        sync.RWMutex
	last      *reconcile.Summary
	startedAt time.Time
}

// NewTracker creates a tracker; startedAt anchors the reported uptime.
func NewTracker() *Tracker {
	return &Tracker{startedAt: time.Now()}
}

// AfterCycle implements reconcile.Hook.
func (t *Tracker) AfterCycle(ctx context.Context, sum reconcile.Summary) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = &sum
	return nil
}

// Last returns the most recent summary, if any cycle completed yet.
func (t *Tracker) Last() (reconcile.Summary, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.last == nil {
		return reconcile.Summary{}, false
	}
	return *t.last, true
}

// Uptime reports how long the daemon has been running.
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.startedAt)
}

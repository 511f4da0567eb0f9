// Package usage counts provider calls per calendar month so quotas can be
// reported and alerted on. Counters reset when the month changes.
package usage

import (
	"context"
	"sync"
	"time"
)

// Provider names used as counter keys.
const (
	Hunter = "hunter"
	Apollo = "apollo"
)

// Tracker counts provider calls for the current month.
type Tracker interface {
	// Increment adds one call for provider and returns the new monthly total.
	Increment(ctx context.Context, provider string) (int64, error)
	// Usage returns this month's totals keyed by provider.
	Usage(ctx context.Context) (map[string]int64, error)
}

// Period returns the counter period for t, e.g. "2026-10".
func Period(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// MemoryTracker keeps counters in process memory.
type MemoryTracker struct {
	mu     sync.Mutex
	period string
	counts map[string]int64

	now func() time.Time
}

// NewMemoryTracker creates an empty in-memory tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{counts: make(map[string]int64), now: time.Now}
}

// Increment implements Tracker.
func (m *MemoryTracker) Increment(_ context.Context, provider string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollover()
	m.counts[provider]++
	return m.counts[provider], nil
}

// Usage implements Tracker.
func (m *MemoryTracker) Usage(_ context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollover()
	out := map[string]int64{Hunter: 0, Apollo: 0}
	for k, v := range m.counts {
		out[k] = v
	}
	return out, nil
}

// rollover clears the counters when the month changes. Caller holds mu.
func (m *MemoryTracker) rollover() {
	p := Period(m.now())
	if p != m.period {
		m.period = p
		m.counts = make(map[string]int64)
	}
}

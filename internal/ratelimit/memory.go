package ratelimit

import (
	"context"
	"items-api/internal/metrics"
	"sync"
	"time"
)

type window struct {
	count int64
	start time.Time
}

// MemoryLimiter counts requests per key in fixed windows held in process
// memory. It is only correct for a single replica.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	w, ok := m.windows[key]
	if !ok || !now.Before(w.start.Add(m.period)) {
		w = &window{start: now}
		m.windows[key] = w
	}
	w.count++

	decision := newDecision(w.count, m.limit, w.start.Add(m.period))
	metrics.RateLimitDecisions.WithLabelValues(metrics.RateLimitStoreMemory, boolLabel(decision.Allowed)).Inc()

	return decision, nil
}

// Sweep drops windows that have elapsed and returns how many were removed.
func (m *MemoryLimiter) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, w := range m.windows {
		if !now.Before(w.start.Add(m.period)) {
			delete(m.windows, key)
			removed++
		}
	}

	metrics.RateLimitTrackedKeys.Set(float64(len(m.windows)))

	return removed
}

// Run sweeps expired windows every interval until ctx is done.
func (m *MemoryLimiter) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

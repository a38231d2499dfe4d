package tracking

import (
	"sync"
	"time"
)

// PollMetrics tracks ingestion pipeline performance.
type PollMetrics struct {
	CyclesCompleted   int64         `json:"cycles_completed"`
	CyclesSkipped     int64         `json:"cycles_skipped"`
	VesselsUpdated    int64         `json:"vessels_updated"`
	VesselsFailed     int64         `json:"vessels_failed"`
	PositionsAppended int64         `json:"positions_appended"`
	PositionsPurged   int64         `json:"positions_purged"`
	StaleVessels      int64         `json:"stale_vessels"`
	LastCycleAt       time.Time     `json:"last_cycle_at"`
	LastCycleDuration time.Duration `json:"last_cycle_duration_ns"`
}

// MetricsTracker provides a goroutine-safe wrapper around PollMetrics.
type MetricsTracker struct {
	mu      sync.RWMutex
	metrics PollMetrics
}

func NewMetricsTracker() *MetricsTracker {
	return &MetricsTracker{}
}

// Update applies a mutation in a thread-safe way.
func (t *MetricsTracker) Update(fn func(*PollMetrics)) {
	if fn == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.metrics)
}

// Snapshot returns a copy of the current metrics.
func (t *MetricsTracker) Snapshot() PollMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.metrics
}

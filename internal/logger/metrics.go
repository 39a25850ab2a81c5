package logger

import (
	"sync"
	"time"
)

// Metrics keeps per-process crawl counters and timing totals for the
// fetch --verbose summary. Memory is bounded by the number of names.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string]TimingStats
}

// TimingStats aggregates every duration recorded under one name
type TimingStats struct {
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Average returns Total / Count, or 0 when nothing was recorded
func (s TimingStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Snapshot is a point-in-time copy of a Metrics tracker
type Snapshot struct {
	Counters map[string]int64
	Timings  map[string]TimingStats
}

var defaultMetrics = NewMetrics()

func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string]TimingStats),
	}
}

func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// RecordTiming folds d into the running stats for name
func (m *Metrics) RecordTiming(name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.timings[name]
	if !ok || d < stats.Min {
		stats.Min = d
	}
	if d > stats.Max {
		stats.Max = d
	}
	stats.Count++
	stats.Total += d
	m.timings[name] = stats
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Timings:  make(map[string]TimingStats, len(m.timings)),
	}
	for name, v := range m.counters {
		snap.Counters[name] = v
	}
	for name, stats := range m.timings {
		snap.Timings[name] = stats
	}
	return snap
}

// IncrCounter increments a counter on the default tracker.
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// RecordTiming records a timing on the default tracker.
func RecordTiming(name string, d time.Duration) {
	defaultMetrics.RecordTiming(name, d)
}

// MetricsSnapshot returns a snapshot of the default tracker.
func MetricsSnapshot() Snapshot {
	return defaultMetrics.Snapshot()
}

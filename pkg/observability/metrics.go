package observability

import (
	"sync"
	"time"
)

// Metrics collects counters and duration summaries in process. It backs the
// /metrics endpoint of the HTTP server.
type Metrics struct {
	mu        sync.RWMutex
	counters  map[string]int64
	durations map[string]*durationSummary
}

type durationSummary struct {
	count int64
	total time.Duration
	max   time.Duration
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{
		counters:  make(map[string]int64),
		durations: make(map[string]*durationSummary),
	}
}

// Inc adds one to the named counter.
func (m *Metrics) Inc(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// Observe records one duration under the given name.
func (m *Metrics) Observe(name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.durations[name]
	if !ok {
		s = &durationSummary{}
		m.durations[name] = s
	}
	s.count++
	s.total += d
	if d > s.max {
		s.max = d
	}
}

// Snapshot returns counters and duration summaries as flat maps. Duration
// values are milliseconds.
func (m *Metrics) Snapshot() (map[string]int64, map[string]map[string]float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counters := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		counters[k] = v
	}

	durations := make(map[string]map[string]float64, len(m.durations))
	for k, s := range m.durations {
		avg := 0.0
		if s.count > 0 {
			avg = float64(s.total.Milliseconds()) / float64(s.count)
		}
		durations[k] = map[string]float64{
			"count":  float64(s.count),
			"avg_ms": avg,
			"max_ms": float64(s.max.Milliseconds()),
		}
	}
	return counters, durations
}

package input

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

const maxLatencySamples = 1000

// Metrics tracks key processing by outcome and latency.
type Metrics struct {
	byStatus [StatusClosed + 1]atomic.Uint64
	keys     atomic.Uint64
	retries  atomic.Uint64

	mu         sync.Mutex
	latencies  []time.Duration
	latencyIdx int

	peak atomic.Int64

	enabled atomic.Bool
}

// NewMetrics creates an enabled metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{latencies: make([]time.Duration, maxLatencySamples)}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// RecordKey records one processed key.
func (m *Metrics) RecordKey(status Status, latency time.Duration) {
	if !m.enabled.Load() {
		return
	}
	m.keys.Add(1)
	if int(status) < len(m.byStatus) {
		m.byStatus[status].Add(1)
	}

	ns := latency.Nanoseconds()
	for {
		cur := m.peak.Load()
		if ns <= cur || m.peak.CompareAndSwap(cur, ns) {
			break
		}
	}

	m.mu.Lock()
	m.latencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % maxLatencySamples
	m.mu.Unlock()
}

// RecordRetry records a no-match sequence retried with its last key.
func (m *Metrics) RecordRetry() {
	if !m.enabled.Load() {
		return
	}
	m.retries.Add(1)
}

// MetricsSnapshot is a point-in-time view of the metrics.
type MetricsSnapshot struct {
	Keys       uint64
	Dispatched uint64
	Pending    uint64
	NoMatch    uint64
	Typed      uint64
	Escaped    uint64
	Consumed   uint64
	Retries    uint64

	AvgLatency  time.Duration
	P99Latency  time.Duration
	PeakLatency time.Duration
}

// Snapshot returns a point-in-time view of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	samples := slices.DeleteFunc(slices.Clone(m.latencies), func(d time.Duration) bool { return d <= 0 })
	m.mu.Unlock()

	snap := MetricsSnapshot{
		Keys:        m.keys.Load(),
		Dispatched:  m.byStatus[StatusDispatched].Load(),
		Pending:     m.byStatus[StatusPending].Load(),
		NoMatch:     m.byStatus[StatusNoMatch].Load(),
		Typed:       m.byStatus[StatusTyped].Load(),
		Escaped:     m.byStatus[StatusEscaped].Load(),
		Consumed:    m.byStatus[StatusConsumed].Load(),
		Retries:     m.retries.Load(),
		PeakLatency: time.Duration(m.peak.Load()),
	}
	if len(samples) == 0 {
		return snap
	}

	var sum time.Duration
	for _, d := range samples {
		sum += d
	}
	snap.AvgLatency = sum / time.Duration(len(samples))
	slices.Sort(samples)
	snap.P99Latency = samples[min(len(samples)*99/100, len(samples)-1)]
	return snap
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	for i := range m.byStatus {
		m.byStatus[i].Store(0)
	}
	m.keys.Store(0)
	m.retries.Store(0)
	m.peak.Store(0)

	m.mu.Lock()
	clear(m.latencies)
	m.latencyIdx = 0
	m.mu.Unlock()
}

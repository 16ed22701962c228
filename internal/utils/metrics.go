// internal/utils/metrics.go
package utils

import (
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector tracks per-endpoint request counts and latencies.
type MetricsCollector struct {
	counters   map[string]*counter
	histograms map[string]*histogram

	mu sync.RWMutex
}

// counter uses atomic updates on the fast path.
type counter struct {
	value int64
}

// histogram tracks count, sum, min and max latencies in milliseconds.
type histogram struct {
	count int64
	sum   int64
	min   int64
	max   int64
	mu    sync.Mutex
}

var (
	globalMetrics *MetricsCollector
	metricsOnce   sync.Once
)

// GetMetricsCollector returns the process-wide collector.
func GetMetricsCollector() *MetricsCollector {
	metricsOnce.Do(func() {
		globalMetrics = &MetricsCollector{
			counters:   make(map[string]*counter),
			histograms: make(map[string]*histogram),
		}
	})
	return globalMetrics
}

// IncrementCounter adds one to the named counter.
func (m *MetricsCollector) IncrementCounter(name string) {
	m.mu.RLock()
	c, exists := m.counters[name]
	m.mu.RUnlock()

	if !exists {
		m.mu.Lock()
		c, exists = m.counters[name]
		if !exists {
			c = &counter{}
			m.counters[name] = c
		}
		m.mu.Unlock()
	}

	atomic.AddInt64(&c.value, 1)
}

// ObserveDuration records one latency sample for the named histogram.
func (m *MetricsCollector) ObserveDuration(name string, d time.Duration) {
	m.mu.RLock()
	h, exists := m.histograms[name]
	m.mu.RUnlock()

	if !exists {
		m.mu.Lock()
		h, exists = m.histograms[name]
		if !exists {
			h = &histogram{}
			m.histograms[name] = h
		}
		m.mu.Unlock()
	}

	ms := d.Milliseconds()
	h.mu.Lock()
	h.count++
	h.sum += ms
	if h.count == 1 || ms < h.min {
		h.min = ms
	}
	if ms > h.max {
		h.max = ms
	}
	h.mu.Unlock()
}

// RecordRequest is the convenience path used by the request middleware.
func (m *MetricsCollector) RecordRequest(endpoint string, d time.Duration, success bool) {
	m.IncrementCounter(endpoint + ".requests")
	if !success {
		m.IncrementCounter(endpoint + ".errors")
	}
	m.ObserveDuration(endpoint+".latency", d)
}

// HistogramSnapshot is the exported view of one histogram.
type HistogramSnapshot struct {
	Count int64   `json:"count"`
	AvgMs float64 `json:"avg_ms"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
}

// Snapshot exports all metrics for the metrics endpoint.
func (m *MetricsCollector) Snapshot() (map[string]int64, map[string]HistogramSnapshot) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counters := make(map[string]int64, len(m.counters))
	for name, c := range m.counters {
		counters[name] = atomic.LoadInt64(&c.value)
	}

	histograms := make(map[string]HistogramSnapshot, len(m.histograms))
	for name, h := range m.histograms {
		h.mu.Lock()
		snap := HistogramSnapshot{
			Count: h.count,
			MinMs: h.min,
			MaxMs: h.max,
		}
		if h.count > 0 {
			snap.AvgMs = float64(h.sum) / float64(h.count)
		}
		h.mu.Unlock()
		histograms[name] = snap
	}

	return counters, histograms
}

package monitoring

import (
	"sync"
	"time"
)

// Monitor collects operational counters for the dashboard backend
type Monitor struct {
	counters     map[string]int64
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		counters:  make(map[string]int64),
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// Increment bumps a named counter by one
func (m *Monitor) Increment(name string) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.counters[name]++
}

// Counter returns the current value of a counter
func (m *Monitor) Counter(name string) int64 {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	return m.counters[name]
}

// RecordMetric records a gauge-style metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// GetMetrics returns all current counters and metrics
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	// Create a copy to avoid concurrent map access
	metrics := make(map[string]interface{}, len(m.metrics)+len(m.counters)+1)
	for k, v := range m.metrics {
		metrics[k] = v
	}
	for k, v := range m.counters {
		metrics[k] = v
	}

	// Add system metrics
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// Reset clears all counters and metrics
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.counters = make(map[string]int64)
	m.metrics = make(map[string]interface{})
}

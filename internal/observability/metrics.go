package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters with latency totals.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	totalDuration map[string]time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		totalDuration: make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests and accumulates latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalDuration[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RequestStat is one route's aggregate.
type RequestStat struct {
	Count      int64         `json:"count"`
	TotalTime  time.Duration `json:"total_time"`
	AvgTimeMS  float64       `json:"avg_time_ms"`
}

// Snapshot returns a copy of the per-route aggregates.
func (m *Metrics) Snapshot() map[string]RequestStat {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]RequestStat, len(m.requestCount))
	for key, count := range m.requestCount {
		stat := RequestStat{Count: count, TotalTime: m.totalDuration[key]}
		if count > 0 {
			stat.AvgTimeMS = float64(stat.TotalTime.Milliseconds()) / float64(count)
		}
		out[key] = stat
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}

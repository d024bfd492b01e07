package observability

import (
	"sync"
	"time"
)

// RouteStats accumulates request outcomes for one method+path pair.
type RouteStats struct {
	Requests      int64
	Errors        int64
	TotalDuration time.Duration
}

// Metrics keeps in-memory request counters, fed by the request-logging
// middleware. Counters are keyed by method and path as fiber reports
// them.
type Metrics struct {
	mu     sync.Mutex
	routes map[string]*RouteStats
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{routes: make(map[string]*RouteStats)}
}

// RecordRequest counts a completed request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := m.route(method, path)
	stats.Requests++
	stats.TotalDuration += duration
	if status >= 500 {
		stats.Errors++
	}
}

// RecordError counts a request that ended in an internal error. Client
// errors (validation, not-found, forbidden) are expected traffic and are
// not counted here.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	if code != "INTERNAL_ERROR" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.route(method, path).Errors++
}

// Snapshot copies the accumulated counters.
func (m *Metrics) Snapshot() map[string]RouteStats {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]RouteStats, len(m.routes))
	for key, stats := range m.routes {
		out[key] = *stats
	}
	return out
}

func (m *Metrics) route(method, path string) *RouteStats {
	key := method + " " + path
	stats, ok := m.routes[key]
	if !ok {
		stats = &RouteStats{}
		m.routes[key] = stats
	}
	return stats
}

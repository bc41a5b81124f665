// Package metrics exposes Prometheus collectors for the tracker.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Mutation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// View kinds used as the cache metric label.
const (
	ViewDashboard = "dashboard"
	ViewYearly    = "yearly"
)

type Metrics struct {
	mutations       *prometheus.CounterVec
	skippedItems    prometheus.Counter
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	categories      prometheus.Gauge
	snapshotVersion prometheus.Gauge
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg gives
// unregistered collectors, which is what tests usually want.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chitieu",
			Name:      "store_mutations_total",
			Help:      "Store mutations, partitioned by operation and outcome.",
		}, []string{"operation", "outcome"}),
		skippedItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chitieu",
			Name:      "skipped_items_total",
			Help:      "Expense items excluded from derived views because their date is invalid.",
		}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chitieu",
			Name:      "view_cache_hits_total",
			Help:      "Derived view cache hits.",
		}, []string{"view"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chitieu",
			Name:      "view_cache_misses_total",
			Help:      "Derived view cache misses.",
		}, []string{"view"}),
		categories: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chitieu",
			Name:      "categories",
			Help:      "Number of categories in the current snapshot.",
		}),
		snapshotVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chitieu",
			Name:      "snapshot_version",
			Help:      "Version of the current store snapshot.",
		}),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chitieu",
			Name:      "http_requests_total",
			Help:      "How many HTTP requests processed, partitioned by status code, method and route.",
		}, []string{"code", "method", "route"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chitieu",
			Name:      "http_request_duration_seconds",
			Help:      "The HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method", "route"}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.mutations,
		m.skippedItems,
		m.cacheHits,
		m.cacheMisses,
		m.categories,
		m.snapshotVersion,
		m.requestCount,
		m.requestDuration,
	}
}

// Mutation counts one store mutation attempt.
func (m *Metrics) Mutation(op, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

// Skipped adds n items excluded for an invalid date.
func (m *Metrics) Skipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skippedItems.Add(float64(n))
}

func (m *Metrics) CacheHit(view string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(view).Inc()
}

func (m *Metrics) CacheMiss(view string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(view).Inc()
}

// Snapshot records the size and version of the published snapshot.
func (m *Metrics) Snapshot(categories int, version uint64) {
	if m == nil {
		return
	}
	m.categories.Set(float64(categories))
	m.snapshotVersion.Set(float64(version))
}

// Request observes one finished HTTP request. route is the mux pattern, not
// the raw path, to keep label cardinality bounded.
func (m *Metrics) Request(code int, method, route string, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := strconv.Itoa(code)
	m.requestCount.WithLabelValues(status, method, route).Inc()
	m.requestDuration.WithLabelValues(status, method, route).Observe(elapsed.Seconds())
}

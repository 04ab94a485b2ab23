package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup results.
const (
	resultHit      = "hit"
	resultNegative = "negative"
	resultMiss     = "miss"
)

// Upstream fetch outcomes.
const (
	fetchFound     = "found"
	fetchNotFound  = "not_found"
	fetchError     = "error"
	fetchMalformed = "malformed"
)

// Metrics holds the Prometheus collectors shared by every engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Lookups      *prometheus.CounterVec
	Coalesced    *prometheus.CounterVec
	Evictions    *prometheus.CounterVec
	Fetches      *prometheus.CounterVec
	FetchLatency *prometheus.HistogramVec

	namespace string
	factory   promauto.Factory
}

// NewMetrics creates the cache collectors under namespace and registers them with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by entity kind and result (hit, negative, miss)",
		}, []string{"kind", "result"}),
		Coalesced: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "coalesced_total",
			Help:      "Lookups that attached to an upstream load already in flight",
		}, []string{"kind"}),
		Evictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Entries evicted to stay within capacity",
		}, []string{"kind"}),
		Fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "fetches_total",
			Help:      "Keys loaded from upstream by outcome (found, not_found, error, malformed)",
		}, []string{"kind", "outcome"}),
		FetchLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream call latency in seconds, retries included",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		namespace: namespace,
		factory:   factory,
	}
}

func (m *Metrics) lookup(kind, result string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) coalesced(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Coalesced.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) evicted(kind string) {
	if m == nil {
		return
	}
	m.Evictions.WithLabelValues(kind).Inc()
}

func (m *Metrics) fetched(kind, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Fetches.WithLabelValues(kind, outcome).Add(float64(n))
}

func (m *Metrics) observeFetch(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchLatency.WithLabelValues(kind).Observe(d.Seconds())
}

// trackEntries exposes the size of a store as a gauge.
func (m *Metrics) trackEntries(kind string, size func() int) {
	if m == nil {
		return
	}
	m.factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "cache",
		Name:        "entries",
		Help:        "Entries currently held by the store",
		ConstLabels: prometheus.Labels{"kind": kind},
	}, func() float64 { return float64(size()) })
}

// Package metrics holds the Prometheus collectors shared by the server,
// the worker and the ledger service.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "splitter"

// Metrics groups every collector the application exports. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	ItemMutations     *prometheus.CounterVec
	Calculations      prometheus.Counter
	Saves             *prometheus.CounterVec
	SnapshotsExported *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg. Collectors already
// registered on reg are reused, so calling New twice with one registry is safe.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		ItemMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_mutations_total",
			Help:      "Ledger item additions, label edits and deletions.",
		}, []string{"kind", "op"}),
		Calculations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Number of split summaries computed.",
		}),
		Saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_saves_total",
			Help:      "Ledger saves by result.",
		}, []string{"result"}),
		SnapshotsExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_exported_total",
			Help:      "Saved snapshots exported by the worker, by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"method", "route"}),
	}

	m.ItemMutations = register(reg, m.ItemMutations)
	m.Calculations = register(reg, m.Calculations)
	m.Saves = register(reg, m.Saves)
	m.SnapshotsExported = register(reg, m.SnapshotsExported)
	m.HTTPRequests = register(reg, m.HTTPRequests)
	m.HTTPDuration = register(reg, m.HTTPDuration)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (m *Metrics) ObserveMutation(kind, op string) {
	if m == nil {
		return
	}
	m.ItemMutations.WithLabelValues(kind, op).Inc()
}

func (m *Metrics) ObserveCalculation() {
	if m == nil {
		return
	}
	m.Calculations.Inc()
}

func (m *Metrics) ObserveSave(err error) {
	if m == nil {
		return
	}
	m.Saves.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) ObserveExport(err error) {
	if m == nil {
		return
	}
	m.SnapshotsExported.WithLabelValues(result(err)).Inc()
}

// ObserveHTTP records one request. route is the router pattern, not the raw
// path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(float64(d) / float64(time.Millisecond))
}

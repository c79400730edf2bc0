// Package metrics exposes Prometheus metrics for ingestion runs and the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	RunCompleted = "completed"
	RunSkipped   = "skipped"
	RunFailed    = "failed"

	OutcomeNew     = "new"
	OutcomeUpdated = "updated"
	OutcomeFailed  = "failed"
)

// Manager owns a registry and the collectors registered on it.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	upserts       *prometheus.CounterVec
	deleted       prometheus.Counter
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

type Option func(*Manager)

func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "lankaevents",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scraping",
		Name:      "runs_total",
		Help:      "Ingestion runs by result",
	}, []string{"result"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "scraping",
		Name:      "run_duration_seconds",
		Help:      "Duration of completed ingestion runs",
		Buckets:   prometheus.DefBuckets,
	})

	m.upserts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scraping",
		Name:      "events_upserted_total",
		Help:      "Candidate events persisted, by source and outcome",
	}, []string{"source", "outcome"})

	m.deleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scraping",
		Name:      "events_deleted_total",
		Help:      "Events removed by cleanup",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpDurations = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})

	return m
}

func (m *Manager) Registry() *prometheus.Registry { return m.registry }

func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) RecordRun(result string, d time.Duration) {
	m.runs.WithLabelValues(result).Inc()
	if result == RunCompleted {
		m.runDuration.Observe(d.Seconds())
	}
}

func (m *Manager) RecordUpserts(source string, created, updated, failed int) {
	m.upserts.WithLabelValues(source, OutcomeNew).Add(float64(created))
	m.upserts.WithLabelValues(source, OutcomeUpdated).Add(float64(updated))
	m.upserts.WithLabelValues(source, OutcomeFailed).Add(float64(failed))
}

func (m *Manager) RecordDeleted(n int64) {
	m.deleted.Add(float64(n))
}

func (m *Manager) RecordHTTPRequest(endpoint, method, status string, d time.Duration) {
	m.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	m.httpDurations.WithLabelValues(endpoint, method).Observe(d.Seconds())
}

// Runs returns the counter for one run result.
func (m *Manager) Runs(result string) prometheus.Counter {
	return m.runs.WithLabelValues(result)
}

func (m *Manager) Upserts(source, outcome string) prometheus.Counter {
	return m.upserts.WithLabelValues(source, outcome)
}

func (m *Manager) HTTPRequests(endpoint, method, status string) prometheus.Counter {
	return m.httpRequests.WithLabelValues(endpoint, method, status)
}

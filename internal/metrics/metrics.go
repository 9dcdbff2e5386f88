// Package metrics collects Prometheus metrics for audits, quotes and exports.
//
// Each Metrics owns a private registry so servers and tests never collide on
// the process-wide default registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aeocheck"

// Outcome labels.
const (
	OutcomeOK             = "ok"
	OutcomeFailed         = "failed"
	OutcomeAnalysisFailed = "analysis_failed"
	OutcomeUnavailable    = "unavailable"
	OutcomeRejected       = "rejected"
)

type Metrics struct {
	registry *prometheus.Registry

	audits        *prometheus.CounterVec
	auditDuration prometheus.Histogram
	inFlight      prometheus.Gauge
	quotes        *prometheus.CounterVec
	quoteTotal    prometheus.Histogram
	failingChecks *prometheus.CounterVec
	exports       *prometheus.CounterVec
	archives      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.audits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audits_total",
		Help:      "Audit submissions by outcome.",
	}, []string{"outcome"})

	m.auditDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_duration_seconds",
		Help:      "Time spent waiting for the audit backend.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
	})

	m.inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audits_in_flight",
		Help:      "Audit submissions currently waiting on the backend.",
	})

	m.quotes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_total",
		Help:      "Quotes built, by state (clean or itemized).",
	}, []string{"state"})

	m.quoteTotal = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "quote_total_krw",
		Help:      "Total of itemized quotes in KRW.",
		Buckets:   []float64{200000, 300000, 500000, 750000, 1000000, 1500000, 2000000, 3000000},
	})

	m.failingChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failing_checks_total",
		Help:      "Failing checks seen in audit reports, by check title.",
	}, []string{"title"})

	m.exports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "PDF exports by outcome.",
	}, []string{"outcome"})

	m.archives = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "archives_total",
		Help:      "Report uploads to object storage by outcome.",
	}, []string{"outcome"})

	m.registry.MustRegister(
		m.audits,
		m.auditDuration,
		m.inFlight,
		m.quotes,
		m.quoteTotal,
		m.failingChecks,
		m.exports,
		m.archives,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// StartAudit marks a submission in flight. The returned func records its
// outcome and duration.
func (m *Metrics) StartAudit() func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	start := time.Now()
	m.inFlight.Inc()
	return func(outcome string) {
		m.inFlight.Dec()
		m.auditDuration.Observe(time.Since(start).Seconds())
		m.audits.WithLabelValues(outcome).Inc()
	}
}

// ObserveQuote records a built quote and the priced titles that failed.
// Titles become label values, so they must come from the catalog.
func (m *Metrics) ObserveQuote(clean bool, total int64, pricedTitles []string) {
	if m == nil {
		return
	}
	for _, t := range pricedTitles {
		m.failingChecks.WithLabelValues(t).Inc()
	}
	if clean {
		m.quotes.WithLabelValues("clean").Inc()
		return
	}
	m.quotes.WithLabelValues("itemized").Inc()
	m.quoteTotal.Observe(float64(total))
}

func (m *Metrics) ObserveExport(outcome string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveArchive(outcome string) {
	if m == nil {
		return
	}
	m.archives.WithLabelValues(outcome).Inc()
}

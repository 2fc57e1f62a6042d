// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics holds the Prometheus collectors for search, aggregation
// and verification. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Failure reasons for ProviderFailures.
const (
	ReasonProviderError = "provider_error"
	ReasonNoDomains     = "no_domains"
)

// Drop reasons for DroppedResults.
const (
	DropUncategorized = "uncategorized"
	DropOffCategory   = "off_category"
)

// Metrics tracks search volume, degraded searches and verdict outcomes.
type Metrics struct {
	Searches         *prometheus.CounterVec
	ProviderFailures *prometheus.CounterVec
	DroppedResults   *prometheus.CounterVec
	Verdicts         *prometheus.CounterVec
	SearchDuration   *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers all collectors with reg. Pass prometheus.NewRegistry() in
// tests; callers that want the process collectors too should use NewDefault.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credible_research_searches_total",
			Help: "Searches issued, by operation",
		}, []string{"op"}),
		ProviderFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credible_research_provider_failures_total",
			Help: "Domain-filtered searches that degraded to an empty result, by reason",
		}, []string{"reason"}),
		DroppedResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credible_research_dropped_results_total",
			Help: "Raw hits discarded during credibility filtering, by reason",
		}, []string{"reason"}),
		Verdicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credible_research_verdicts_total",
			Help: "Claim verification verdicts, by status",
		}, []string{"status"}),
		SearchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "credible_research_search_duration_seconds",
			Help:    "Wall time of search operations",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"op"}),
		gatherer: reg,
	}
}

// NewDefault builds Metrics on a fresh registry that also carries the Go
// runtime and process collectors.
func NewDefault() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return New(reg)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveSearch counts one op and records its duration since start.
func (m *Metrics) ObserveSearch(op string, start time.Time) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(op).Inc()
	m.SearchDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// ProviderFailure records a degraded search.
func (m *Metrics) ProviderFailure(reason string) {
	if m == nil {
		return
	}
	m.ProviderFailures.WithLabelValues(reason).Inc()
}

// Dropped records n discarded hits.
func (m *Metrics) Dropped(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.DroppedResults.WithLabelValues(reason).Add(float64(n))
}

// Verdict records one verification outcome.
func (m *Metrics) Verdict(status string) {
	if m == nil {
		return
	}
	m.Verdicts.WithLabelValues(status).Inc()
}

// Package telemetry provides OpenTelemetry instrumentation for the
// pain-signal service. It exports Prometheus metrics and provides tracing
// capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "painsignal"

// Metrics holds all pain-signal Prometheus metrics
type Metrics struct {
	// Scoring metrics
	SignalsScored   *prometheus.CounterVec
	ScoringDuration prometheus.Histogram
	BatchSize       prometheus.Histogram
	IntensityTotal  *prometheus.CounterVec

	// Context filter metrics
	NegativeContextTotal prometheus.Counter
	WTPExclusionTotal    prometheus.Counter

	// Embedding collaborator metrics
	EmbeddingRequests     *prometheus.CounterVec
	EmbeddingDuration     prometheus.Histogram
	EmbeddingItemFailures prometheus.Counter

	// Semantic stage metrics
	PraiseFiltered prometheus.Counter
	CategoryTotal  *prometheus.CounterVec

	// Worker pool metrics
	ActiveWorkers prometheus.Gauge
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initScoringMetrics(m)
	initFilterMetrics(m)
	initEmbeddingMetrics(m)
	initSemanticMetrics(m)
	initWorkerMetrics(m)
	return m
}

func initScoringMetrics(m *Metrics) {
	m.SignalsScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "painsignal_signals_scored_total",
		Help: "Total fragments scored, by source",
	}, []string{"source"})

	m.ScoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "painsignal_scoring_duration_seconds",
		Help:    "Time to score a single fragment",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	m.BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "painsignal_batch_size",
		Help:    "Number of fragments per batch",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 200, 500},
	})

	m.IntensityTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "painsignal_intensity_total",
		Help: "Signals by derived intensity bucket (low, medium, high)",
	}, []string{"intensity"})
}

func initFilterMetrics(m *Metrics) {
	m.NegativeContextTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "painsignal_negative_context_total",
		Help: "Fragments where a negative-context pattern matched",
	})

	m.WTPExclusionTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "painsignal_wtp_exclusion_total",
		Help: "Fragments where a WTP exclusion pattern matched",
	})
}

func initEmbeddingMetrics(m *Metrics) {
	m.EmbeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "painsignal_embedding_requests_total",
		Help: "Embedding collaborator round trips, by outcome",
	}, []string{"outcome"})

	m.EmbeddingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "painsignal_embedding_duration_seconds",
		Help:    "Embedding request round-trip time",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	})

	m.EmbeddingItemFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "painsignal_embedding_item_failures_total",
		Help: "Per-item null embeddings handled fail-open",
	})
}

func initSemanticMetrics(m *Metrics) {
	m.PraiseFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "painsignal_praise_filtered_total",
		Help: "Fragments dropped by the praise filter",
	})

	m.CategoryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "painsignal_category_total",
		Help: "Signals by semantic category",
	}, []string{"category"})
}

func initWorkerMetrics(m *Metrics) {
	m.ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "painsignal_active_workers",
		Help: "Currently active scoring worker goroutines",
	})
}

// RecordScoring records metrics for a single scored fragment
func (p *Provider) RecordScoring(ctx context.Context, source, intensity string, duration time.Duration) {
	p.Metrics.SignalsScored.WithLabelValues(source).Inc()
	p.Metrics.IntensityTotal.WithLabelValues(intensity).Inc()
	p.Metrics.ScoringDuration.Observe(duration.Seconds())
}

// RecordContextFlags records context-filter hits for one fragment
func (p *Provider) RecordContextFlags(negativeContext, wtpExclusion bool) {
	if negativeContext {
		p.Metrics.NegativeContextTotal.Inc()
	}
	if wtpExclusion {
		p.Metrics.WTPExclusionTotal.Inc()
	}
}

// RecordEmbeddingRequest records one embedding round trip
func (p *Provider) RecordEmbeddingRequest(duration time.Duration, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	p.Metrics.EmbeddingRequests.WithLabelValues(outcome).Inc()
	p.Metrics.EmbeddingDuration.Observe(duration.Seconds())
}

// RecordEmbeddingItemFailures records per-item nulls handled fail-open
func (p *Provider) RecordEmbeddingItemFailures(count int) {
	if count > 0 {
		p.Metrics.EmbeddingItemFailures.Add(float64(count))
	}
}

// RecordPraiseFiltered records a fragment dropped as praise
func (p *Provider) RecordPraiseFiltered() {
	p.Metrics.PraiseFiltered.Inc()
}

// RecordCategory records a semantic category assignment
func (p *Provider) RecordCategory(category string) {
	if category == "" {
		category = "unknown"
	}
	p.Metrics.CategoryTotal.WithLabelValues(category).Inc()
}

// RecordBatchSize records the size of a processed batch
func (p *Provider) RecordBatchSize(size int) {
	p.Metrics.BatchSize.Observe(float64(size))
}

// SetActiveWorkers sets the current active worker count
func (p *Provider) SetActiveWorkers(count int) {
	p.Metrics.ActiveWorkers.Set(float64(count))
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

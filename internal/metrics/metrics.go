package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the health engine.
type Metrics struct {
	// Scoring metrics
	HealthComputations *prometheus.CounterVec
	HealthLatency      *prometheus.HistogramVec
	HealthScore        *prometheus.GaugeVec
	HealthStatus       *prometheus.GaugeVec
	OverspendRisk      *prometheus.GaugeVec

	// Ingest metrics
	RowsIngested     *prometheus.CounterVec
	IngestErrors     *prometheus.CounterVec
	TermsUpserted    prometheus.Counter
	UnmatchedTerms   *prometheus.CounterVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// System metrics
	KnownCampaigns prometheus.Gauge
	DBConnections  *prometheus.GaugeVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

var (
	// DefaultMetrics is the global metrics instance
	DefaultMetrics *Metrics
)

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		// Scoring metrics
		HealthComputations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "health_computations_total",
				Help:      "Total health score computations",
			},
			[]string{"confidence", "status"},
		),
		HealthLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "health_latency_seconds",
				Help:      "Health score computation latency in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"source"}, // cache, computed
		),
		HealthScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "health_score",
				Help:      "Latest composite health score per campaign",
			},
			[]string{"campaign"},
		),
		HealthStatus: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "health_status",
				Help:      "Campaign status as 1 for the active band, 0 otherwise",
			},
			[]string{"campaign", "status"},
		),
		OverspendRisk: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "projected_overspend_dollars",
				Help:      "Projected spend beyond contracted budget",
			},
			[]string{"campaign"},
		),

		// Ingest metrics
		RowsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_ingested_total",
				Help:      "Delivery rows accepted into the store",
			},
			[]string{"format"}, // csv, json
		),
		IngestErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_errors_total",
				Help:      "Ingest requests rejected",
			},
			[]string{"reason"},
		),
		TermsUpserted: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "contract_terms_upserted_total",
				Help:      "Contract terms records written",
			},
		),
		UnmatchedTerms: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unmatched_terms_total",
				Help:      "Health computations that found no contract terms",
			},
			[]string{"campaign"},
		),

		// Cache metrics
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Health cache hits",
			},
			[]string{"kind"},
		),
		CacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Health cache misses",
			},
			[]string{"kind"},
		),

		// System metrics
		KnownCampaigns: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "known_campaigns",
				Help:      "Number of campaigns with delivery rows on file",
			},
		),
		DBConnections: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections",
				Help:      "Database connection pool stats",
			},
			[]string{"state"}, // idle, in_use, total
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Rate limit rejections",
			},
			[]string{"endpoint", "ip"},
		),
	}

	DefaultMetrics = m
	return m
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHealthComputation records a completed health score computation.
func (m *Metrics) RecordHealthComputation(campaign, confidence, status string, score float64, latency time.Duration) {
	m.HealthComputations.WithLabelValues(confidence, status).Inc()
	m.HealthLatency.WithLabelValues("computed").Observe(latency.Seconds())
	m.HealthScore.WithLabelValues(campaign).Set(score)
	for _, s := range []string{"healthy", "warning", "critical", "no-data"} {
		v := 0.0
		if s == status {
			v = 1.0
		}
		m.HealthStatus.WithLabelValues(campaign, s).Set(v)
	}
}

// RecordOverspend records the projected overspend for a campaign.
func (m *Metrics) RecordOverspend(campaign string, overspend float64) {
	m.OverspendRisk.WithLabelValues(campaign).Set(overspend)
}

// RecordRowsIngested records accepted delivery rows.
func (m *Metrics) RecordRowsIngested(format string, count int) {
	m.RowsIngested.WithLabelValues(format).Add(float64(count))
}

// RecordIngestError records a rejected ingest request.
func (m *Metrics) RecordIngestError(reason string) {
	m.IngestErrors.WithLabelValues(reason).Inc()
}

// RecordTermsUpserted records written contract terms.
func (m *Metrics) RecordTermsUpserted(count int) {
	m.TermsUpserted.Add(float64(count))
}

// RecordUnmatchedTerms records a health computation with no contract on file.
func (m *Metrics) RecordUnmatchedTerms(campaign string) {
	m.UnmatchedTerms.WithLabelValues(campaign).Inc()
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit(kind string, latency time.Duration) {
	m.CacheHits.WithLabelValues(kind).Inc()
	m.HealthLatency.WithLabelValues("cache").Observe(latency.Seconds())
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss(kind string) {
	m.CacheMisses.WithLabelValues(kind).Inc()
}

// UpdateKnownCampaigns updates the known campaign count.
func (m *Metrics) UpdateKnownCampaigns(n int) {
	m.KnownCampaigns.Set(float64(n))
}

// UpdateDBStats updates database connection metrics.
func (m *Metrics) UpdateDBStats(idle, inUse, total int) {
	m.DBConnections.WithLabelValues("idle").Set(float64(idle))
	m.DBConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.DBConnections.WithLabelValues("total").Set(float64(total))
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(endpoint, ip string) {
	m.RateLimitHits.WithLabelValues(endpoint, ip).Inc()
}

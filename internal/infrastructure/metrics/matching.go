// Package metrics содержит Prometheus-метрики сервиса.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// MatchingMetrics собирает метрики подбора товаров и обработки сканов.
type MatchingMetrics struct {
	rankingsTotal      *prometheus.CounterVec
	rankingDuration    *prometheus.HistogramVec
	candidatesPerQuery *prometheus.HistogramVec
	catalogCache       *prometheus.CounterVec
	scansTotal         *prometheus.CounterVec
}

func NewMatchingMetrics(registry *prometheus.Registry) (*MatchingMetrics, error) {
	m := &MatchingMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register matching metrics: %w", err)
	}
	return m, nil
}

func (m *MatchingMetrics) initMetrics() {
	m.rankingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roomscan_rankings_total",
		Help: "Total number of ranked item queries.",
	}, []string{"category", "budget_alternative"})

	m.rankingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roomscan_ranking_duration_seconds",
		Help:    "Time spent retrieving and ranking candidates for one item.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"category"})

	m.candidatesPerQuery = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roomscan_ranking_candidates",
		Help:    "Number of candidates considered per ranked item.",
		Buckets: prometheus.LinearBuckets(0, 5, 10),
	}, []string{"category"})

	m.catalogCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roomscan_catalog_cache_requests_total",
		Help: "Catalog cache lookups by result.",
	}, []string{"result"})

	m.scansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roomscan_scans_total",
		Help: "Processed scans by final status.",
	}, []string{"status"})
}

func (m *MatchingMetrics) ObserveRanking(category string, candidates int, budget bool, took time.Duration) {
	m.rankingsTotal.WithLabelValues(category, strconv.FormatBool(budget)).Inc()
	m.rankingDuration.WithLabelValues(category).Observe(took.Seconds())
	m.candidatesPerQuery.WithLabelValues(category).Observe(float64(candidates))
}

func (m *MatchingMetrics) IncCatalogCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.catalogCache.WithLabelValues(result).Inc()
}

func (m *MatchingMetrics) IncScan(status domain.ScanStatus) {
	m.scansTotal.WithLabelValues(string(status)).Inc()
}

// Collect реализует prometheus.Collector.
func (m *MatchingMetrics) Collect(ch chan<- prometheus.Metric) {
	m.rankingsTotal.Collect(ch)
	m.rankingDuration.Collect(ch)
	m.candidatesPerQuery.Collect(ch)
	m.catalogCache.Collect(ch)
	m.scansTotal.Collect(ch)
}

// Describe реализует prometheus.Collector.
func (m *MatchingMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.rankingsTotal.Describe(ch)
	m.rankingDuration.Describe(ch)
	m.candidatesPerQuery.Describe(ch)
	m.catalogCache.Describe(ch)
	m.scansTotal.Describe(ch)
}

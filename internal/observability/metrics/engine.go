package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

// EngineMetrics observes initialize and search calls on the résumé engine.
type EngineMetrics struct {
	service string

	initializeTotal    *prometheus.CounterVec
	initializeDuration *prometheus.HistogramVec
	searchTotal        *prometheus.CounterVec
	searchDuration     *prometheus.HistogramVec
	answerConfidence   *prometheus.HistogramVec
}

func NewEngineMetrics(service string, registerer prometheus.Registerer) *EngineMetrics {
	initializeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "initialize_total",
			Help:      "Total initialize calls by status and cache outcome.",
		},
		[]string{"service", "status", "cache"},
	)
	initializeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "initialize_duration_seconds",
			Help:      "Initialize duration in seconds by cache outcome.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"service", "cache"},
	)
	searchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "search_total",
			Help:      "Total search calls by status and whether the answer cites chunks.",
		},
		[]string{"service", "status", "grounded"},
	)
	searchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	answerConfidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "answer_confidence",
			Help:      "Distribution of answer confidence values.",
			Buckets:   []float64{0, 0.1, 0.2, 0.3, 0.48, 0.6, 0.7, 0.8, 0.9, 0.95, 1},
		},
		[]string{"service"},
	)

	registerer.MustRegister(initializeTotal, initializeDuration, searchTotal, searchDuration, answerConfidence)

	return &EngineMetrics{
		service:            service,
		initializeTotal:    initializeTotal,
		initializeDuration: initializeDuration,
		searchTotal:        searchTotal,
		searchDuration:     searchDuration,
		answerConfidence:   answerConfidence,
	}
}

func (m *EngineMetrics) ObserveInitialize(duration time.Duration, cacheHit bool, err error) {
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	m.initializeTotal.WithLabelValues(m.service, statusLabel(err), cache).Inc()
	if err == nil {
		m.initializeDuration.WithLabelValues(m.service, cache).Observe(duration.Seconds())
	}
}

func (m *EngineMetrics) ObserveSearch(duration time.Duration, answer *domain.Answer, err error) {
	status := statusLabel(err)
	grounded := "false"
	if answer != nil && len(answer.Citations) > 0 {
		grounded = "true"
	}
	m.searchTotal.WithLabelValues(m.service, status, grounded).Inc()
	m.searchDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
	if answer != nil {
		m.answerConfidence.WithLabelValues(m.service).Observe(float64(answer.Confidence))
	}
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

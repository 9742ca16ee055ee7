// Package metrics provides Prometheus metrics export for the product agent.
package metrics

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feeleurope/luxeagent/ai/cache"
	"github.com/feeleurope/luxeagent/ai/core/llm"
	"github.com/feeleurope/luxeagent/store"
)

const namespace = "luxeagent"

// PrometheusExporter exports agent metrics in Prometheus format.
type PrometheusExporter struct {
	registry *prometheus.Registry

	// Agent metrics
	agentRequests *prometheus.CounterVec
	agentLatency  *prometheus.HistogramVec
	agentActive   prometheus.Gauge

	// Collaborator degradation
	collaboratorFailures *prometheus.CounterVec

	// LLM metrics
	llmCalls        *prometheus.CounterVec
	llmTokensUsed   *prometheus.CounterVec
	llmTokensCached *prometheus.CounterVec
	llmLatency      *prometheus.HistogramVec

	// Catalog metrics
	catalogRecords     prometheus.Gauge
	catalogUnmapped    prometheus.Counter
	catalogLoadedAt    prometheus.Gauge
	catalogLoadLatency prometheus.Histogram

	mu     sync.Mutex
	caches map[string]bool
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{
		registry: registry,
		caches:   make(map[string]bool),
	}

	e.agentRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "requests_total",
			Help:      "Total number of agent requests",
		},
		[]string{"intent", "status"},
	)

	e.agentLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "latency_seconds",
			Help:      "Agent request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"intent"},
	)

	e.agentActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "active",
			Help:      "Number of agent requests in flight",
		},
	)

	e.collaboratorFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "collaborator_failures_total",
			Help:      "Collaborator calls that failed and fell back to templates",
		},
		[]string{"collaborator"},
	)

	e.llmCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total number of LLM calls",
		},
		[]string{"purpose", "status"},
	)

	e.llmTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"model", "token_type"},
	)

	e.llmTokensCached = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_cached_total",
			Help:      "Total LLM prompt tokens served from provider cache",
		},
		[]string{"model"},
	)

	e.llmLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "LLM request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"model", "purpose"},
	)

	e.catalogRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "records",
			Help:      "Records in the current catalog snapshot",
		},
	)

	e.catalogUnmapped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "unmapped_families_total",
			Help:      "Famille values that matched no table entry or rule",
		},
	)

	e.catalogLoadedAt = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "loaded_timestamp_seconds",
			Help:      "Unix time of the last successful catalog load",
		},
	)

	e.catalogLoadLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "load_seconds",
			Help:      "Catalog load duration in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
	)

	registry.MustRegister(
		e.agentRequests,
		e.agentLatency,
		e.agentActive,
		e.collaboratorFailures,
		e.llmCalls,
		e.llmTokensUsed,
		e.llmTokensCached,
		e.llmLatency,
		e.catalogRecords,
		e.catalogUnmapped,
		e.catalogLoadedAt,
		e.catalogLoadLatency,
	)

	return e
}

// RecordAgentRequest records one dispatched query.
func (e *PrometheusExporter) RecordAgentRequest(intent string, latency time.Duration, matched bool) {
	status := "unmatched"
	if matched {
		status = "matched"
	}
	e.agentRequests.WithLabelValues(intent, status).Inc()
	e.agentLatency.WithLabelValues(intent).Observe(latency.Seconds())
}

// TrackActive increments the in-flight gauge and returns its decrement.
func (e *PrometheusExporter) TrackActive() func() {
	e.agentActive.Inc()
	return e.agentActive.Dec
}

// RecordCollaboratorFailure records a classifier, responder or search failure.
func (e *PrometheusExporter) RecordCollaboratorFailure(collaborator string) {
	e.collaboratorFailures.WithLabelValues(collaborator).Inc()
}

// RecordLLMCall implements llm.Recorder.
func (e *PrometheusExporter) RecordLLMCall(purpose string, stats *llm.CallStats, err error) {
	if err != nil || stats == nil {
		e.llmCalls.WithLabelValues(purpose, "error").Inc()
		return
	}
	e.llmCalls.WithLabelValues(purpose, "success").Inc()
	e.llmTokensUsed.WithLabelValues(stats.Model, "prompt").Add(float64(stats.PromptTokens))
	e.llmTokensUsed.WithLabelValues(stats.Model, "completion").Add(float64(stats.CompletionTokens))
	if stats.CacheReadTokens > 0 {
		e.llmTokensCached.WithLabelValues(stats.Model).Add(float64(stats.CacheReadTokens))
	}
	e.llmLatency.WithLabelValues(stats.Model, purpose).Observe(float64(stats.TotalDurationMs) / 1000)
}

// RecordCatalogLoad records a successful catalog reload.
func (e *PrometheusExporter) RecordCatalogLoad(stats store.LoadStats) {
	e.catalogRecords.Set(float64(stats.Records))
	e.catalogUnmapped.Add(float64(stats.UnmappedFamilies))
	e.catalogLoadedAt.SetToCurrentTime()
	e.catalogLoadLatency.Observe(stats.Duration.Seconds())
}

// RegisterCache exposes hit, miss and size figures of a cache. The stats
// function is called on every scrape. Registering a name twice is a no-op.
func (e *PrometheusExporter) RegisterCache(name string, stats func() cache.Stats) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.caches[name] {
		return
	}

	labels := prometheus.Labels{"cache": name}
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "cache",
			Name:        "hits_total",
			Help:        "Total number of cache hits",
			ConstLabels: labels,
		}, func() float64 { return float64(stats().Hits) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "cache",
			Name:        "misses_total",
			Help:        "Total number of cache misses",
			ConstLabels: labels,
		}, func() float64 { return float64(stats().Misses) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "cache",
			Name:        "entries",
			Help:        "Current number of cache entries",
			ConstLabels: labels,
		}, func() float64 { return float64(stats().Size) }),
	}
	for _, c := range collectors {
		if err := e.registry.Register(c); err != nil {
			slog.Warn("failed to register cache metric", "cache", name, "error", err)
		}
	}
	e.caches[name] = true
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// ServeHTTP implements http.Handler for the metrics endpoint.
func (e *PrometheusExporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.Handler().ServeHTTP(w, r)
}

// GetRegistry returns the Prometheus registry.
func (e *PrometheusExporter) GetRegistry() *prometheus.Registry {
	return e.registry
}

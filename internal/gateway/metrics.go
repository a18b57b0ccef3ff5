package gateway

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics tracks gateway-level counters using atomic operations for lock-free
// concurrency, and mirrors them into a Prometheus registry for /metrics.
type Metrics struct {
	analyses     atomic.Int64
	chats        atomic.Int64
	feedbacks    atomic.Int64
	errors       atomic.Int64
	totalLatency atomic.Int64 // nanoseconds, across analyses

	registry     *prometheus.Registry
	promAnalyses prometheus.Counter
	promChats    prometheus.Counter
	promErrors   prometheus.Counter
	promLatency  prometheus.Histogram
}

// NewMetrics creates a Metrics with its own Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		promAnalyses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attune_analyses_total",
			Help: "Number of multimodal analyses performed.",
		}),
		promChats: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attune_chat_messages_total",
			Help: "Number of chat messages processed.",
		}),
		promErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attune_request_errors_total",
			Help: "Number of failed API requests.",
		}),
		promLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "attune_analysis_duration_seconds",
			Help:    "Latency of analysis requests.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		m.promAnalyses,
		m.promChats,
		m.promErrors,
		m.promLatency,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the Prometheus registry backing /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordAnalysis records a completed analysis and its latency.
func (m *Metrics) RecordAnalysis(latency time.Duration) {
	m.analyses.Add(1)
	m.totalLatency.Add(int64(latency))
	m.promAnalyses.Inc()
	m.promLatency.Observe(latency.Seconds())
}

// RecordChat records a processed chat message.
func (m *Metrics) RecordChat() {
	m.chats.Add(1)
	m.promChats.Inc()
}

// RecordFeedback records a processed feedback submission.
func (m *Metrics) RecordFeedback() {
	m.feedbacks.Add(1)
}

// RecordError records a failed request.
func (m *Metrics) RecordError() {
	m.errors.Add(1)
	m.promErrors.Inc()
}

// Snapshot returns a consistent point-in-time view of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	analyses := m.analyses.Load()
	snap := MetricsSnapshot{
		Analyses:  analyses,
		Chats:     m.chats.Load(),
		Feedbacks: m.feedbacks.Load(),
		Errors:    m.errors.Load(),
	}
	if analyses > 0 {
		snap.AvgAnalysisLatency = time.Duration(m.totalLatency.Load() / analyses)
	}
	return snap
}

// MetricsSnapshot is a serializable point-in-time metrics view.
type MetricsSnapshot struct {
	Analyses           int64         `json:"analyses"`
	Chats              int64         `json:"chats"`
	Feedbacks          int64         `json:"feedbacks"`
	Errors             int64         `json:"errors"`
	AvgAnalysisLatency time.Duration `json:"avg_analysis_latency_ns"`
}

// Package syncmetrics exposes the analysis core's activity as Prometheus
// metrics: a struct of vectors constructed once against a registry, with
// Record* methods called from the orchestrator. Never required by the
// core's public API.
package syncmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/syncalign/core/internal/syncdrift"
)

// AnalysisMetrics is the full set of Prometheus collectors the analysis
// core reports to when a caller opts in.
type AnalysisMetrics struct {
	chunksAccepted        *prometheus.CounterVec
	chunksRejected        *prometheus.CounterVec
	selectorFailures      *prometheus.CounterVec
	driftDetections       *prometheus.CounterVec
	videoVerifiedOutcomes *prometheus.CounterVec
	chunkMatchPct         *prometheus.HistogramVec
}

// NewAnalysisMetrics registers every collector against registry and
// returns the struct, the same construction pattern
// internal/observability/metrics uses for BirdNET-Go's detection
// counters.
func NewAnalysisMetrics(registry *prometheus.Registry) (*AnalysisMetrics, error) {
	m := &AnalysisMetrics{
		chunksAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syncalign",
			Subsystem: "analysis",
			Name:      "chunks_accepted_total",
			Help:      "Total chunks accepted by the acceptance gate, by correlation method and source.",
		}, []string{"method", "source"}),
		chunksRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syncalign",
			Subsystem: "analysis",
			Name:      "chunks_rejected_total",
			Help:      "Total chunks rejected, by correlation method, source, and reason.",
		}, []string{"method", "source", "reason"}),
		selectorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syncalign",
			Subsystem: "analysis",
			Name:      "selector_failures_total",
			Help:      "Total delay-selector failures, by correlation method and source.",
		}, []string{"method", "source"}),
		driftDetections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syncalign",
			Subsystem: "analysis",
			Name:      "drift_diagnoses_total",
			Help:      "Total drift diagnoses, by correlation method, source, and drift kind.",
		}, []string{"method", "source", "kind"}),
		videoVerifiedOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syncalign",
			Subsystem: "video_verified",
			Name:      "outcomes_total",
			Help:      "Total video-verified refinement outcomes, by stable reason code.",
		}, []string{"reason"}),
		chunkMatchPct: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "syncalign",
			Subsystem: "analysis",
			Name:      "chunk_match_pct",
			Help:      "Distribution of per-chunk match percentages.",
			Buckets:   []float64{5, 10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 100},
		}, []string{"method"}),
	}

	collectors := []prometheus.Collector{
		m.chunksAccepted, m.chunksRejected, m.selectorFailures,
		m.driftDetections, m.videoVerifiedOutcomes, m.chunkMatchPct,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordChunkAccepted implements syncengine.MetricsRecorder.
func (m *AnalysisMetrics) RecordChunkAccepted(method, source string) {
	m.chunksAccepted.WithLabelValues(method, source).Inc()
}

// RecordChunkRejected implements syncengine.MetricsRecorder.
func (m *AnalysisMetrics) RecordChunkRejected(method, source, reason string) {
	m.chunksRejected.WithLabelValues(method, source, reason).Inc()
}

// RecordSelectorFailure implements syncengine.MetricsRecorder.
func (m *AnalysisMetrics) RecordSelectorFailure(method, source string) {
	m.selectorFailures.WithLabelValues(method, source).Inc()
}

// RecordDrift implements syncengine.MetricsRecorder.
func (m *AnalysisMetrics) RecordDrift(method, source string, kind syncdrift.DriftKind) {
	m.driftDetections.WithLabelValues(method, source, string(kind)).Inc()
}

// RecordVideoVerifiedOutcome implements syncengine.MetricsRecorder.
func (m *AnalysisMetrics) RecordVideoVerifiedOutcome(reason string) {
	m.videoVerifiedOutcomes.WithLabelValues(reason).Inc()
}

// RecordChunkMatchPct records one chunk's match% for method, regardless of
// acceptance outcome.
func (m *AnalysisMetrics) RecordChunkMatchPct(method string, matchPct float64) {
	m.chunkMatchPct.WithLabelValues(method).Observe(matchPct)
}

package syncmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/syncalign/core/internal/syncdrift"
)

func TestAnalysisMetricsRecordsCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewAnalysisMetrics(registry)
	require.NoError(t, err)

	m.RecordChunkAccepted("scc", "Source1")
	m.RecordChunkRejected("scc", "Source1", "low match")
	m.RecordSelectorFailure("scc", "Source1")
	m.RecordDrift("scc", "Source1", syncdrift.DriftLinear)
	m.RecordVideoVerifiedOutcome("frame-matched")
	m.RecordChunkMatchPct("scc", 42.5)

	require.Equal(t, 1, testutil.CollectAndCount(m.chunksAccepted))
	require.Equal(t, 1, testutil.CollectAndCount(m.chunksRejected))
	require.Equal(t, 1, testutil.CollectAndCount(m.selectorFailures))
	require.Equal(t, 1, testutil.CollectAndCount(m.driftDetections))
	require.Equal(t, 1, testutil.CollectAndCount(m.videoVerifiedOutcomes))
	require.Equal(t, 1, testutil.CollectAndCount(m.chunkMatchPct))
}

func TestNewAnalysisMetricsFailsOnDuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewAnalysisMetrics(registry)
	require.NoError(t, err)

	_, err = NewAnalysisMetrics(registry)
	require.Error(t, err)
}

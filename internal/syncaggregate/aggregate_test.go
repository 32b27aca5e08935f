package syncaggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncalign/core/internal/syncconf"
)

func TestBuildRawDelaysAppliesContainerCorrectionUniformly(t *testing.T) {
	raw := map[string]float64{"scc": 10, "gcc_phat": 12, "whitened": 9}
	out := BuildRawDelays(raw, 5)
	assert.Equal(t, 15.0, out["scc"])
	assert.Equal(t, 17.0, out["gcc_phat"])
	assert.Equal(t, 14.0, out["whitened"])
}

func TestApplyGlobalShiftTwoNegativeSources(t *testing.T) {
	raw := map[string]float64{"Source2": -80, "Source3": 40}
	d := ApplyGlobalShift(raw, syncconf.SyncPositiveOnly)
	require.Equal(t, int64(80), d.GlobalShiftMs)
	assert.Equal(t, int64(80), d.SourceDelaysMs[ReferenceKey])
	assert.Equal(t, int64(0), d.SourceDelaysMs["Source2"])
	assert.Equal(t, int64(120), d.SourceDelaysMs["Source3"])
}

func TestApplyGlobalShiftNoShiftWhenAllNonNegative(t *testing.T) {
	raw := map[string]float64{"Source2": 10, "Source3": 40}
	d := ApplyGlobalShift(raw, syncconf.SyncPositiveOnly)
	assert.Equal(t, int64(0), d.GlobalShiftMs)
	assert.Equal(t, int64(10), d.SourceDelaysMs["Source2"])
	assert.Equal(t, int64(40), d.SourceDelaysMs["Source3"])
}

func TestApplyGlobalShiftAllowNegativeNeverShifts(t *testing.T) {
	raw := map[string]float64{"Source2": -80, "Source3": 40}
	d := ApplyGlobalShift(raw, syncconf.SyncAllowNegative)
	assert.Equal(t, int64(0), d.GlobalShiftMs)
	assert.Equal(t, int64(-80), d.SourceDelaysMs["Source2"])
	assert.Equal(t, int64(40), d.SourceDelaysMs["Source3"])
}

func TestApplyGlobalShiftIdempotentWhenMinAlreadyNonNegative(t *testing.T) {
	raw := map[string]float64{"Source2": 0, "Source3": 120}
	first := ApplyGlobalShift(raw, syncconf.SyncPositiveOnly)
	assert.Equal(t, int64(0), first.GlobalShiftMs)

	reapplied := make(map[string]float64, len(first.SourceDelaysMs))
	for k, v := range first.SourceDelaysMs {
		if k == ReferenceKey {
			continue
		}
		reapplied[k] = float64(v)
	}
	second := ApplyGlobalShift(reapplied, syncconf.SyncPositiveOnly)
	assert.Equal(t, first.SourceDelaysMs, second.SourceDelaysMs)
}

func TestApplyGlobalShiftRoundsFractionalDelays(t *testing.T) {
	raw := map[string]float64{"Source2": -79.6}
	d := ApplyGlobalShift(raw, syncconf.SyncPositiveOnly)
	assert.Equal(t, int64(80), d.GlobalShiftMs)
	assert.Equal(t, int64(0), d.SourceDelaysMs["Source2"])
}

func TestApplyGlobalShiftPreShiftSnapshotUnaffectedByShift(t *testing.T) {
	raw := map[string]float64{"Source2": -80, "Source3": 40}
	d := ApplyGlobalShift(raw, syncconf.SyncPositiveOnly)
	assert.Equal(t, -80.0, d.PreShiftDelaysMs["Source2"])
	assert.Equal(t, 40.0, d.PreShiftDelaysMs["Source3"])
}

func TestSortedSourceNamesExcludesReferenceAndSorts(t *testing.T) {
	raw := map[string]float64{"Source3": 0, "Source1": 0, "Source2": 0}
	d := ApplyGlobalShift(raw, syncconf.SyncAllowNegative)
	assert.Equal(t, []string{"Source1", "Source2", "Source3"}, d.SortedSourceNames())
}

func TestApplyGlobalShiftEmptyInput(t *testing.T) {
	d := ApplyGlobalShift(map[string]float64{}, syncconf.SyncPositiveOnly)
	assert.Equal(t, int64(0), d.GlobalShiftMs)
	assert.Equal(t, int64(0), d.SourceDelaysMs[ReferenceKey])
}

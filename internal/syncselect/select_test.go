package syncselect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncalign/core/internal/syncchunk"
	"github.com/syncalign/core/internal/syncconf"
)

func chunk(index int, delay, match float64) syncchunk.ChunkResult {
	return syncchunk.ChunkResult{
		Index:      index,
		Position:   time.Duration(index) * time.Second,
		DelayMsRaw: delay,
		MatchPct:   match,
		Accepted:   true,
	}
}

func TestSelectModePicksMostCommonRoundedValue(t *testing.T) {
	accepted := []syncchunk.ChunkResult{
		chunk(0, 42.0, 50), chunk(1, 42.2, 60), chunk(2, 10.0, 90), chunk(3, 41.8, 40),
	}
	cfg := syncconf.SelectorSettings{Mode: syncconf.SelectModeMode}
	sel, err := Select(accepted, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 42, sel.DelayMsRaw, 0.5)
}

func TestSelectModeTieBreaksOnMeanMatchPct(t *testing.T) {
	accepted := []syncchunk.ChunkResult{
		chunk(0, 10.0, 90), chunk(1, 20.0, 10),
	}
	cfg := syncconf.SelectorSettings{Mode: syncconf.SelectModeMode}
	sel, err := Select(accepted, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 10, sel.DelayMsRaw, 0.5)
}

func TestSelectClusteredGroupsNearbyValues(t *testing.T) {
	accepted := []syncchunk.ChunkResult{
		chunk(0, 42.0, 50), chunk(1, 42.9, 50), chunk(2, 41.2, 50), chunk(3, 10.0, 90),
	}
	cfg := syncconf.SelectorSettings{Mode: syncconf.SelectModeClustered}
	sel, err := Select(accepted, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 42, sel.DelayMsRaw, 1.5)
}

func TestSelectEarlyFailsBelowThreshold(t *testing.T) {
	accepted := []syncchunk.ChunkResult{
		chunk(0, 42.0, 50), chunk(1, 10.0, 90), chunk(2, 20.0, 90),
	}
	cfg := syncconf.SelectorSettings{Mode: syncconf.SelectModeEarly, EarlyClusterWindow: 3, EarlyClusterThreshold: 2}
	_, err := Select(accepted, cfg)
	assert.Error(t, err)
}

func TestSelectEarlySucceedsWithinWindow(t *testing.T) {
	accepted := []syncchunk.ChunkResult{
		chunk(0, 42.0, 50), chunk(1, 42.3, 50), chunk(2, 10.0, 90),
	}
	cfg := syncconf.SelectorSettings{Mode: syncconf.SelectModeEarly, EarlyClusterWindow: 2, EarlyClusterThreshold: 2}
	sel, err := Select(accepted, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 42, sel.DelayMsRaw, 1)
}

func TestSelectFirstStableFindsEarliestStableRun(t *testing.T) {
	accepted := []syncchunk.ChunkResult{
		chunk(0, 100.0, 50), chunk(1, 42.0, 50), chunk(2, 42.4, 50), chunk(3, 42.1, 50),
	}
	cfg := syncconf.SelectorSettings{Mode: syncconf.SelectModeFirstStable, FirstStableMinChunks: 3, FirstStableSkipUnstable: true, FirstStableOutlierToleranceMS: 1.0}
	sel, err := Select(accepted, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 42.17, sel.DelayMsRaw, 0.5)
}

func TestSelectFirstStableFailsWithoutRun(t *testing.T) {
	accepted := []syncchunk.ChunkResult{
		chunk(0, 1.0, 50), chunk(1, 40.0, 50), chunk(2, 80.0, 50),
	}
	cfg := syncconf.SelectorSettings{Mode: syncconf.SelectModeFirstStable, FirstStableMinChunks: 3, FirstStableSkipUnstable: true}
	_, err := Select(accepted, cfg)
	assert.Error(t, err)
}

func TestSelectFirstStableRejectsOutlierWhenNotSkipping(t *testing.T) {
	accepted := []syncchunk.ChunkResult{
		chunk(0, 100.0, 50), chunk(1, 42.0, 50), chunk(2, 42.4, 50), chunk(3, 42.1, 50),
	}
	cfg := syncconf.SelectorSettings{Mode: syncconf.SelectModeFirstStable, FirstStableMinChunks: 3, FirstStableSkipUnstable: false, FirstStableOutlierToleranceMS: 1.0}
	_, err := Select(accepted, cfg)
	assert.Error(t, err)
}

func TestSelectAverageOfAllAccepted(t *testing.T) {
	accepted := []syncchunk.ChunkResult{chunk(0, 10, 50), chunk(1, 20, 50), chunk(2, 30, 50)}
	cfg := syncconf.SelectorSettings{Mode: syncconf.SelectModeAverage}
	sel, err := Select(accepted, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 20, sel.DelayMsRaw, 1e-9)
}

func TestSelectFailsOnEmptyAccepted(t *testing.T) {
	cfg := syncconf.SelectorSettings{Mode: syncconf.SelectModeAverage}
	_, err := Select(nil, cfg)
	assert.Error(t, err)
}

func TestSelectAverageInvariantUnderReordering(t *testing.T) {
	a := []syncchunk.ChunkResult{chunk(0, 10, 50), chunk(1, 20, 50), chunk(2, 30, 50)}
	b := []syncchunk.ChunkResult{chunk(2, 30, 50), chunk(0, 10, 50), chunk(1, 20, 50)}
	cfg := syncconf.SelectorSettings{Mode: syncconf.SelectModeAverage}
	selA, err := Select(a, cfg)
	require.NoError(t, err)
	selB, err := Select(b, cfg)
	require.NoError(t, err)
	assert.Equal(t, selA.DelayMsRaw, selB.DelayMsRaw)
}

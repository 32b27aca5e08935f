package syncchunk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncalign/core/internal/syncaudio"
)

func TestPlanChunksSingleChunkAtMidpoint(t *testing.T) {
	plans := PlanChunks(120*time.Second, 1, 15, 5, 95)
	require.Len(t, plans, 1)

	d := 120.0
	t0 := d * 5 / 100
	t1 := d * 95 / 100
	usable := t1 - t0 - 15
	want := time.Duration((t0 + usable/2) * float64(time.Second))
	assert.Equal(t, want, plans[0].Position)
}

func TestPlanChunksUsableNonPositiveReturnsEmpty(t *testing.T) {
	plans := PlanChunks(10*time.Second, 5, 15, 5, 95)
	assert.Empty(t, plans)
}

func TestPlanChunksPositionsStrictlyIncreasing(t *testing.T) {
	plans := PlanChunks(120*time.Second, 5, 15, 5, 95)
	require.Len(t, plans, 5)
	for i := 1; i < len(plans); i++ {
		assert.Greater(t, plans[i].Position, plans[i-1].Position)
	}

	last := plans[len(plans)-1]
	endBound := time.Duration(120 * 95 / 100 * float64(time.Second))
	assert.LessOrEqual(t, last.Position+last.Duration, endBound+time.Millisecond)
}

func TestRequireValidPlanFailsOnEmptyPlan(t *testing.T) {
	_, err := RequireValidPlan(10*time.Second, 5, 15, 5, 95)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid chunk positions")
}

func TestExtractRejectsOutOfRangePosition(t *testing.T) {
	ref := &syncaudio.Data{Samples: make([]float64, 1600), Format: syncaudio.Format{SampleRate: 16000}}
	other := &syncaudio.Data{Samples: make([]float64, 1600), Format: syncaudio.Format{SampleRate: 16000}}

	_, reason := Extract(ref, other, Plan{Position: 5 * time.Second, Duration: time.Second})
	assert.Equal(t, RejectMissingRef, reason)
}

func TestExtractSucceedsWithinRange(t *testing.T) {
	samples := make([]float64, 32000)
	ref := &syncaudio.Data{Samples: samples, Format: syncaudio.Format{SampleRate: 16000}}
	other := &syncaudio.Data{Samples: samples, Format: syncaudio.Format{SampleRate: 16000}}

	pair, reason := Extract(ref, other, Plan{Position: time.Second, Duration: time.Second})
	require.Equal(t, RejectNone, reason)
	assert.Len(t, pair.Ref, 16000)
	assert.Len(t, pair.Other, 16000)
}

func TestIsSilentOrInvalid(t *testing.T) {
	assert.True(t, IsSilentOrInvalid(nil))
	assert.True(t, IsSilentOrInvalid(make([]float64, 100)))
	assert.False(t, IsSilentOrInvalid([]float64{0, 0, 0.1}))
}

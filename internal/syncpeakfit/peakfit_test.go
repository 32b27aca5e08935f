package syncpeakfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncalign/core/internal/synccorrelate"
)

func TestFitRefinesSymmetricPeak(t *testing.T) {
	raw := synccorrelate.CorrelationRaw{
		Method:     "scc",
		Lags:       []int{-1, 0, 1},
		Magnitudes: []float64{1.0, 3.0, 1.0},
		SampleRate: 1000,
	}
	result, err := Fit(raw)
	require.NoError(t, err)
	assert.InDelta(t, 0, result.DelayMsRaw, 1e-9)
}

func TestFitRefinesAsymmetricPeakTowardsLargerNeighbor(t *testing.T) {
	raw := synccorrelate.CorrelationRaw{
		Method:     "scc",
		Lags:       []int{4, 5, 6},
		Magnitudes: []float64{1.0, 3.0, 2.0},
		SampleRate: 1000,
	}
	result, err := Fit(raw)
	require.NoError(t, err)
	// Peak biased toward the larger right-neighbor sample shifts the
	// sub-sample estimate above the integer lag.
	assert.Greater(t, result.DelayMsRaw, 5.0)
}

func TestFitFallsBackAtEdge(t *testing.T) {
	raw := synccorrelate.CorrelationRaw{
		Method:     "scc",
		Lags:       []int{0, 1, 2},
		Magnitudes: []float64{9.0, 1.0, 0.5},
		SampleRate: 1000,
	}
	result, err := Fit(raw)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.DelayMsRaw)
}

func TestFitRejectsTooFewSamples(t *testing.T) {
	raw := synccorrelate.CorrelationRaw{Magnitudes: []float64{1, 2}}
	_, err := Fit(raw)
	assert.Error(t, err)
}

func TestFitScalesDeltaByLagSpacing(t *testing.T) {
	// Onset envelopes report lags in whole frame hops; the sub-sample
	// refinement must shift by a fraction of that spacing, not of one
	// sample.
	raw := synccorrelate.CorrelationRaw{
		Method:     "onset",
		Lags:       []int{-256, 0, 256},
		Magnitudes: []float64{1.0, 3.0, 2.0},
		SampleRate: 16000,
	}
	result, err := Fit(raw)
	require.NoError(t, err)
	// delta = (1-2)/(2*(1-6+2)) = 1/6 of a 256-sample step.
	wantMs := (256.0 / 6.0) / 16000 * 1000
	assert.InDelta(t, wantMs, result.DelayMsRaw, 1e-6)
}

func TestFitGuardsZeroDenominator(t *testing.T) {
	raw := synccorrelate.CorrelationRaw{
		Lags:       []int{-1, 0, 1},
		Magnitudes: []float64{1.0, 1.0, 1.0},
		SampleRate: 1000,
	}
	result, err := Fit(raw)
	require.NoError(t, err)
	// A flat (zero-curvature) peak never reaches the parabola division:
	// ArgMax keeps the first of equal magnitudes, lag -1 at the window
	// edge, so Fit returns that unrefined lag.
	assert.Equal(t, -1.0, result.DelayMsRaw)
}

// Package syncpeakfit refines an integer-lag correlation peak to sub-sample
// precision via parabolic interpolation.
package syncpeakfit

import (
	"fmt"

	"github.com/syncalign/core/internal/synccorrelate"
)

// Fit finds the integer argmax k* in raw, fits a parabola through
// (k*-1, k*, k*+1), and returns the sub-sample-refined delay in
// milliseconds along with a match_pct re-derived from the raw magnitudes.
// Only meaningful when the producing method is peak-fit eligible; callers
// are responsible for checking that before calling Fit.
func Fit(raw synccorrelate.CorrelationRaw) (synccorrelate.CorrelationResult, error) {
	if len(raw.Magnitudes) < 3 {
		return synccorrelate.CorrelationResult{}, fmt.Errorf("peakfit: need at least 3 samples, got %d", len(raw.Magnitudes))
	}

	best := raw.ArgMax()
	if best == 0 || best == len(raw.Magnitudes)-1 {
		// Peak sits at the edge of the lag window; there is no neighbor on
		// one side to fit a parabola through, so fall back to the
		// unrefined integer lag.
		result := synccorrelate.CorrelationResult{
			Method:     raw.Method,
			DelayMsRaw: float64(raw.Lags[best]) / float64(raw.SampleRate) * 1000,
			MatchPct:   raw.MatchPct(),
		}
		result.RoundDelay()
		return result, nil
	}

	yMinus1 := raw.Magnitudes[best-1]
	y0 := raw.Magnitudes[best]
	yPlus1 := raw.Magnitudes[best+1]

	denom := yMinus1 - 2*y0 + yPlus1
	delta := 0.0
	if denom != 0 {
		delta = (yMinus1 - yPlus1) / (2 * denom)
	}

	// delta is a fraction of one lag step. Steps are 1 sample for the
	// waveform methods but a whole frame hop for onset envelopes, so scale
	// by the actual spacing rather than assuming unit lags.
	step := float64(raw.Lags[best+1] - raw.Lags[best])
	refinedK := float64(raw.Lags[best]) + delta*step
	delayMs := refinedK / float64(raw.SampleRate) * 1000

	result := synccorrelate.CorrelationResult{
		Method:     raw.Method,
		DelayMsRaw: delayMs,
		MatchPct:   raw.MatchPct(),
	}
	result.RoundDelay()
	return result, nil
}

package synccorrelate

import (
	"fmt"
	"math"

	"github.com/syncalign/core/internal/syncdsp/fft"
)

// spectralWeight maps a pair of matching spectral bins from the reference
// and other transforms to the complex cross term accumulated before the
// inverse transform. Each method family (SCC, GCC-PHAT, Whitened) supplies
// its own.
type spectralWeight func(fref, fother complex128) complex128

// preparedSpectra pads ref/other to the next power of two of
// 2*max(len(ref), len(other)) and forward-transforms both.
func preparedSpectra(method string, ref, other []float64) (n int, transform *fft.RealFFT, fRef, fOther []complex128, err error) {
	if len(ref) == 0 || len(other) == 0 {
		return 0, nil, nil, nil, fmt.Errorf("%s: empty chunk", method)
	}

	m := maxInt(len(ref), len(other))
	n = fft.NextPowerOfTwo(2 * m)

	transform = fft.NewRealFFT(n)
	fRef = transform.Forward(fft.PadTo(ref, n))
	fOther = transform.Forward(fft.PadTo(other, n))
	return n, transform, fRef, fOther, nil
}

// assembleSignedLags inverse-transforms a weighted cross spectrum and
// rearranges the circular result into a signed-lag vector covering
// [-(m-1), m-1].
func assembleSignedLags(method string, transform *fft.RealFFT, cross []complex128, n, m, sampleRate int) (CorrelationRaw, error) {
	timeDomain := transform.Inverse(cross)

	lags := make([]int, 0, 2*m-1)
	mags := make([]float64, 0, 2*m-1)
	for d := -(m - 1); d <= m-1; d++ {
		idx := d
		if idx < 0 {
			idx += n
		}
		lags = append(lags, d)
		mags = append(mags, timeDomain[idx])
	}

	return CorrelationRaw{
		Method:     method,
		Lags:       lags,
		Magnitudes: mags,
		SampleRate: sampleRate,
	}, nil
}

// crossCorrelate forms the weighted cross spectrum bin by bin using weight,
// then delegates to assembleSignedLags.
func crossCorrelate(method string, ref, other []float64, sampleRate int, weight spectralWeight) (CorrelationRaw, error) {
	n, transform, fRef, fOther, err := preparedSpectra(method, ref, other)
	if err != nil {
		return CorrelationRaw{}, err
	}

	cross := make([]complex128, len(fRef))
	for i := range cross {
		cross[i] = weight(fRef[i], fOther[i])
	}

	m := maxInt(len(ref), len(other))
	return assembleSignedLags(method, transform, cross, n, m, sampleRate)
}

// argmaxResult finds the integer-lag argmax of a CorrelationRaw and turns
// it directly into a CorrelationResult without sub-sample peak fitting —
// used by methods whose Correlate path skips the peak fitter (either
// because use_peak_fit is off or the caller wants the unrefined estimate).
func argmaxResult(method string, raw CorrelationRaw) CorrelationResult {
	best := raw.ArgMax()
	delayMs := float64(raw.Lags[best]) / float64(raw.SampleRate) * 1000
	result := CorrelationResult{
		Method:     method,
		DelayMsRaw: delayMs,
		MatchPct:   raw.MatchPct(),
	}
	result.RoundDelay()
	return result
}

func magnitude(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func sqrtFloat(x float64) float64 {
	return math.Sqrt(x)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

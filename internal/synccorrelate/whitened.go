package synccorrelate

import (
	"fmt"
	"math/cmplx"

	"github.com/syncalign/core/internal/syncdsp/fft"
)

// Whitened normalizes the cross spectrum by the product of magnitudes like
// GCC-PHAT, but adds a noise-floor regularization term so bins with near-
// zero energy in either signal are not divided by (near) zero — unlike
// PHAT's hard epsilon cutoff, low-energy bins are attenuated rather than
// dropped. Deliberately built on the
// complex-FFT backend (github.com/mjibson/go-dsp/fft) rather than the
// gonum real-FFT path the other methods share, so both FFT libraries in
// the dependency set see real use.
type Whitened struct{}

// Name implements Method.
func (w *Whitened) Name() string { return "whitened" }

// PeakFitEligible implements Method.
func (w *Whitened) PeakFitEligible() bool { return true }

// RawCorrelation implements Method.
func (w *Whitened) RawCorrelation(ref, other []float64, sampleRate int) (CorrelationRaw, error) {
	if len(ref) == 0 || len(other) == 0 {
		return CorrelationRaw{}, fmt.Errorf("%s: empty chunk", w.Name())
	}

	m := maxInt(len(ref), len(other))
	n := fft.NextPowerOfTwo(2 * m)

	refPadded := fft.PadTo(ref, n)
	otherPadded := fft.PadTo(other, n)

	fRef := fft.ComplexForward(refPadded)
	fOther := fft.ComplexForward(otherPadded)

	magRef := make([]float64, n)
	magOther := make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		magRef[i] = cmplx.Abs(fRef[i])
		magOther[i] = cmplx.Abs(fOther[i])
		sum += magRef[i] * magOther[i]
	}
	noiseFloor := sum / float64(n) * whitenedFloorFactor

	cross := make([]complex128, n)
	for i := 0; i < n; i++ {
		c := cmplx.Conj(fRef[i]) * fOther[i]
		denom := magRef[i]*magOther[i] + noiseFloor
		if denom < phatEpsilon {
			cross[i] = 0
			continue
		}
		cross[i] = c / complex(denom, 0)
	}

	timeDomain := fft.ComplexInverse(cross)

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
		Method:     w.Name(),
		Lags:       lags,
		Magnitudes: mags,
		SampleRate: sampleRate,
	}, nil
}

// whitenedFloorFactor scales the average cross-magnitude into the noise
// floor added to every bin's denominator.
const whitenedFloorFactor = 0.01

// Correlate implements Method.
func (w *Whitened) Correlate(ref, other []float64, sampleRate int) (CorrelationResult, error) {
	raw, err := w.RawCorrelation(ref, other, sampleRate)
	if err != nil {
		return CorrelationResult{}, err
	}
	return argmaxResult(w.Name(), raw), nil
}

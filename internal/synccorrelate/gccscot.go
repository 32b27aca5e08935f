package synccorrelate

import "math/cmplx"

// GCCScot is the smoothed coherence transform: like GCC-PHAT it whitens
// the cross spectrum, but the per-bin power spectra are smoothed across
// neighboring frequency bins before normalizing, trading a little timing
// sharpness for robustness against spectral nulls.
type GCCScot struct{}

// Name implements Method.
func (g *GCCScot) Name() string { return "gcc_scot" }

// PeakFitEligible implements Method.
func (g *GCCScot) PeakFitEligible() bool { return true }

const scotSmoothingRadius = 2

// RawCorrelation implements Method.
func (g *GCCScot) RawCorrelation(ref, other []float64, sampleRate int) (CorrelationRaw, error) {
	return crossCorrelateScot(g.Name(), ref, other, sampleRate)
}

// crossCorrelateScot needs access to the full per-bin power spectra before
// building the cross term, so it cannot reuse the generic per-bin
// spectralWeight closure the way SCC/PHAT/Whitened do: it runs its own FFT
// pass, smooths, then assembles the weighted spectrum directly.
func crossCorrelateScot(method string, ref, other []float64, sampleRate int) (CorrelationRaw, error) {
	n, transform, fRef, fOther, err := preparedSpectra(method, ref, other)
	if err != nil {
		return CorrelationRaw{}, err
	}

	pxx := make([]float64, len(fRef))
	pyy := make([]float64, len(fOther))
	for i := range fRef {
		pxx[i] = cmplx.Abs(fRef[i]) * cmplx.Abs(fRef[i])
		pyy[i] = cmplx.Abs(fOther[i]) * cmplx.Abs(fOther[i])
	}
	pxxSmooth := movingAverage(pxx, scotSmoothingRadius)
	pyySmooth := movingAverage(pyy, scotSmoothingRadius)

	cross := make([]complex128, len(fRef))
	for i := range fRef {
		c := cmplx.Conj(fRef[i]) * fOther[i]
		denom := pxxSmooth[i] * pyySmooth[i]
		if denom < phatEpsilon {
			cross[i] = 0
			continue
		}
		cross[i] = c / complex(sqrtFloat(denom), 0)
	}

	m := maxInt(len(ref), len(other))
	return assembleSignedLags(method, transform, cross, n, m, sampleRate)
}

// Correlate implements Method.
func (g *GCCScot) Correlate(ref, other []float64, sampleRate int) (CorrelationResult, error) {
	raw, err := g.RawCorrelation(ref, other, sampleRate)
	if err != nil {
		return CorrelationResult{}, err
	}
	return argmaxResult(g.Name(), raw), nil
}

func movingAverage(values []float64, radius int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		sum := 0.0
		count := 0
		for j := i - radius; j <= i+radius; j++ {
			if j < 0 || j >= len(values) {
				continue
			}
			sum += values[j]
			count++
		}
		out[i] = sum / float64(count)
	}
	return out
}

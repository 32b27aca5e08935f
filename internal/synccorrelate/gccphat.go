package synccorrelate

import "math/cmplx"

const phatEpsilon = 1e-12

// GCCPhat is the generalized cross-correlation with phase transform: the
// cross spectrum is normalized to unit magnitude bin by bin, so only phase
// (timing) information survives and broadband noise sources sharpen the
// peak relative to plain SCC.
type GCCPhat struct{}

// Name implements Method.
func (g *GCCPhat) Name() string { return "gcc_phat" }

// PeakFitEligible implements Method.
func (g *GCCPhat) PeakFitEligible() bool { return true }

// RawCorrelation implements Method.
func (g *GCCPhat) RawCorrelation(ref, other []float64, sampleRate int) (CorrelationRaw, error) {
	return crossCorrelate(g.Name(), ref, other, sampleRate, func(fref, fother complex128) complex128 {
		cross := cmplx.Conj(fref) * fother
		mag := cmplx.Abs(cross)
		if mag < phatEpsilon {
			return 0
		}
		return cross / complex(mag, 0)
	})
}

// Correlate implements Method.
func (g *GCCPhat) Correlate(ref, other []float64, sampleRate int) (CorrelationResult, error) {
	raw, err := g.RawCorrelation(ref, other, sampleRate)
	if err != nil {
		return CorrelationResult{}, err
	}
	return argmaxResult(g.Name(), raw), nil
}

package synccorrelate

import "math/cmplx"

// SCC is plain time-domain cross-correlation computed via FFT: the cross
// spectrum is conj(Fref)*Fother with no normalization, so stronger signal
// energy dominates the peak.
type SCC struct{}

// Name implements Method.
func (s *SCC) Name() string { return "scc" }

// PeakFitEligible implements Method.
func (s *SCC) PeakFitEligible() bool { return true }

// RawCorrelation implements Method.
func (s *SCC) RawCorrelation(ref, other []float64, sampleRate int) (CorrelationRaw, error) {
	return crossCorrelate(s.Name(), ref, other, sampleRate, func(fref, fother complex128) complex128 {
		return cmplx.Conj(fref) * fother
	})
}

// Correlate implements Method.
func (s *SCC) Correlate(ref, other []float64, sampleRate int) (CorrelationResult, error) {
	raw, err := s.RawCorrelation(ref, other, sampleRate)
	if err != nil {
		return CorrelationResult{}, err
	}
	return argmaxResult(s.Name(), raw), nil
}

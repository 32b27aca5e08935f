// Package synccorrelate implements the seven interchangeable correlation
// methods used to estimate a time offset between a reference and an other
// chunk of audio.
package synccorrelate

import "math"

// CorrelationRaw is the full signed-lag correlation vector produced by the
// peak-fit-eligible methods, centered on zero lag. Lags[i] is a sample
// count; positive means the other chunk is later than the reference.
type CorrelationRaw struct {
	Method     string
	Lags       []int
	Magnitudes []float64
	SampleRate int
}

// ArgMax returns the index of the largest magnitude in r.
func (r *CorrelationRaw) ArgMax() int {
	best := 0
	for i, v := range r.Magnitudes {
		if v > r.Magnitudes[best] {
			best = i
		}
	}
	return best
}

// MatchPct derives a 0-100 confidence score from peak/mean(|corr|), the way
// every FFT-based method reports confidence.
func (r *CorrelationRaw) MatchPct() float64 {
	if len(r.Magnitudes) == 0 {
		return 0
	}
	peak := 0.0
	sum := 0.0
	for _, v := range r.Magnitudes {
		abs := math.Abs(v)
		sum += abs
		if abs > peak {
			peak = abs
		}
	}
	mean := sum / float64(len(r.Magnitudes))
	if mean == 0 {
		return 0
	}
	ratio := peak / mean
	return scaleRatioToPct(ratio)
}

// scaleRatioToPct caps a peak/mean ratio at a sensible upper bound (20,
// empirically well above what real-world matches produce) and scales it
// into [0, 100].
func scaleRatioToPct(ratio float64) float64 {
	const cap_ = 20.0
	if ratio > cap_ {
		ratio = cap_
	}
	if ratio < 0 {
		ratio = 0
	}
	return ratio / cap_ * 100
}

// CorrelationResult is the outcome of one method run against one chunk
// pair: a delay estimate in milliseconds plus a confidence score.
type CorrelationResult struct {
	Method         string
	DelayMsRaw     float64
	DelayMsRounded int
	MatchPct       float64
}

// RoundDelay fills DelayMsRounded from DelayMsRaw, rounding half away
// from zero.
func (c *CorrelationResult) RoundDelay() {
	c.DelayMsRounded = int(math.Round(c.DelayMsRaw))
}

// Method is the interface every correlation algorithm implements.
type Method interface {
	// Name is the stable identifier used for logs and provenance.
	Name() string
	// PeakFitEligible reports whether RawCorrelation produces a vector the
	// peak fitter can refine (SCC/GCC-PHAT/GCC-SCOT/Whitened/Onset do; DTW
	// and Spectrogram do not).
	PeakFitEligible() bool
	// Correlate runs the method end-to-end and returns a sample- or
	// frame-resolution CorrelationResult.
	Correlate(ref, other []float64, sampleRate int) (CorrelationResult, error)
	// RawCorrelation returns the full signed-lag vector for peak-fit-
	// eligible methods. Callers must not invoke this for methods where
	// PeakFitEligible() is false.
	RawCorrelation(ref, other []float64, sampleRate int) (CorrelationRaw, error)
}

// All returns every method keyed by its configured name. The map carries
// no order; OrderedNames gives the fixed order multi-correlation uses.
func All() map[string]Method {
	return map[string]Method{
		"scc":         &SCC{},
		"gcc_phat":    &GCCPhat{},
		"gcc_scot":    &GCCScot{},
		"whitened":    &Whitened{},
		"onset":       &Onset{},
		"dtw":         &DTW{},
		"spectrogram": &Spectrogram{},
	}
}

// OrderedNames lists the seven method names in the order multi-correlation
// iterates them.
var OrderedNames = []string{"scc", "gcc_phat", "gcc_scot", "whitened", "onset", "dtw", "spectrogram"}

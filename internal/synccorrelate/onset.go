package synccorrelate

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/syncalign/core/internal/syncdsp/fft"
)

// Onset correlates onset-strength envelopes (spectral flux) rather than
// raw waveforms: it is more robust than SCC/GCC-* when the two signals
// carry different amounts of background noise but share the same rhythmic
// or percussive events.
type Onset struct{}

// Name implements Method.
func (o *Onset) Name() string { return "onset" }

// PeakFitEligible implements Method.
func (o *Onset) PeakFitEligible() bool { return true }

const (
	onsetFrameSize = 1024
	onsetHopSize   = 256
)

// onsetEnvelope computes the spectral-flux onset-strength envelope of
// samples: the positive-only frame-to-frame increase in magnitude
// spectrum, summed per frame.
func onsetEnvelope(samples []float64) []float64 {
	if len(samples) < onsetFrameSize {
		return nil
	}
	window := hannWindow(onsetFrameSize)
	numFrames := (len(samples)-onsetFrameSize)/onsetHopSize + 1
	envelope := make([]float64, numFrames)

	var prevMag []float64
	for f := 0; f < numFrames; f++ {
		start := f * onsetHopSize
		frame := make([]float64, onsetFrameSize)
		for i := 0; i < onsetFrameSize; i++ {
			frame[i] = samples[start+i] * window[i]
		}
		spectrum := fft.ComplexForward(frame)
		mag := make([]float64, len(spectrum))
		for i, c := range spectrum {
			mag[i] = cmplx.Abs(c)
		}
		if prevMag != nil {
			flux := 0.0
			for i := range mag {
				diff := mag[i] - prevMag[i]
				if diff > 0 {
					flux += diff
				}
			}
			envelope[f] = flux
		}
		prevMag = mag
	}
	return envelope
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// RawCorrelation implements Method.
func (o *Onset) RawCorrelation(ref, other []float64, sampleRate int) (CorrelationRaw, error) {
	refEnv := onsetEnvelope(ref)
	otherEnv := onsetEnvelope(other)
	if len(refEnv) == 0 || len(otherEnv) == 0 {
		return CorrelationRaw{}, fmt.Errorf("%s: chunk too short for an onset frame", o.Name())
	}

	raw, err := crossCorrelate(o.Name(), refEnv, otherEnv, sampleRate, func(fref, fother complex128) complex128 {
		return cmplx.Conj(fref) * fother
	})
	if err != nil {
		return CorrelationRaw{}, err
	}

	// Envelope lags are in frame-hops; scale to sample lags at the analysis
	// rate before returning so downstream peak fitting and ms conversion
	// see sample units like every other method.
	scaled := make([]int, len(raw.Lags))
	for i, l := range raw.Lags {
		scaled[i] = l * onsetHopSize
	}
	raw.Lags = scaled
	return raw, nil
}

// Correlate implements Method.
func (o *Onset) Correlate(ref, other []float64, sampleRate int) (CorrelationResult, error) {
	raw, err := o.RawCorrelation(ref, other, sampleRate)
	if err != nil {
		return CorrelationResult{}, err
	}
	return argmaxResult(o.Name(), raw), nil
}

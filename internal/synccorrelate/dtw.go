package synccorrelate

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/syncalign/core/internal/syncdsp/fft"
)

// DTW aligns frame-level log-energy-spectrum feature vectors with dynamic
// time warping and reports the global frame offset implied by the warping
// path's drift from the diagonal. Not peak-fit eligible: its output is
// frame-resolution, not sample-resolution.
type DTW struct{}

// Name implements Method.
func (d *DTW) Name() string { return "dtw" }

// PeakFitEligible implements Method.
func (d *DTW) PeakFitEligible() bool { return false }

// RawCorrelation implements Method. DTW has no peak-fit-compatible raw
// vector; calling this is a programmer error.
func (d *DTW) RawCorrelation(ref, other []float64, sampleRate int) (CorrelationRaw, error) {
	return CorrelationRaw{}, fmt.Errorf("dtw: method is not peak-fit eligible")
}

const (
	dtwFrameSize = 1024
	dtwHopSize   = 512
	dtwNumBands  = 26
)

// frameFeatures returns a coarse log-energy-per-band feature sequence,
// one vector per analysis frame.
func frameFeatures(samples []float64) [][]float64 {
	if len(samples) < dtwFrameSize {
		return nil
	}
	window := hannWindow(dtwFrameSize)
	numFrames := (len(samples)-dtwFrameSize)/dtwHopSize + 1
	features := make([][]float64, numFrames)

	for f := 0; f < numFrames; f++ {
		start := f * dtwHopSize
		frame := make([]float64, dtwFrameSize)
		for i := 0; i < dtwFrameSize; i++ {
			frame[i] = samples[start+i] * window[i]
		}
		spectrum := fft.ComplexForward(frame)
		half := len(spectrum) / 2
		bandWidth := half / dtwNumBands
		if bandWidth == 0 {
			bandWidth = 1
		}
		vec := make([]float64, dtwNumBands)
		for b := 0; b < dtwNumBands; b++ {
			lo := b * bandWidth
			hi := lo + bandWidth
			if hi > half {
				hi = half
			}
			energy := 0.0
			for i := lo; i < hi; i++ {
				energy += cmplx.Abs(spectrum[i])
			}
			vec[b] = math.Log1p(energy)
		}
		features[f] = vec
	}
	return features
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// dtwAlign runs classic DTW with unconstrained step pattern, returning the
// accumulated cost and the warping path from (0,0) to (len(a)-1,len(b)-1).
func dtwAlign(a, b [][]float64) (cost float64, path [][2]int) {
	na, nb := len(a), len(b)
	const inf = math.MaxFloat64 / 2
	dp := make([][]float64, na+1)
	for i := range dp {
		dp[i] = make([]float64, nb+1)
		for j := range dp[i] {
			dp[i][j] = inf
		}
	}
	dp[0][0] = 0

	for i := 1; i <= na; i++ {
		for j := 1; j <= nb; j++ {
			c := euclidean(a[i-1], b[j-1])
			best := dp[i-1][j]
			if dp[i][j-1] < best {
				best = dp[i][j-1]
			}
			if dp[i-1][j-1] < best {
				best = dp[i-1][j-1]
			}
			dp[i][j] = c + best
		}
	}

	i, j := na, nb
	for i > 0 || j > 0 {
		path = append(path, [2]int{i - 1, j - 1})
		switch {
		case i == 0:
			j--
		case j == 0:
			i--
		default:
			best := dp[i-1][j-1]
			di, dj := i-1, j-1
			if dp[i-1][j] < best {
				best = dp[i-1][j]
				di, dj = i-1, j
			}
			if dp[i][j-1] < best {
				di, dj = i, j-1
			}
			i, j = di, dj
		}
	}
	return dp[na][nb], path
}

// Correlate implements Method. The global offset is the mean signed
// displacement (in frames) of the warping path from the identity diagonal,
// converted to milliseconds using the frame hop.
func (d *DTW) Correlate(ref, other []float64, sampleRate int) (CorrelationResult, error) {
	refFeat := frameFeatures(ref)
	otherFeat := frameFeatures(other)
	if len(refFeat) == 0 || len(otherFeat) == 0 {
		return CorrelationResult{}, fmt.Errorf("dtw: chunk too short for a frame")
	}

	cost, path := dtwAlign(refFeat, otherFeat)

	sum := 0
	for _, p := range path {
		sum += p[1] - p[0]
	}
	meanOffsetFrames := float64(sum) / float64(len(path))

	delayMs := meanOffsetFrames * float64(dtwHopSize) / float64(sampleRate) * 1000

	normalized := normalizedDTWSimilarity(cost, len(path))

	result := CorrelationResult{
		Method:     d.Name(),
		DelayMsRaw: delayMs,
		MatchPct:   normalized,
	}
	result.RoundDelay()
	return result, nil
}

// normalizedDTWSimilarity turns average per-step DTW cost into a 0-100
// confidence proxy: lower average cost means a tighter alignment.
func normalizedDTWSimilarity(cost float64, pathLen int) float64 {
	if pathLen == 0 {
		return 0
	}
	avgCost := cost / float64(pathLen)
	const scale = 5.0
	pct := 100 / (1 + avgCost/scale)
	return pct
}

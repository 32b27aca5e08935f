// Package syncdrift computes stability metrics and classifies the drift
// pattern of a source's accepted chunk delays over time.
package syncdrift

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/syncalign/core/internal/syncchunk"
)

// Thresholds names every tunable cutoff the drift classifier uses, kept as
// a configurable block rather than hard-coded magic numbers.
type Thresholds struct {
	// UniformMaxMS is the largest residual (ms) from the mean still
	// classified as Uniform.
	UniformMaxMS float64
	// PalSlopeTolerance is how close a fitted slope must be to the PAL
	// 4%-rate-change ratio (as a fraction, e.g. 0.1 = within 10%) to be
	// classified PAL-like.
	PalSlopeTolerance float64
	// LinearMinR2 is the minimum R² for a linear fit to be preferred over
	// Uniform/Stepping.
	LinearMinR2 float64
	// SteppingMinPlateauRun is the minimum number of consecutive points
	// within tolerance of each other for a plateau to be recognized.
	SteppingMinPlateauRun int
}

// DefaultThresholds returns the classifier's recommended cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		UniformMaxMS:          2.0,
		PalSlopeTolerance:     0.15,
		LinearMinR2:           0.8,
		SteppingMinPlateauRun: 2,
	}
}

// palRatioPerSecond is the ms/s slope a constant 4% PAL-style frame-rate
// mismatch produces over a one-second baseline (1000ms * 0.04).
const palRatioPerSecond = 40.0

// StabilityMetrics summarizes how consistent a source's accepted chunk
// delays were.
type StabilityMetrics struct {
	AcceptanceRate float64
	DelayStdDevMs  float64
	AvgMatchPct    float64
	DriftDetected  bool
}

// ComputeStability derives StabilityMetrics from every chunk (accepted and
// rejected) in a source.
func ComputeStability(all []syncchunk.ChunkResult) StabilityMetrics {
	accepted := syncchunk.AcceptedOnly(all)
	if len(all) == 0 {
		return StabilityMetrics{}
	}

	rate := 100 * float64(len(accepted)) / float64(len(all))

	if len(accepted) == 0 {
		return StabilityMetrics{AcceptanceRate: rate}
	}

	delays := make([]float64, len(accepted))
	matches := make([]float64, len(accepted))
	for i, c := range accepted {
		delays[i] = c.DelayMsRaw
		matches[i] = c.MatchPct
	}

	variance := stat.PopVariance(delays, nil)
	mean := stat.Mean(matches, nil)
	stdDev := math.Sqrt(variance)

	return StabilityMetrics{
		AcceptanceRate: rate,
		DelayStdDevMs:  stdDev,
		AvgMatchPct:    mean,
		DriftDetected:  stdDev > 50,
	}
}

// DriftKind classifies the time-series pattern of a source's delays.
type DriftKind string

const (
	DriftUniform  DriftKind = "uniform"
	DriftPAL      DriftKind = "pal_like"
	DriftLinear   DriftKind = "linear"
	DriftStepping DriftKind = "stepping"
)

// DriftDiagnosis is the fine-grained classification used for richer log
// messaging.
type DriftDiagnosis struct {
	Kind        DriftKind
	SlopeMsPerS float64
	R2          float64
	StepTimesS  []float64
	PlateausMs  []float64
	Description string
}

// Diagnose classifies accepted, ordered by chunk position, against
// thresholds.
func Diagnose(accepted []syncchunk.ChunkResult, thresholds Thresholds) DriftDiagnosis {
	if len(accepted) < 2 {
		return DriftDiagnosis{Kind: DriftUniform, Description: "too few accepted chunks to classify drift"}
	}

	times := make([]float64, len(accepted))
	delays := make([]float64, len(accepted))
	for i, c := range accepted {
		times[i] = c.Position.Seconds()
		delays[i] = c.DelayMsRaw
	}

	alpha, beta := stat.LinearRegression(times, delays, nil, false)
	r2 := stat.RSquared(times, delays, nil, alpha, beta)

	if isStepping(delays, thresholds) {
		stepTimes, plateaus := findPlateaus(times, delays, thresholds)
		if len(plateaus) > 1 {
			return DriftDiagnosis{
				Kind:        DriftStepping,
				StepTimesS:  stepTimes,
				PlateausMs:  plateaus,
				Description: fmt.Sprintf("stepping drift across %d plateaus", len(plateaus)),
			}
		}
	}

	if r2 >= thresholds.LinearMinR2 && math.Abs(beta) > 1e-6 {
		if isPalLike(beta, thresholds) {
			return DriftDiagnosis{
				Kind:        DriftPAL,
				SlopeMsPerS: beta,
				R2:          r2,
				Description: fmt.Sprintf("PAL-like drift, slope %.3f ms/s (R²=%.2f)", beta, r2),
			}
		}
		return DriftDiagnosis{
			Kind:        DriftLinear,
			SlopeMsPerS: beta,
			R2:          r2,
			Description: fmt.Sprintf("linear drift, slope %.3f ms/s (R²=%.2f)", beta, r2),
		}
	}

	if residualsWithin(delays, thresholds.UniformMaxMS) {
		return DriftDiagnosis{Kind: DriftUniform, Description: "delay is uniform across the source"}
	}

	return DriftDiagnosis{
		Kind:        DriftLinear,
		SlopeMsPerS: beta,
		R2:          r2,
		Description: fmt.Sprintf("weak linear trend, slope %.3f ms/s (R²=%.2f)", beta, r2),
	}
}

func residualsWithin(delays []float64, maxMs float64) bool {
	mean := stat.Mean(delays, nil)
	for _, d := range delays {
		if math.Abs(d-mean) > maxMs {
			return false
		}
	}
	return true
}

func isPalLike(slope float64, thresholds Thresholds) bool {
	ratio := math.Abs(slope-palRatioPerSecond) / palRatioPerSecond
	return ratio <= thresholds.PalSlopeTolerance
}

// isStepping looks for at least one jump between neighbor samples larger
// than UniformMaxMS (the tolerance that holds a plateau together in
// findPlateaus), a coarse change-point signal; findPlateaus then decides
// whether the points really form more than one plateau.
func isStepping(delays []float64, thresholds Thresholds) bool {
	if len(delays) < 2*thresholds.SteppingMinPlateauRun {
		return false
	}
	for i := 1; i < len(delays); i++ {
		if math.Abs(delays[i]-delays[i-1]) > thresholds.UniformMaxMS {
			return true
		}
	}
	return false
}

// findPlateaus groups delays into runs of at least SteppingMinPlateauRun
// consecutive points within UniformMaxMS of each other, returning each
// plateau's start time and mean value.
func findPlateaus(times, delays []float64, thresholds Thresholds) ([]float64, []float64) {
	var stepTimes, plateaus []float64
	i := 0
	for i < len(delays) {
		j := i + 1
		for j < len(delays) && math.Abs(delays[j]-delays[i]) <= thresholds.UniformMaxMS {
			j++
		}
		if j-i >= thresholds.SteppingMinPlateauRun {
			sum := 0.0
			for k := i; k < j; k++ {
				sum += delays[k]
			}
			plateaus = append(plateaus, sum/float64(j-i))
			stepTimes = append(stepTimes, times[i])
		}
		i = j
	}
	return stepTimes, plateaus
}

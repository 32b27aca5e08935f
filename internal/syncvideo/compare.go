package syncvideo

import (
	"fmt"
	"image"

	"github.com/syncalign/core/internal/syncconf"
)

const compareSampleSize = 64

// Distance scores how different two frames are under cfg's configured
// comparison method. Lower is more similar for all three methods.
func Distance(a, b image.Image, cfg syncconf.VideoVerifiedSettings) (float64, error) {
	switch cfg.ComparisonMethod {
	case "hash", "":
		ha, err := hashOf(a, cfg)
		if err != nil {
			return 0, err
		}
		hb, err := hashOf(b, cfg)
		if err != nil {
			return 0, err
		}
		return float64(HammingDistance(ha, hb)), nil
	case "ssim":
		return 1 - ssim(a, b), nil
	case "mse":
		return mse(a, b), nil
	default:
		return 0, fmt.Errorf("unrecognized video comparison method %q", cfg.ComparisonMethod)
	}
}

// Matched reports whether distance clears cfg's threshold for its
// comparison method.
func Matched(distance float64, cfg syncconf.VideoVerifiedSettings) bool {
	switch cfg.ComparisonMethod {
	case "ssim":
		return distance <= 1-0.9
	case "mse":
		return distance <= 200
	default:
		return distance <= float64(cfg.HashThreshold)
	}
}

func hashOf(img image.Image, cfg syncconf.VideoVerifiedSettings) (uint64, error) {
	switch cfg.HashAlgorithm {
	case "phash", "":
		return PerceptualHash(img, cfg.HashSize), nil
	case "dhash":
		return DifferenceHash(img, cfg.HashSize), nil
	case "ahash":
		return AverageHash(img, cfg.HashSize), nil
	default:
		return 0, fmt.Errorf("unrecognized hash algorithm %q", cfg.HashAlgorithm)
	}
}

// ssim computes a single-window (global, not sliding-window) structural
// similarity index between grayscale downsamples of a and b. A full
// sliding-window SSIM needs a windowing/convolution library this
// dependency set does not carry; this global variant is the approximation
// used instead.
func ssim(a, b image.Image) float64 {
	const c1, c2 = 6.5025, 58.5225 // (0.01*255)^2, (0.03*255)^2

	ga := flatten(grayscale(a, compareSampleSize, compareSampleSize))
	gb := flatten(grayscale(b, compareSampleSize, compareSampleSize))

	meanA := meanOf(ga)
	meanB := meanOf(gb)
	varA := varianceOf(ga, meanA)
	varB := varianceOf(gb, meanB)
	covAB := covarianceOf(ga, gb, meanA, meanB)

	numerator := (2*meanA*meanB + c1) * (2*covAB + c2)
	denominator := (meanA*meanA + meanB*meanB + c1) * (varA + varB + c2)
	if denominator == 0 {
		return 1
	}
	return numerator / denominator
}

// mse computes the mean squared error between grayscale downsamples of a
// and b.
func mse(a, b image.Image) float64 {
	ga := flatten(grayscale(a, compareSampleSize, compareSampleSize))
	gb := flatten(grayscale(b, compareSampleSize, compareSampleSize))

	var sum float64
	for i := range ga {
		d := ga[i] - gb[i]
		sum += d * d
	}
	return sum / float64(len(ga))
}

func flatten(grid [][]float64) []float64 {
	out := make([]float64, 0, len(grid)*len(grid[0]))
	for _, row := range grid {
		out = append(out, row...)
	}
	return out
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func varianceOf(values []float64, mean float64) float64 {
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

func covarianceOf(a, b []float64, meanA, meanB float64) float64 {
	var sum float64
	for i := range a {
		sum += (a[i] - meanA) * (b[i] - meanB)
	}
	return sum / float64(len(a))
}

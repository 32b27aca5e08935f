package syncvideo

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// grayscale down-samples img to w x h using nearest-neighbor sampling and
// returns its luma values, avoiding a third-party image-resize dependency
// for what is otherwise a handful of samples per frame.
func grayscale(img image.Image, w, h int) [][]float64 {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		out[y] = make([]float64, w)
		srcY := bounds.Min.Y + y*srcH/h
		for x := 0; x < w; x++ {
			srcX := bounds.Min.X + x*srcW/w
			r, g, b, _ := img.At(srcX, srcY).RGBA()
			gray := color.GrayModel.Convert(color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: 0xffff}).(color.Gray)
			out[y][x] = float64(gray.Y)
		}
	}
	return out
}

// AverageHash computes the classic "ahash": each bit is 1 when its pixel is
// at or above the mean luma of a size x size downsample.
func AverageHash(img image.Image, size int) uint64 {
	gray := grayscale(img, size, size)

	var sum float64
	for _, row := range gray {
		for _, v := range row {
			sum += v
		}
	}
	mean := sum / float64(size*size)

	var hash uint64
	bit := uint(0)
	for _, row := range gray {
		for _, v := range row {
			if v >= mean {
				hash |= 1 << bit
			}
			bit++
		}
	}
	return hash
}

// DifferenceHash computes "dhash": each bit is 1 when a pixel is brighter
// than its right-hand neighbor in a (size+1) x size downsample.
func DifferenceHash(img image.Image, size int) uint64 {
	gray := grayscale(img, size+1, size)

	var hash uint64
	bit := uint(0)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if gray[y][x] > gray[y][x+1] {
				hash |= 1 << bit
			}
			bit++
		}
	}
	return hash
}

const phashSampleSize = 32

// PerceptualHash computes "phash": a DCT-II of a phashSampleSize downsample,
// thresholded against the median of its top-left low-frequency size x size
// block (excluding the DC term).
func PerceptualHash(img image.Image, size int) uint64 {
	gray := grayscale(img, phashSampleSize, phashSampleSize)
	coeffs := dct2D(gray)

	vals := make([]float64, 0, size*size-1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x == 0 && y == 0 {
				continue
			}
			vals = append(vals, coeffs[y][x])
		}
	}
	median := medianOf(vals)

	var hash uint64
	bit := uint(0)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x == 0 && y == 0 {
				continue
			}
			if coeffs[y][x] >= median {
				hash |= 1 << bit
			}
			bit++
		}
	}
	return hash
}

// dct2D applies a separable 2-D DCT-II to a square matrix. There is no
// ready-made DCT in the dependency set, so this is a direct O(n^3) textbook
// implementation; n is always phashSampleSize (32), which is cheap.
func dct2D(matrix [][]float64) [][]float64 {
	n := len(matrix)
	rowTransformed := make([][]float64, n)
	for y := 0; y < n; y++ {
		rowTransformed[y] = dct1D(matrix[y])
	}

	out := make([][]float64, n)
	for y := 0; y < n; y++ {
		out[y] = make([]float64, n)
	}
	for x := 0; x < n; x++ {
		col := make([]float64, n)
		for y := 0; y < n; y++ {
			col[y] = rowTransformed[y][x]
		}
		transformed := dct1D(col)
		for y := 0; y < n; y++ {
			out[y][x] = transformed[y]
		}
	}
	return out
}

func dct1D(values []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum float64
		for i, v := range values {
			sum += v * math.Cos(math.Pi/float64(n)*(float64(i)+0.5)*float64(k))
		}
		out[k] = sum
	}
	return out
}

func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	if len(sorted) == 0 {
		return 0
	}
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// HammingDistance counts differing bits between two hashes.
func HammingDistance(a, b uint64) int {
	x := a ^ b
	count := 0
	for x != 0 {
		count++
		x &= x - 1
	}
	return count
}

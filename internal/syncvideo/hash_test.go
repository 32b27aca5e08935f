package syncvideo

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func solidImage(size int, shade uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetGray(x, y, color.Gray{Y: shade})
		}
	}
	return img
}

func halfSplitImage(size int) image.Image {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			shade := uint8(30)
			if x >= size/2 {
				shade = 220
			}
			img.SetGray(x, y, color.Gray{Y: shade})
		}
	}
	return img
}

func TestAverageHashIdenticalImagesMatch(t *testing.T) {
	a := halfSplitImage(32)
	b := halfSplitImage(32)
	assert.Equal(t, AverageHash(a, 8), AverageHash(b, 8))
}

func TestAverageHashSolidImageSetsEveryBit(t *testing.T) {
	// Every pixel equals the mean, so every bit compares >= mean and is set.
	img := solidImage(32, 128)
	hash := AverageHash(img, 8)
	assert.Equal(t, ^uint64(0), hash)
}

func TestDifferenceHashDetectsHorizontalGradient(t *testing.T) {
	img := halfSplitImage(32)
	hash := DifferenceHash(img, 8)
	assert.NotZero(t, hash)
}

func TestDifferenceHashSolidImageIsZero(t *testing.T) {
	img := solidImage(32, 100)
	assert.Equal(t, uint64(0), DifferenceHash(img, 8))
}

func TestPerceptualHashIdenticalImagesMatch(t *testing.T) {
	a := halfSplitImage(32)
	b := halfSplitImage(32)
	assert.Equal(t, PerceptualHash(a, 8), PerceptualHash(b, 8))
}

func TestPerceptualHashDiffersAcrossDistinctImages(t *testing.T) {
	a := halfSplitImage(32)
	b := solidImage(32, 128)
	dist := HammingDistance(PerceptualHash(a, 8), PerceptualHash(b, 8))
	assert.NotZero(t, dist)
}

func TestHammingDistance(t *testing.T) {
	assert.Equal(t, 0, HammingDistance(0xFF, 0xFF))
	assert.Equal(t, 8, HammingDistance(0x00, 0xFF))
	assert.Equal(t, 1, HammingDistance(0b1010, 0b1011))
}

func TestMedianOf(t *testing.T) {
	assert.Equal(t, 0.0, medianOf(nil))
	assert.Equal(t, 2.0, medianOf([]float64{1, 2, 3}))
	assert.Equal(t, 2.5, medianOf([]float64{1, 2, 3, 4}))
}

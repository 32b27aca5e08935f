package fft

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 16: 16, 17: 32}
	for in, want := range cases {
		assert.Equal(t, want, NextPowerOfTwo(in))
	}
}

func TestPadToZeroPads(t *testing.T) {
	out := PadTo([]float64{1, 2, 3}, 5)
	assert.Equal(t, []float64{1, 2, 3, 0, 0}, out)
}

func TestRealFFTRoundTrip(t *testing.T) {
	n := 64
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 4 * float64(i) / float64(n))
	}

	r := NewRealFFT(n)
	spectrum := r.Forward(signal)
	back := r.Inverse(spectrum)

	require := assert.New(t)
	require.Len(back, n)
	for i := range signal {
		require.InDelta(signal[i], back[i], 1e-9)
	}
}

func TestComplexForwardInverseRoundTrip(t *testing.T) {
	n := 32
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Cos(2 * math.Pi * 3 * float64(i) / float64(n))
	}

	spectrum := ComplexForward(signal)
	back := ComplexInverse(spectrum)

	for i := range signal {
		assert.InDelta(t, signal[i], back[i], 1e-6)
	}
}

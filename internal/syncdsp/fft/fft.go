// Package fft wraps two FFT backends used across the correlation methods:
// gonum's real-input FFT for the primary SCC/GCC family, and mjibson/go-dsp's
// complex FFT for the Whitened method, which needs explicit control over
// the complex spectrum before whitening.
package fft

import (
	"sync"

	godsp "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/klauspost/cpuid/v2"

	"github.com/syncalign/core/internal/synclog"
)

var logCapabilitiesOnce sync.Once

// LogCapabilities emits a one-time debug line naming the detected CPU SIMD
// features, informational only: neither backend here branches on it, but it
// is useful provenance when comparing correlation timings across machines.
func LogCapabilities() {
	logCapabilitiesOnce.Do(func() {
		synclog.ForComponent("syncdsp/fft").Debug("cpu features",
			"brand", cpuid.CPU.BrandName,
			"avx2", cpuid.CPU.Supports(cpuid.AVX2),
			"fma3", cpuid.CPU.Supports(cpuid.FMA3),
			"logical_cores", cpuid.CPU.LogicalCores,
		)
	})
}

// NextPowerOfTwo returns the smallest power of two >= n.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PadTo returns samples zero-padded (or truncated) to length n.
func PadTo(samples []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, samples)
	return out
}

// RealFFT wraps gonum's fourier.FFT, reused across calls of the same size.
type RealFFT struct {
	n   int
	fft *fourier.FFT
}

// NewRealFFT returns a RealFFT planned for transforms of length n.
func NewRealFFT(n int) *RealFFT {
	return &RealFFT{n: n, fft: fourier.NewFFT(n)}
}

// Forward returns the complex spectrum of a real-valued signal of length n.
func (r *RealFFT) Forward(signal []float64) []complex128 {
	return r.fft.Coefficients(nil, signal)
}

// Inverse returns the real-valued time-domain signal from a spectrum
// produced by Forward, normalized by the transform length.
func (r *RealFFT) Inverse(spectrum []complex128) []float64 {
	out := r.fft.Sequence(nil, spectrum)
	scale := 1.0 / float64(r.n)
	for i := range out {
		out[i] *= scale
	}
	return out
}

// Len returns the planned transform length.
func (r *RealFFT) Len() int { return r.n }

// ComplexForward runs a complex FFT via the go-dsp backend, used by the
// Whitened method so it can manipulate magnitude and phase directly.
func ComplexForward(signal []float64) []complex128 {
	complexIn := make([]complex128, len(signal))
	for i, v := range signal {
		complexIn[i] = complex(v, 0)
	}
	return godsp.FFT(complexIn)
}

// ComplexInverse runs the matching inverse complex FFT, returning the real
// part of the result scaled by the transform length (go-dsp's IFFT already
// divides by N).
func ComplexInverse(spectrum []complex128) []float64 {
	out := godsp.IFFT(spectrum)
	result := make([]float64, len(out))
	for i, c := range out {
		result[i] = real(c)
	}
	return result
}

package syncaudio

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/syncalign/core/internal/synclog"
)

// WavDecoder decodes PCM WAV files via go-audio/wav, down-mixing to mono
// and resampling to the requested target rate (linear interpolation unless
// HighQuality is set).
type WavDecoder struct {
	// HighQuality switches the resampler from linear interpolation to a
	// windowed-sinc kernel.
	HighQuality bool
}

// NewWavDecoder returns a WavDecoder using the given resampling quality.
func NewWavDecoder(highQuality bool) *WavDecoder {
	return &WavDecoder{HighQuality: highQuality}
}

const readChunkSamples = 4096

// Decode implements Decoder.
func (d *WavDecoder) Decode(path string, targetSampleRate int) (*Data, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid WAV file", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	synclog.ForComponent("syncaudio").Debug("decoding wav",
		"path", path, "sample_rate", format.SampleRate, "channels", format.NumChannels, "bit_depth", bitDepth)

	raw := make([]int, 0)
	for {
		buf := &audio.IntBuffer{Format: format, Data: make([]int, readChunkSamples)}
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return nil, fmt.Errorf("reading PCM from %s: %w", path, err)
		}
		if n == 0 {
			break
		}
		raw = append(raw, buf.Data[:n]...)
	}

	if len(raw) == 0 {
		return nil, &ErrEmptyAudio{Path: path}
	}

	samples := intToFloat64(raw, bitDepth)
	if format.NumChannels > 1 {
		samples = downmixToMono(samples, format.NumChannels)
	}

	sourceRate := format.SampleRate
	if targetSampleRate > 0 && targetSampleRate != sourceRate {
		samples = d.resample(samples, sourceRate, targetSampleRate)
		sourceRate = targetSampleRate
	}

	return &Data{
		Samples:  samples,
		Format:   Format{SampleRate: sourceRate, Channels: 1},
		Duration: time.Duration(float64(len(samples)) / float64(sourceRate) * float64(time.Second)),
	}, nil
}

func intToFloat64(raw []int, bitDepth int) []float64 {
	maxVal := float64(int64(1) << uint(bitDepth-1))
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v) / maxVal
	}
	return out
}

func downmixToMono(samples []float64, channels int) []float64 {
	frames := len(samples) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		out[i] = sum / float64(channels)
	}
	return out
}

// resample performs linear interpolation resampling, or a windowed-sinc
// resampler when HighQuality is set.
func (d *WavDecoder) resample(samples []float64, sourceRate, targetRate int) []float64 {
	if d.HighQuality {
		return resampleSinc(samples, sourceRate, targetRate)
	}
	return resampleLinear(samples, sourceRate, targetRate)
}

func resampleLinear(samples []float64, sourceRate, targetRate int) []float64 {
	if len(samples) == 0 || sourceRate == targetRate {
		return samples
	}
	ratio := float64(sourceRate) / float64(targetRate)
	outLen := int(float64(len(samples)) / ratio)
	out := make([]float64, outLen)
	for i := range out {
		srcPos := float64(i) * ratio
		idx := int(srcPos)
		frac := srcPos - float64(idx)
		if idx+1 < len(samples) {
			out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
		} else if idx < len(samples) {
			out[i] = samples[idx]
		}
	}
	return out
}

// resampleSinc is a windowed-sinc resampler (Lanczos window, a=4) used
// when higher resampling fidelity than linear interpolation is requested.
func resampleSinc(samples []float64, sourceRate, targetRate int) []float64 {
	if len(samples) == 0 || sourceRate == targetRate {
		return samples
	}
	const a = 4
	ratio := float64(sourceRate) / float64(targetRate)
	outLen := int(float64(len(samples)) / ratio)
	out := make([]float64, outLen)
	for i := range out {
		srcPos := float64(i) * ratio
		center := int(srcPos)
		sum := 0.0
		weightSum := 0.0
		for k := center - a + 1; k <= center+a; k++ {
			if k < 0 || k >= len(samples) {
				continue
			}
			w := lanczosKernel(srcPos-float64(k), a)
			sum += samples[k] * w
			weightSum += w
		}
		if weightSum != 0 {
			out[i] = sum / weightSum
		}
	}
	return out
}

func lanczosKernel(x float64, a int) float64 {
	if x == 0 {
		return 1
	}
	af := float64(a)
	if x < -af || x > af {
		return 0
	}
	return sinc(x) * sinc(x/af)
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

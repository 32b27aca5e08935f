package syncaudio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDataSampleAt(t *testing.T) {
	d := &Data{
		Samples: []float64{0, 0.1, 0.2, 0.3, 0.4},
		Format:  Format{SampleRate: 10},
	}
	assert.InDelta(t, 0.2, d.SampleAt(200*time.Millisecond), 1e-9)
	assert.Equal(t, 0.0, d.SampleAt(10*time.Second))
}

func TestDataSliceZeroPadsTail(t *testing.T) {
	d := &Data{
		Samples: []float64{1, 2, 3},
		Format:  Format{SampleRate: 1},
	}
	out := d.Slice(0, 5*time.Second)
	assert.Equal(t, []float64{1, 2, 3, 0, 0}, out)
}

func TestDownmixToMonoAveragesChannels(t *testing.T) {
	stereo := []float64{1, -1, 0.5, 0.5}
	mono := downmixToMono(stereo, 2)
	assert.Equal(t, []float64{0, 0.5}, mono)
}

func TestIntToFloat64ScalesByBitDepth(t *testing.T) {
	raw := []int{32767, -32768, 0}
	out := intToFloat64(raw, 16)
	assert.InDelta(t, 1.0, out[0], 1e-4)
	assert.InDelta(t, -1.0, out[1], 1e-4)
	assert.Equal(t, 0.0, out[2])
}

func TestResampleLinearPreservesLengthRatio(t *testing.T) {
	samples := make([]float64, 1000)
	for i := range samples {
		samples[i] = float64(i)
	}
	out := resampleLinear(samples, 1000, 500)
	assert.InDelta(t, 500, len(out), 2)
}

func TestResampleLinearNoOpWhenRatesMatch(t *testing.T) {
	samples := []float64{1, 2, 3}
	out := resampleLinear(samples, 100, 100)
	assert.Equal(t, samples, out)
}

func TestResampleSincPreservesLengthRatio(t *testing.T) {
	samples := make([]float64, 1000)
	for i := range samples {
		samples[i] = float64(i)
	}
	out := resampleSinc(samples, 1000, 500)
	assert.InDelta(t, 500, len(out), 2)
}

func TestErrEmptyAudioMessage(t *testing.T) {
	err := &ErrEmptyAudio{Path: "x.wav"}
	assert.Contains(t, err.Error(), "x.wav")
}

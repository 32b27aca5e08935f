// Package syncaudio defines the decoded-audio types the analysis core
// operates on and a Decoder collaborator that turns a media file into mono
// float64 PCM at a known sample rate.
package syncaudio

import (
	"fmt"
	"time"
)

// Format describes the sample rate and channel layout of decoded PCM.
type Format struct {
	SampleRate int
	Channels   int
}

// Data holds an entire decoded media source: mono float64 samples in
// [-1, 1], its format, and total duration.
type Data struct {
	Samples  []float64
	Format   Format
	Duration time.Duration
}

// NumSamples returns len(Samples).
func (d *Data) NumSamples() int {
	return len(d.Samples)
}

// SampleAt returns the sample value at t, or 0 if t falls outside the
// decoded range.
func (d *Data) SampleAt(t time.Duration) float64 {
	idx := int(t.Seconds() * float64(d.Format.SampleRate))
	if idx < 0 || idx >= len(d.Samples) {
		return 0
	}
	return d.Samples[idx]
}

// Chunk is a contiguous slice of Data taken at Position for Duration.
type Chunk struct {
	Index    int
	Position time.Duration
	Duration time.Duration
	Samples  []float64
}

// Slice extracts count samples from d starting at position, zero-padding
// the tail if the source runs out before count samples are gathered. This
// mirrors how a short trailing chunk near end-of-file is handled rather
// than being rejected outright.
func (d *Data) Slice(position time.Duration, length time.Duration) []float64 {
	start := int(position.Seconds() * float64(d.Format.SampleRate))
	count := int(length.Seconds() * float64(d.Format.SampleRate))
	if start < 0 {
		start = 0
	}
	out := make([]float64, count)
	if start >= len(d.Samples) {
		return out
	}
	n := copy(out, d.Samples[start:])
	_ = n
	return out
}

// Decoder turns a file path into decoded mono Data, resampled to
// targetSampleRate when it differs from the source's native rate. Implementations are expected to down-mix
// multi-channel sources to mono by averaging channels.
type Decoder interface {
	Decode(path string, targetSampleRate int) (*Data, error)
}

// ErrEmptyAudio is returned by a Decoder when a file decodes to zero
// samples.
type ErrEmptyAudio struct {
	Path string
}

func (e *ErrEmptyAudio) Error() string {
	return fmt.Sprintf("syncaudio: %s decoded to zero samples", e.Path)
}

// Package syncvideo refines an audio-derived delay estimate by matching
// video frames at candidate whole-frame offsets. It never runs
// on its own: it is only ever asked to confirm or reject a handful of
// integer-frame candidates clustered around an already-estimated delay.
package syncvideo

import (
	"image"
)

// Frame is a single decoded video frame together with its presentation
// timestamp relative to its own source's start.
type Frame struct {
	Index   int
	PtsSec  float64
	Image   image.Image
}

// Properties describes what FrameSource.Open needs to know before
// checkpoints can be chosen: frame rate and duration.
type Properties struct {
	FPS             float64
	DurationSeconds float64
	Interlaced      bool
}

// FrameSource abstracts video frame extraction so the refinement pass does
// not depend on any one decoding backend.
type FrameSource interface {
	// Open prepares path for frame reads and reports its Properties.
	Open(path string) (Properties, error)
	// FrameAt decodes the frame nearest ptsSec.
	FrameAt(ptsSec float64) (Frame, error)
	// Close releases any resources Open acquired.
	Close() error
}

// Package syncchunk plans and extracts the fixed-position chunk pairs that
// every correlation method runs against.
package syncchunk

import (
	"math"
	"time"

	"github.com/syncalign/core/internal/syncaudio"
	"github.com/syncalign/core/internal/syncerrors"
)

// Plan is one planned chunk position and its duration.
type Plan struct {
	Index    int
	Position time.Duration
	Duration time.Duration
}

// PlanChunks converts (duration, chunk_count, chunk_duration, scan_start_pct,
// scan_end_pct) into a list of chunk start times. An empty
// result (usable <= 0) is not itself an error; callers surface
// InvalidAudio("no valid chunk positions").
func PlanChunks(totalDuration time.Duration, chunkCount int, chunkDuration, scanStartPct, scanEndPct float64) []Plan {
	d := totalDuration.Seconds()
	t0 := d * scanStartPct / 100
	t1 := d * scanEndPct / 100
	usable := t1 - t0 - chunkDuration

	if usable <= 0 {
		return nil
	}

	dur := time.Duration(chunkDuration * float64(time.Second))

	if chunkCount == 1 {
		return []Plan{{
			Index:    0,
			Position: time.Duration((t0 + usable/2) * float64(time.Second)),
			Duration: dur,
		}}
	}

	step := usable / float64(chunkCount-1)
	plans := make([]Plan, chunkCount)
	for i := 0; i < chunkCount; i++ {
		pos := t0 + float64(i)*step
		plans[i] = Plan{
			Index:    i,
			Position: time.Duration(pos * float64(time.Second)),
			Duration: dur,
		}
	}
	return plans
}

// RequireValidPlan plans chunks and returns syncerrors.InvalidAudio if the
// plan comes back empty.
func RequireValidPlan(totalDuration time.Duration, chunkCount int, chunkDuration, scanStartPct, scanEndPct float64) ([]Plan, error) {
	plans := PlanChunks(totalDuration, chunkCount, chunkDuration, scanStartPct, scanEndPct)
	if len(plans) == 0 {
		return nil, syncerrors.InvalidAudio("no valid chunk positions")
	}
	return plans, nil
}

// Pair holds the reference and other chunks extracted at the same planned
// position, ready for filtering and correlation.
type Pair struct {
	Plan  Plan
	Ref   []float64
	Other []float64
}

// RejectReason explains why a chunk pair could not be extracted or why the
// resulting ChunkResult will be rejected downstream.
type RejectReason string

const (
	RejectNone            RejectReason = ""
	RejectOutOfRange      RejectReason = "chunk position out of range"
	RejectMissingRef      RejectReason = "reference chunk missing"
	RejectMissingOther    RejectReason = "other chunk missing"
)

// Extract pulls matching reference and other chunks at plan's position. It
// fails only if [start, start+dur) would run off either buffer entirely —
// a short trailing window is still extracted, zero-padded, per
// syncaudio.Data.Slice.
func Extract(ref, other *syncaudio.Data, plan Plan) (*Pair, RejectReason) {
	refLen := time.Duration(float64(ref.NumSamples()) / float64(ref.Format.SampleRate) * float64(time.Second))
	otherLen := time.Duration(float64(other.NumSamples()) / float64(other.Format.SampleRate) * float64(time.Second))

	if plan.Position >= refLen {
		return nil, RejectMissingRef
	}
	if plan.Position >= otherLen {
		return nil, RejectMissingOther
	}

	return &Pair{
		Plan:  plan,
		Ref:   ref.Slice(plan.Position, plan.Duration),
		Other: other.Slice(plan.Position, plan.Duration),
	}, RejectNone
}

// IsSilentOrInvalid reports whether samples are empty, all-zero, or contain
// any NaN/Inf value; such chunks are rejected as invalid audio.
func IsSilentOrInvalid(samples []float64) bool {
	if len(samples) == 0 {
		return true
	}
	allZero := true
	for _, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return true
		}
		if s != 0 {
			allZero = false
		}
	}
	return allZero
}

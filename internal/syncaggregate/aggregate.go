// Package syncaggregate builds the cross-source Delays result and applies
// global-shift reconciliation so every source ends up with a
// sync_mode-consistent, non-negative (when requested) delay.
package syncaggregate

import (
	"math"
	"sort"

	"github.com/syncalign/core/internal/syncconf"
)

// ReferenceKey is the well-known map key standing in for the reference
// source itself, which always has a pre-shift delay of zero.
const ReferenceKey = "__reference__"

// Delays is the aggregate result across every source in a job.
type Delays struct {
	// RawSourceDelaysMs is each source's raw correlation delay plus the
	// reference's audio/video container-delay correction.
	RawSourceDelaysMs map[string]float64
	// PreShiftDelaysMs is a snapshot of RawSourceDelaysMs taken before
	// global-shift reconciliation, kept for diagnostics.
	PreShiftDelaysMs map[string]float64
	GlobalShiftMs    int64
	SourceDelaysMs   map[string]int64
}

// BuildRawDelays applies the container-delay correction to every source's
// raw correlation delay. sourceDelaysMsRaw maps
// source name to its SourceAnalysisResult's delay_ms_raw.
func BuildRawDelays(sourceDelaysMsRaw map[string]float64, containerDelayCorrectionMs float64) map[string]float64 {
	out := make(map[string]float64, len(sourceDelaysMsRaw))
	for name, raw := range sourceDelaysMsRaw {
		out[name] = raw + containerDelayCorrectionMs
	}
	return out
}

// ApplyGlobalShift computes global_shift_ms from raw and builds the final
// Delays, including the always-present reference entry.
func ApplyGlobalShift(raw map[string]float64, syncMode syncconf.SyncMode) *Delays {
	preShift := make(map[string]float64, len(raw))
	for k, v := range raw {
		preShift[k] = v
	}

	shift := computeGlobalShift(raw, syncMode)

	sourceDelays := make(map[string]int64, len(raw)+1)
	sourceDelays[ReferenceKey] = shift
	for name, v := range raw {
		sourceDelays[name] = int64(math.Round(v + float64(shift)))
	}

	return &Delays{
		RawSourceDelaysMs: raw,
		PreShiftDelaysMs:  preShift,
		GlobalShiftMs:     shift,
		SourceDelaysMs:    sourceDelays,
	}
}

// computeGlobalShift implements the public apply_global_shift(delays,
// sync_mode) -> i64 contract.
func computeGlobalShift(raw map[string]float64, syncMode syncconf.SyncMode) int64 {
	if syncMode != syncconf.SyncPositiveOnly || len(raw) == 0 {
		return 0
	}
	min := math.Inf(1)
	for _, v := range raw {
		if v < min {
			min = v
		}
	}
	if min >= 0 {
		return 0
	}
	return int64(math.Ceil(-min))
}

// SortedSourceNames returns the non-reference source keys of d in
// deterministic sorted order, matching the "sorted by source key"
// processing order required elsewhere in the job.
func (d *Delays) SortedSourceNames() []string {
	names := make([]string, 0, len(d.SourceDelaysMs))
	for name := range d.SourceDelaysMs {
		if name == ReferenceKey {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

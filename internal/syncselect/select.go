// Package syncselect picks one representative delay out of a source's
// accepted chunk results, using one of five interchangeable strategies.
package syncselect

import (
	"fmt"
	"math"
	"sort"

	"github.com/syncalign/core/internal/syncchunk"
	"github.com/syncalign/core/internal/syncconf"
	"github.com/syncalign/core/internal/syncerrors"
)

// DelaySelection is the selector's output: the chosen delay and a
// human-readable details string for logs/UI.
type DelaySelection struct {
	Mode           syncconf.SelectionMode
	DelayMsRaw     float64
	DelayMsRounded int
	Details        string
}

// newSelection builds a DelaySelection, deriving DelayMsRounded from
// DelayMsRaw the way every other rounded/raw pair in this module does.
func newSelection(mode syncconf.SelectionMode, delayMsRaw float64, details string) *DelaySelection {
	return &DelaySelection{
		Mode:           mode,
		DelayMsRaw:     delayMsRaw,
		DelayMsRounded: int(math.Round(delayMsRaw)),
		Details:        details,
	}
}

const clusterToleranceMs = 1.0

// Select runs the configured selection mode over accepted and returns
// syncerrors.SelectorFailed if no delay can be chosen.
func Select(accepted []syncchunk.ChunkResult, cfg syncconf.SelectorSettings) (*DelaySelection, error) {
	if len(accepted) == 0 {
		return nil, syncerrors.SelectorFailed(fmt.Sprintf("%s: no accepted chunks", cfg.Mode), 0)
	}

	switch cfg.Mode {
	case syncconf.SelectModeMode:
		return selectMode(accepted, false, len(accepted), 0)
	case syncconf.SelectModeClustered:
		return selectMode(accepted, true, len(accepted), 0)
	case syncconf.SelectModeEarly:
		return selectEarly(accepted, cfg)
	case syncconf.SelectModeFirstStable:
		return selectFirstStable(accepted, cfg)
	case syncconf.SelectModeAverage:
		return selectAverage(accepted), nil
	default:
		return nil, syncerrors.SelectorFailed(fmt.Sprintf("unrecognized selection mode %q", cfg.Mode), len(accepted))
	}
}

type bucket struct {
	center   float64
	members  []syncchunk.ChunkResult
	firstIdx int
	lastIdx  int
}

// groupByRoundedMs histogram-buckets accepted chunks by their raw delay
// rounded to 1 ms.
func groupByRoundedMs(accepted []syncchunk.ChunkResult) map[int][]syncchunk.ChunkResult {
	groups := make(map[int][]syncchunk.ChunkResult)
	for _, c := range accepted {
		key := int(math.Round(c.DelayMsRaw))
		groups[key] = append(groups[key], c)
	}
	return groups
}

// groupClustered groups accepted chunks whose raw delay falls within
// clusterToleranceMs of a running cluster center.
func groupClustered(accepted []syncchunk.ChunkResult) []bucket {
	sorted := make([]syncchunk.ChunkResult, len(accepted))
	copy(sorted, accepted)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DelayMsRaw < sorted[j].DelayMsRaw })

	var buckets []bucket
	for _, c := range sorted {
		placed := false
		for i := range buckets {
			if math.Abs(c.DelayMsRaw-buckets[i].center) <= clusterToleranceMs {
				buckets[i].members = append(buckets[i].members, c)
				sum := 0.0
				for _, m := range buckets[i].members {
					sum += m.DelayMsRaw
				}
				buckets[i].center = sum / float64(len(buckets[i].members))
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{center: c.DelayMsRaw, members: []syncchunk.ChunkResult{c}})
		}
	}
	return buckets
}

func meanMatchPct(members []syncchunk.ChunkResult) float64 {
	sum := 0.0
	for _, m := range members {
		sum += m.MatchPct
	}
	return sum / float64(len(members))
}

func meanDelay(members []syncchunk.ChunkResult) float64 {
	sum := 0.0
	for _, m := range members {
		sum += m.DelayMsRaw
	}
	return sum / float64(len(members))
}

// selectMode implements both Mode and Mode clustered: clustered groups by
// proximity first, plain mode groups by rounded-ms bucket. Ties between
// equally sized groups break on the highest mean match_pct.
func selectMode(accepted []syncchunk.ChunkResult, clustered bool, total, _ int) (*DelaySelection, error) {
	var best bucket
	bestCount := -1
	bestMeanMatch := -1.0

	consider := func(center float64, members []syncchunk.ChunkResult) {
		count := len(members)
		mean := meanMatchPct(members)
		if count > bestCount || (count == bestCount && mean > bestMeanMatch) {
			best = bucket{center: center, members: members}
			bestCount = count
			bestMeanMatch = mean
		}
	}

	if clustered {
		for _, b := range groupClustered(accepted) {
			consider(b.center, b.members)
		}
	} else {
		for key, members := range groupByRoundedMs(accepted) {
			consider(float64(key), members)
		}
	}

	if bestCount <= 0 {
		mode := "mode"
		if clustered {
			mode = "mode_clustered"
		}
		return nil, syncerrors.SelectorFailed(fmt.Sprintf("%s: no cluster found", mode), total)
	}

	modeName := "mode"
	if clustered {
		modeName = "mode_clustered"
	}
	delay := meanDelay(best.members)
	details := fmt.Sprintf("%s=%d ms, count=%d/%d", modeName, int(math.Round(delay)), bestCount, total)
	selectorMode := syncconf.SelectModeMode
	if clustered {
		selectorMode = syncconf.SelectModeClustered
	}
	return newSelection(selectorMode, delay, details), nil
}

// selectEarly implements Mode early: Mode clustered restricted to the
// first early_cluster_window accepted chunks in order, requiring at least
// early_cluster_threshold members.
func selectEarly(accepted []syncchunk.ChunkResult, cfg syncconf.SelectorSettings) (*DelaySelection, error) {
	sorted := make([]syncchunk.ChunkResult, len(accepted))
	copy(sorted, accepted)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	window := sorted
	if len(window) > cfg.EarlyClusterWindow {
		window = window[:cfg.EarlyClusterWindow]
	}

	buckets := groupClustered(window)
	var best bucket
	bestCount := -1
	bestMeanMatch := -1.0
	for _, b := range buckets {
		mean := meanMatchPct(b.members)
		if len(b.members) > bestCount || (len(b.members) == bestCount && mean > bestMeanMatch) {
			best = b
			bestCount = len(b.members)
			bestMeanMatch = mean
		}
	}

	if bestCount < cfg.EarlyClusterThreshold {
		return nil, syncerrors.SelectorFailed(
			fmt.Sprintf("mode_early: no cluster reached threshold %d within first %d chunks", cfg.EarlyClusterThreshold, cfg.EarlyClusterWindow),
			len(accepted))
	}

	delay := meanDelay(best.members)
	details := fmt.Sprintf("mode_early=%d ms, count=%d/%d (window=%d)", int(math.Round(delay)), bestCount, len(window), cfg.EarlyClusterWindow)
	return newSelection(syncconf.SelectModeEarly, delay, details), nil
}

// selectFirstStable scans chunks in order, finds the earliest contiguous
// run of length >= first_stable_min_chunks in which every pair agrees
// within clusterToleranceMs, and returns its mean.
func selectFirstStable(accepted []syncchunk.ChunkResult, cfg syncconf.SelectorSettings) (*DelaySelection, error) {
	sorted := make([]syncchunk.ChunkResult, len(accepted))
	copy(sorted, accepted)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	for start := 0; start <= len(sorted)-cfg.FirstStableMinChunks; start++ {
		run := sorted[start : start+cfg.FirstStableMinChunks]
		if runIsStable(run) {
			if !cfg.FirstStableSkipUnstable {
				for _, outlier := range sorted[:start] {
					if !withinTolerance(outlier.DelayMsRaw, meanDelay(run), cfg.FirstStableOutlierToleranceMS) {
						return nil, syncerrors.SelectorFailed(
							fmt.Sprintf("first_stable: outlier at chunk %d exceeds tolerance %.2fms before stable run", outlier.Index, cfg.FirstStableOutlierToleranceMS),
							len(accepted))
					}
				}
			}
			delay := meanDelay(run)
			details := fmt.Sprintf("first_stable=%d ms, count=%d/%d, members@chunks %d..%d",
				int(math.Round(delay)), len(run), len(accepted), run[0].Index, run[len(run)-1].Index)
			return newSelection(syncconf.SelectModeFirstStable, delay, details), nil
		}
	}

	return nil, syncerrors.SelectorFailed(
		fmt.Sprintf("first_stable: no contiguous run of %d chunks agreed within %.1fms", cfg.FirstStableMinChunks, clusterToleranceMs),
		len(accepted))
}

func runIsStable(run []syncchunk.ChunkResult) bool {
	for i := range run {
		for j := i + 1; j < len(run); j++ {
			if math.Abs(run[i].DelayMsRaw-run[j].DelayMsRaw) > clusterToleranceMs {
				return false
			}
		}
	}
	return true
}

func withinTolerance(value, center, tolerance float64) bool {
	return math.Abs(value-center) <= tolerance
}

// selectAverage implements Average: the arithmetic mean of every accepted
// raw delay.
func selectAverage(accepted []syncchunk.ChunkResult) *DelaySelection {
	delay := meanDelay(accepted)
	details := fmt.Sprintf("average=%d ms, count=%d/%d", int(math.Round(delay)), len(accepted), len(accepted))
	return newSelection(syncconf.SelectModeAverage, delay, details)
}

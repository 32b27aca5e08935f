package syncvideo

import (
	"math"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/syncalign/core/internal/syncconf"
)

// Reason codes for video-verified outcomes. Stable strings: the
// host may show them to a user or log them verbatim.
const (
	ReasonFrameMatched                        = "frame-matched"
	ReasonLowConfidenceMatch                   = "low-confidence-match"
	ReasonFallbackNoFrameUtils                 = "fallback-no-frame-utils"
	ReasonFallbackSourceNotFound                = "fallback-source-not-found"
	ReasonFallbackTargetNotFound                = "fallback-target-not-found"
	ReasonFallbackSourcePropsFailed             = "fallback-source-props-failed"
	ReasonFallbackTargetPropsFailed             = "fallback-target-props-failed"
	ReasonFallbackSourceOpenFailed              = "fallback-source-open-failed"
	ReasonFallbackTargetOpenFailed              = "fallback-target-open-failed"
	ReasonFallbackNoValidCandidates             = "fallback-no-valid-candidates"
	ReasonFallbackInsufficientInterlacedMatches = "fallback-insufficient-interlaced-matches"
)

// Result is the outcome of verify-against-video refinement.
// MatchedCheckpoints and VerifiedSequences are diagnostic counters carried
// over from the winning candidate so a caller can judge how confident a
// "success" really was. CorrelationID identifies one Verify run in logs
// and metrics labels.
type Result struct {
	DelayMs            float64
	FrameOffset        int
	Success            bool
	Reason             string
	MatchedCheckpoints int
	VerifiedSequences  int
	CorrelationID      string
}

// fallback builds a Result that keeps the audio-only delay unchanged,
// tagged with reason.
func fallback(totalDelayMs float64, reason, correlationID string) *Result {
	return &Result{DelayMs: totalDelayMs, Success: false, Reason: reason, CorrelationID: correlationID}
}

// newCorrelationID mints a short run identifier for one Verify call: a full
// UUID truncated to its first 8 characters.
func newCorrelationID() string {
	return uuid.New().String()[:8]
}

type candidate struct {
	offset           int
	matchedCount     int
	verifiedSeqCount int
	totalDistance    float64
	comparisons      int
}

func (c candidate) avgDistance() float64 {
	if c.comparisons == 0 {
		return math.Inf(1)
	}
	return c.totalDistance / float64(c.comparisons)
}

// Verify refines an audio-derived total delay by snapping it to the
// nearest small integer video-frame offset. Every routine
// failure — missing files, unopenable videos, no surviving candidate —
// downgrades to the unmodified audio delay carrying a stable reason code;
// Verify never returns a Go error for those cases.
func Verify(totalDelayMs float64, globalShiftMs int64, sourceVideoPath, targetVideoPath string, source, target FrameSource, cfg syncconf.VideoVerifiedSettings) *Result {
	correlationID := newCorrelationID()

	if source == nil || target == nil {
		return fallback(totalDelayMs, ReasonFallbackNoFrameUtils, correlationID)
	}
	if _, err := os.Stat(sourceVideoPath); err != nil {
		return fallback(totalDelayMs, ReasonFallbackSourceNotFound, correlationID)
	}
	if _, err := os.Stat(targetVideoPath); err != nil {
		return fallback(totalDelayMs, ReasonFallbackTargetNotFound, correlationID)
	}

	srcProps, err := source.Open(sourceVideoPath)
	if err != nil {
		return fallback(totalDelayMs, ReasonFallbackSourceOpenFailed, correlationID)
	}
	defer source.Close()
	if srcProps.FPS <= 0 {
		return fallback(totalDelayMs, ReasonFallbackSourcePropsFailed, correlationID)
	}

	tgtProps, err := target.Open(targetVideoPath)
	if err != nil {
		return fallback(totalDelayMs, ReasonFallbackTargetOpenFailed, correlationID)
	}
	defer target.Close()
	if tgtProps.FPS <= 0 {
		return fallback(totalDelayMs, ReasonFallbackTargetPropsFailed, correlationID)
	}

	// Interlaced content is decided up front so every tunable (checkpoint
	// count, search range, hash params, sequence length) is resolved to its
	// interlaced-aware value before the candidate scan begins, not only at
	// the final fallback decision.
	interlaced := srcProps.Interlaced || tgtProps.Interlaced
	effCfg := cfg.Effective(interlaced)

	pureCorrelationMs := totalDelayMs - float64(globalShiftMs)
	baseFrames := pureCorrelationMs / 1000 * srcProps.FPS

	floorFrames := int(math.Floor(baseFrames))
	ceilFrames := int(math.Ceil(baseFrames))
	lo := floorFrames - effCfg.SearchRange
	hi := ceilFrames + effCfg.SearchRange

	shorterDuration := math.Min(srcProps.DurationSeconds, tgtProps.DurationSeconds)
	checkpoints := checkpointTimes(shorterDuration, effCfg.NumCheckpoints)

	var candidates []candidate
	for o := lo; o <= hi; o++ {
		c := evaluateCandidate(o, checkpoints, srcProps, tgtProps, source, target, effCfg)
		if c.comparisons > 0 {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return fallback(totalDelayMs, ReasonFallbackNoValidCandidates, correlationID)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.verifiedSeqCount != b.verifiedSeqCount {
			return a.verifiedSeqCount > b.verifiedSeqCount
		}
		if a.matchedCount != b.matchedCount {
			return a.matchedCount > b.matchedCount
		}
		return a.avgDistance() < b.avgDistance()
	})
	winner := candidates[0]

	success := winner.verifiedSeqCount > 0 || float64(winner.matchedCount) >= 0.5*float64(effCfg.NumCheckpoints)
	correctedDelay := float64(winner.offset)*(1000/tgtProps.FPS) + float64(globalShiftMs)

	if !success {
		if interlaced && effCfg.InterlacedFallback {
			return fallback(totalDelayMs, ReasonFallbackInsufficientInterlacedMatches, correlationID)
		}
		return &Result{
			DelayMs:            correctedDelay,
			FrameOffset:        winner.offset,
			Success:            false,
			Reason:             ReasonLowConfidenceMatch,
			MatchedCheckpoints: winner.matchedCount,
			VerifiedSequences:  winner.verifiedSeqCount,
			CorrelationID:      correlationID,
		}
	}

	return &Result{
		DelayMs:            correctedDelay,
		FrameOffset:        winner.offset,
		Success:            true,
		Reason:             ReasonFrameMatched,
		MatchedCheckpoints: winner.matchedCount,
		VerifiedSequences:  winner.verifiedSeqCount,
		CorrelationID:      correlationID,
	}
}

// checkpointTimes returns n evenly spread timestamps across [0, duration).
func checkpointTimes(duration float64, n int) []float64 {
	if n <= 0 || duration <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{duration / 2}
	}
	times := make([]float64, n)
	step := duration / float64(n)
	for i := 0; i < n; i++ {
		times[i] = step/2 + float64(i)*step
	}
	return times
}

// evaluateCandidate scores one integer frame offset across every
// checkpoint: on a match it verifies sequence_length-1
// consecutive pairs and counts the checkpoint as a verified sequence when
// at least 70% of the run (the initial match plus those pairs) agrees.
func evaluateCandidate(offset int, checkpoints []float64, srcProps, tgtProps Properties, source, target FrameSource, cfg syncconf.VideoVerifiedSettings) candidate {
	c := candidate{offset: offset}

	for _, t := range checkpoints {
		srcFrame, tgtFrame, ok := pairAt(t, offset, srcProps, tgtProps, source, target)
		if !ok {
			continue
		}
		distance, err := Distance(srcFrame.Image, tgtFrame.Image, cfg)
		if err != nil {
			continue
		}
		c.comparisons++
		c.totalDistance += distance
		if !Matched(distance, cfg) {
			continue
		}
		c.matchedCount++

		if verifySequence(t, offset, srcProps, tgtProps, source, target, cfg) {
			c.verifiedSeqCount++
		}
	}
	return c
}

// pairAt reads the source frame at ptsSec and the target frame whose index
// is that source frame's index plus offset, converted to target pts via the
// target's own frame rate.
func pairAt(ptsSec float64, offset int, srcProps, tgtProps Properties, source, target FrameSource) (Frame, Frame, bool) {
	if ptsSec < 0 || ptsSec > srcProps.DurationSeconds {
		return Frame{}, Frame{}, false
	}
	srcFrame, err := source.FrameAt(ptsSec)
	if err != nil {
		return Frame{}, Frame{}, false
	}

	srcFrameIdx := math.Floor(ptsSec * srcProps.FPS)
	tgtFrameIdx := srcFrameIdx + float64(offset)
	if tgtFrameIdx < 0 {
		return Frame{}, Frame{}, false
	}
	tgtPtsSec := tgtFrameIdx / tgtProps.FPS
	if tgtPtsSec > tgtProps.DurationSeconds {
		return Frame{}, Frame{}, false
	}

	tgtFrame, err := target.FrameAt(tgtPtsSec)
	if err != nil {
		return Frame{}, Frame{}, false
	}
	return srcFrame, tgtFrame, true
}

// verifySequence checks sequence_length-1 additional consecutive pairs
// starting one source frame after ptsSec, counting the checkpoint's own
// already-confirmed match as the first element of the run: the 70%
// threshold is evaluated over sequence_length total comparisons (the
// initial match plus up to sequence_length-1 more), not just the
// additional ones.
func verifySequence(ptsSec float64, offset int, srcProps, tgtProps Properties, source, target FrameSource, cfg syncconf.VideoVerifiedSettings) bool {
	pairs := cfg.SequenceLength - 1
	if pairs <= 0 {
		return true
	}
	agree := 1
	considered := 1
	for i := 1; i <= pairs; i++ {
		t := ptsSec + float64(i)/srcProps.FPS
		srcFrame, tgtFrame, ok := pairAt(t, offset, srcProps, tgtProps, source, target)
		if !ok {
			continue
		}
		considered++
		distance, err := Distance(srcFrame.Image, tgtFrame.Image, cfg)
		if err != nil {
			continue
		}
		if Matched(distance, cfg) {
			agree++
		}
	}
	return float64(agree)/float64(considered) >= 0.7
}

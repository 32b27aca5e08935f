package syncengine

import (
	"github.com/syncalign/core/internal/syncaggregate"
	"github.com/syncalign/core/internal/syncconf"
)

// BuildDelays turns one operative SourceAnalysisResult per non-reference
// source into the job-level Delays aggregate, applying the reference's
// audio/video container-delay correction before global-shift
// reconciliation. containerDelayCorrectionMs is audio_container_delay_ms -
// video_container_delay_ms on the reference, as obtained from the
// container-delay prober collaborator.
func BuildDelays(operative map[string]*SourceAnalysisResult, containerDelayCorrectionMs float64, syncMode syncconf.SyncMode) *syncaggregate.Delays {
	raw := make(map[string]float64, len(operative))
	for source, result := range operative {
		raw[source] = result.Delay.DelayMsRaw
	}
	corrected := syncaggregate.BuildRawDelays(raw, containerDelayCorrectionMs)
	return syncaggregate.ApplyGlobalShift(corrected, syncMode)
}

// CorrectedMultiMethodDelays applies the same container-delay correction
// uniformly to every surfaced method's raw delay for every source, for
// side-by-side comparison rather than for the job's operative Delays
// aggregate. Shifting only the operative method would let a "for
// comparison" method silently carry a different, unshifted delay.
func CorrectedMultiMethodDelays(perSourceMulti map[string]map[string]*SourceAnalysisResult, containerDelayCorrectionMs float64) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(perSourceMulti))
	for source, byMethod := range perSourceMulti {
		corrected := make(map[string]float64, len(byMethod))
		for method, result := range byMethod {
			corrected[method] = result.Delay.DelayMsRaw + containerDelayCorrectionMs
		}
		out[source] = corrected
	}
	return out
}

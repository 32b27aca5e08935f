// Package syncengine orchestrates one source's chunked, multi-stage delay
// analysis end to end: planning, extraction, filtering, correlation, peak
// fitting, acceptance, selection, and drift diagnosis. It is the glue between the leaf packages, not a
// leaf itself — every algorithm it calls lives in its own package.
package syncengine

import (
	"fmt"
	"time"

	"github.com/syncalign/core/internal/syncaudio"
	"github.com/syncalign/core/internal/syncchunk"
	"github.com/syncalign/core/internal/syncconf"
	"github.com/syncalign/core/internal/synccorrelate"
	"github.com/syncalign/core/internal/syncdrift"
	"github.com/syncalign/core/internal/syncdsp/filter"
	"github.com/syncalign/core/internal/syncerrors"
	"github.com/syncalign/core/internal/synclog"
	"github.com/syncalign/core/internal/syncpeakfit"
	"github.com/syncalign/core/internal/syncselect"
)

// SourceAnalysisResult is the final output for one non-reference source.
type SourceAnalysisResult struct {
	SourceName        string
	CorrelationMethod string
	Delay             syncselect.DelaySelection
	AvgMatchPct       float64
	AcceptedChunks    int
	TotalChunks       int
	ChunkResults      []syncchunk.ChunkResult
	DriftDetected     bool
	Drift             syncdrift.DriftDiagnosis
}

// MetricsRecorder is an optional observer the orchestrator reports to; the
// core's public contract does not require one. A nil recorder is always
// safe to pass.
type MetricsRecorder interface {
	RecordChunkAccepted(method, source string)
	RecordChunkRejected(method, source, reason string)
	RecordSelectorFailure(method, source string)
	RecordDrift(method, source string, kind syncdrift.DriftKind)
	RecordVideoVerifiedOutcome(reason string)
}

type nopRecorder struct{}

func (nopRecorder) RecordChunkAccepted(string, string)             {}
func (nopRecorder) RecordChunkRejected(string, string, string)     {}
func (nopRecorder) RecordSelectorFailure(string, string)           {}
func (nopRecorder) RecordDrift(string, string, syncdrift.DriftKind) {}
func (nopRecorder) RecordVideoVerifiedOutcome(string)              {}

// NopRecorder is a MetricsRecorder that discards everything.
var NopRecorder MetricsRecorder = nopRecorder{}

// ReferenceResult synthesizes the reference source's own entry: zero delay,
// perfect stability, never actually correlated against itself.
func ReferenceResult(sourceName string) *SourceAnalysisResult {
	return &SourceAnalysisResult{
		SourceName:        sourceName,
		CorrelationMethod: "reference",
		Delay:             syncselect.DelaySelection{DelayMsRaw: 0, Details: "reference source"},
		AvgMatchPct:       100,
		AcceptedChunks:    1,
		TotalChunks:       1,
		DriftDetected:     false,
		Drift:             syncdrift.DriftDiagnosis{Kind: syncdrift.DriftUniform, Description: "reference source"},
	}
}

// Analyze runs a single correlation method end to end against one other
// source and returns its SourceAnalysisResult: plan chunks, iterate,
// aggregate, select, diagnose drift. Decoding has already happened on the
// caller's side.
func Analyze(ref, other *syncaudio.Data, sourceName string, method synccorrelate.Method, settings *syncconf.Settings, sink synclog.ProgressSink, recorder MetricsRecorder) (*SourceAnalysisResult, error) {
	if sink == nil {
		sink = synclog.NopProgressSink{}
	}
	if recorder == nil {
		recorder = NopRecorder
	}

	// Chunk positions are planned against whichever source is shorter —
	// a chunk planned only from the reference's length could still land
	// past the end of a shorter other source.
	effectiveDuration := ref.Duration
	if other.Duration < effectiveDuration {
		effectiveDuration = other.Duration
	}
	plans, err := syncchunk.RequireValidPlan(effectiveDuration, settings.ChunkCount, settings.ChunkDuration, settings.ScanStartPct, settings.ScanEndPct)
	if err != nil {
		return nil, err
	}

	results := make([]syncchunk.ChunkResult, 0, len(plans))
	for _, plan := range plans {
		cr := runChunk(ref, other, plan, method, settings)
		results = append(results, cr)

		if cr.Accepted {
			recorder.RecordChunkAccepted(method.Name(), sourceName)
		} else {
			recorder.RecordChunkRejected(method.Name(), sourceName, cr.RejectReason)
		}
		sink.Info(progressLine(sourceName, method.Name(), cr))
	}

	accepted := syncchunk.AcceptedOnly(results)
	if len(accepted) < settings.MinAcceptedChunks {
		return nil, syncerrors.InsufficientChunks(len(accepted), settings.MinAcceptedChunks)
	}

	selection, err := syncselect.Select(accepted, settings.Selector)
	if err != nil {
		recorder.RecordSelectorFailure(method.Name(), sourceName)
		return nil, err
	}
	sink.Info(fmt.Sprintf("%s/%s: selector=%s", sourceName, method.Name(), selection.Details))

	stability := syncdrift.ComputeStability(results)
	diagnosis := syncdrift.Diagnose(accepted, syncdrift.DefaultThresholds())
	recorder.RecordDrift(method.Name(), sourceName, diagnosis.Kind)
	sink.Info(fmt.Sprintf("%s/%s: drift=%s", sourceName, method.Name(), diagnosis.Description))

	return &SourceAnalysisResult{
		SourceName:        sourceName,
		CorrelationMethod: method.Name(),
		Delay:             *selection,
		AvgMatchPct:       stability.AvgMatchPct,
		AcceptedChunks:    len(accepted),
		TotalChunks:       len(results),
		ChunkResults:      results,
		DriftDetected:     stability.DriftDetected || diagnosis.Kind != syncdrift.DriftUniform,
		Drift:             diagnosis,
	}, nil
}

// AnalyzeMulti runs every enabled method from settings.MultiCorr.Methods
// (or all seven if unset) against the same decoded sources and chunk
// positions, keyed by method name. A method that fails does
// not prevent the others from being reported; its failure is only logged.
func AnalyzeMulti(ref, other *syncaudio.Data, sourceName string, settings *syncconf.Settings, sink synclog.ProgressSink, recorder MetricsRecorder) map[string]*SourceAnalysisResult {
	if sink == nil {
		sink = synclog.NopProgressSink{}
	}

	methods := settings.MultiCorr.Methods
	if len(methods) == 0 {
		methods = syncconf.AllMethods
	}
	enabled := make(map[syncconf.CorrelationMethod]bool, len(methods))
	for _, m := range methods {
		enabled[m] = true
	}

	all := synccorrelate.All()
	out := make(map[string]*SourceAnalysisResult)
	for _, name := range synccorrelate.OrderedNames {
		if !enabled[syncconf.CorrelationMethod(name)] {
			continue
		}
		method := all[name]
		result, err := Analyze(ref, other, sourceName, method, settings, sink, recorder)
		if err != nil {
			sink.Info(fmt.Sprintf("%s/%s: failed: %v", sourceName, name, err))
			continue
		}
		out[name] = result
	}
	return out
}

// runChunk extracts, filters, and correlates one chunk pair, always
// producing a ChunkResult — rejected rather than fatal on any failure.
func runChunk(ref, other *syncaudio.Data, plan syncchunk.Plan, method synccorrelate.Method, settings *syncconf.Settings) syncchunk.ChunkResult {
	pair, reason := syncchunk.Extract(ref, other, plan)
	if reason != syncchunk.RejectNone {
		return syncchunk.Reject(plan.Index, plan.Position, string(reason))
	}

	if syncchunk.IsSilentOrInvalid(pair.Ref) || syncchunk.IsSilentOrInvalid(pair.Other) {
		return syncchunk.Reject(plan.Index, plan.Position, "invalid audio: silent or non-finite chunk")
	}

	refSamples, otherSamples, err := applyFilter(pair.Ref, pair.Other, settings)
	if err != nil {
		return syncchunk.Reject(plan.Index, plan.Position, err.Error())
	}

	result, err := correlateChunk(refSamples, otherSamples, method, settings)
	if err != nil {
		return syncchunk.Reject(plan.Index, plan.Position, err.Error())
	}

	return syncchunk.Accept(plan.Index, plan.Position, method.Name(), result.DelayMsRaw, result.DelayMsRounded, result.MatchPct, settings.MinMatchPct)
}

// applyFilter builds a fresh FilterChain per chunk pair and applies it
// identically to both copies. A fresh chain per chunk avoids carrying IIR filter state across
// chunk boundaries that are not contiguous in the source audio.
func applyFilter(ref, other []float64, settings *syncconf.Settings) ([]float64, []float64, error) {
	if settings.Filter.Method == syncconf.FilterNone || settings.Filter.Method == "" {
		return ref, other, nil
	}

	refCopy := append([]float64(nil), ref...)
	otherCopy := append([]float64(nil), other...)

	refChain, err := filter.BuildChain(string(settings.Filter.Method), settings.Filter.LowCutoffHz, settings.Filter.HighCutoffHz, settings.Filter.Order, settings.AnalysisSampleRate)
	if err != nil {
		return nil, nil, fmt.Errorf("building filter chain: %w", err)
	}
	otherChain, err := filter.BuildChain(string(settings.Filter.Method), settings.Filter.LowCutoffHz, settings.Filter.HighCutoffHz, settings.Filter.Order, settings.AnalysisSampleRate)
	if err != nil {
		return nil, nil, fmt.Errorf("building filter chain: %w", err)
	}

	refChain.ApplyBatch(refCopy)
	otherChain.ApplyBatch(otherCopy)
	return refCopy, otherCopy, nil
}

// correlateChunk dispatches to the peak fitter when peak fit is enabled
// and method supports it, else calls Correlate directly.
func correlateChunk(ref, other []float64, method synccorrelate.Method, settings *syncconf.Settings) (synccorrelate.CorrelationResult, error) {
	if settings.UsePeakFit && method.PeakFitEligible() {
		raw, err := method.RawCorrelation(ref, other, settings.AnalysisSampleRate)
		if err != nil {
			return synccorrelate.CorrelationResult{}, err
		}
		return syncpeakfit.Fit(raw)
	}
	return method.Correlate(ref, other, settings.AnalysisSampleRate)
}

// progressLine formats one line per chunk. Chunks that never reached correlation (extraction or
// silent-audio rejections) carry no Method and are reported by reason
// alone; correlated chunks always report delay and match%.
func progressLine(sourceName, methodName string, cr syncchunk.ChunkResult) string {
	if cr.Method == "" {
		return fmt.Sprintf("%s/%s: chunk %d @ %s rejected: %s",
			sourceName, methodName, cr.Index, cr.Position.Round(time.Millisecond), cr.RejectReason)
	}
	status := "accepted"
	if !cr.Accepted {
		status = "rejected"
	}
	return fmt.Sprintf("%s/%s: chunk %d @ %s delay=%.2fms (%dms) match=%.1f%% %s",
		sourceName, methodName, cr.Index, cr.Position.Round(time.Millisecond), cr.DelayMsRaw, cr.DelayMsRound, cr.MatchPct, status)
}

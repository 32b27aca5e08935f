package syncengine

import (
	"github.com/syncalign/core/internal/syncconf"
	"github.com/syncalign/core/internal/syncvideo"
)

// VerifyAgainstVideo snaps an audio-derived total delay to the nearest
// small integer video-frame offset. source/target are supplied by the caller
// and opened by syncvideo.Verify on the two paths (or nil, to force the
// fallback-no-frame-utils path) since frame reading is an external
// collaborator this module only consumes.
func VerifyAgainstVideo(totalDelayMs float64, globalShiftMs int64, sourceVideoPath, targetVideoPath string, source, target syncvideo.FrameSource, cfg syncconf.VideoVerifiedSettings, recorder MetricsRecorder) *syncvideo.Result {
	if recorder == nil {
		recorder = NopRecorder
	}
	result := syncvideo.Verify(totalDelayMs, globalShiftMs, sourceVideoPath, targetVideoPath, source, target, cfg)
	recorder.RecordVideoVerifiedOutcome(result.Reason)
	return result
}

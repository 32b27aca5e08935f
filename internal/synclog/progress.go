package synclog

import "log/slog"

// ProgressSink is the line-oriented collaborator the orchestrator pushes
// one line to per chunk, and per selector/drift summary.
type ProgressSink interface {
	Info(line string)
}

// SlogProgressSink adapts a *slog.Logger into a ProgressSink, logging each
// line at Info level with the line itself as the log message.
type SlogProgressSink struct {
	logger *slog.Logger
}

// NewProgressSink wraps logger (or the package default if nil).
func NewProgressSink(logger *slog.Logger) *SlogProgressSink {
	if logger == nil {
		logger = Default()
	}
	return &SlogProgressSink{logger: logger}
}

// Info implements ProgressSink.
func (s *SlogProgressSink) Info(line string) {
	s.logger.Info(line)
}

// NopProgressSink discards every line; useful as a default when the caller
// doesn't care about progress output.
type NopProgressSink struct{}

// Info implements ProgressSink.
func (NopProgressSink) Info(string) {}

// CollectingProgressSink records every line in order; useful in tests that
// assert on the exact progress narration.
type CollectingProgressSink struct {
	Lines []string
}

// Info implements ProgressSink.
func (c *CollectingProgressSink) Info(line string) {
	c.Lines = append(c.Lines, line)
}

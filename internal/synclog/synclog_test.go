package synclog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectingProgressSinkOrder(t *testing.T) {
	sink := &CollectingProgressSink{}
	sink.Info("chunk 1")
	sink.Info("chunk 2")
	sink.Info("chunk 3")
	assert.Equal(t, []string{"chunk 1", "chunk 2", "chunk 3"}, sink.Lines)
}

func TestNopProgressSinkDoesNotPanic(t *testing.T) {
	var sink NopProgressSink
	assert.NotPanics(t, func() { sink.Info("ignored") })
}

func TestDefaultLoggerInitializes(t *testing.T) {
	assert.NotNil(t, Default())
	assert.True(t, IsInitialized())
}

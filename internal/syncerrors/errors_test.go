package syncerrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidAudio(t *testing.T) {
	err := InvalidAudio("no valid chunk positions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid chunk positions")
	assert.True(t, IsCategory(err, CategoryInvalidAudio))
}

func TestInsufficientChunks(t *testing.T) {
	err := InsufficientChunks(2, 3)
	assert.Equal(t, 2, err.Valid)
	assert.Equal(t, 3, err.Required)
	assert.True(t, IsCategory(err, CategoryInsufficientChunks))
}

func TestSelectorFailed(t *testing.T) {
	err := SelectorFailed("mode: no cluster reached threshold", 5)
	assert.Equal(t, "mode: no cluster reached threshold", err.Reason)
	assert.Equal(t, 5, err.Accepted)
	assert.True(t, IsCategory(err, CategorySelectorFailed))
}

func TestMissingVideo(t *testing.T) {
	err := MissingVideo("source video not found")
	assert.True(t, IsCategory(err, CategoryMissingVideo))
}

func TestErrorAsExtractsConcreteKindThroughWrapping(t *testing.T) {
	wrapped := Join(InsufficientChunks(2, 3))

	var insufficient *InsufficientChunksError
	require.True(t, As(wrapped, &insufficient))
	assert.Equal(t, 2, insufficient.Valid)

	var enhanced *EnhancedError
	require.True(t, As(wrapped, &enhanced))
	assert.Equal(t, CategoryInsufficientChunks, enhanced.Category)
}

func TestBuilderContext(t *testing.T) {
	ee := Newf("boom %d", 42).Category(CategoryCorrelation).Context("chunk", 3).Build()
	ctx := ee.GetContext()
	assert.Equal(t, 3, ctx["chunk"])
	assert.Equal(t, CategoryCorrelation, ee.Category)
}

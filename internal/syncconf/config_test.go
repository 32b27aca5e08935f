package syncconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	d := Default()
	assert.NoError(t, Validate(d))
	assert.Equal(t, MethodSCC, d.CorrelationMethod)
	assert.Equal(t, 5, d.ChunkCount)
}

func TestLoadWithNoConfigFileUsesDefaults(t *testing.T) {
	settings, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, MethodSCC, settings.CorrelationMethod)
	assert.Equal(t, 16000, settings.AnalysisSampleRate)
	assert.Equal(t, SelectModeMode, settings.Selector.Mode)
}

func TestValidateDefaultsUnsetCorrelationMethod(t *testing.T) {
	s := Default()
	s.CorrelationMethod = ""
	require.NoError(t, Validate(s))
	assert.Equal(t, MethodSCC, s.CorrelationMethod)
}

func TestValidateRejectsUnknownMethod(t *testing.T) {
	s := Default()
	s.CorrelationMethod = "not_a_method"
	err := Validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_a_method")
}

func TestValidateRejectsNonPositiveChunkCount(t *testing.T) {
	s := Default()
	s.ChunkCount = 0
	err := Validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk_count")
}

func TestValidateClampsScanStartPct(t *testing.T) {
	s := Default()
	s.ScanStartPct = -10
	require.NoError(t, Validate(s))
	assert.Equal(t, float64(0), s.ScanStartPct)
}

func TestValidateRejectsBackwardsScanRange(t *testing.T) {
	s := Default()
	s.ScanStartPct = 90
	s.ScanEndPct = 10
	err := Validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan_start_pct")
}

func TestValidateMultiCorrDefaultsMethodsToAll(t *testing.T) {
	s := Default()
	s.MultiCorr.Enabled = true
	require.NoError(t, Validate(s))
	assert.Equal(t, AllMethods, s.MultiCorr.Methods)
}

func TestValidateVideoVerifiedRejectsUnknownHash(t *testing.T) {
	s := Default()
	s.VideoVerified.Enabled = true
	s.VideoVerified.HashAlgorithm = "bogus"
	err := Validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hash_algorithm")
}

func TestCurrentReturnsDefaultWhenNeverLoaded(t *testing.T) {
	assert.NotNil(t, Current())
}

func TestVideoVerifiedEffectiveLeavesProgressiveSettingsUnchanged(t *testing.T) {
	v := Default().VideoVerified
	eff := v.Effective(false)
	assert.Equal(t, v, eff)
}

func TestVideoVerifiedEffectiveAppliesInterlacedOverrides(t *testing.T) {
	v := Default().VideoVerified
	eff := v.Effective(true)
	assert.Equal(t, v.InterlacedNumCheckpoints, eff.NumCheckpoints)
	assert.Equal(t, v.InterlacedSearchRange, eff.SearchRange)
	assert.Equal(t, v.InterlacedHashThreshold, eff.HashThreshold)
	assert.Equal(t, v.InterlacedSequenceLength, eff.SequenceLength)
	// Unset interlaced overrides (zero value) fall back to the
	// progressive setting rather than zeroing the field out.
	assert.Equal(t, v.HashAlgorithm, eff.HashAlgorithm)
	assert.Equal(t, v.HashSize, eff.HashSize)
	assert.Equal(t, v.ComparisonMethod, eff.ComparisonMethod)
}

func TestValidateRejectsUnknownInterlacedHash(t *testing.T) {
	s := Default()
	s.VideoVerified.Enabled = true
	s.VideoVerified.InterlacedHashAlgorithm = "bogus"
	err := Validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interlaced_hash_algorithm")
}

package syncdrift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/syncalign/core/internal/syncchunk"
)

func acceptedAt(t float64, delay float64) syncchunk.ChunkResult {
	return syncchunk.ChunkResult{
		Position:   time.Duration(t * float64(time.Second)),
		DelayMsRaw: delay,
		MatchPct:   50,
		Accepted:   true,
	}
}

func TestComputeStabilityAcceptanceRate(t *testing.T) {
	all := []syncchunk.ChunkResult{
		acceptedAt(0, 10), acceptedAt(1, 10),
		{Accepted: false},
	}
	m := ComputeStability(all)
	assert.InDelta(t, 66.67, m.AcceptanceRate, 0.1)
}

func TestComputeStabilityEmptyInput(t *testing.T) {
	m := ComputeStability(nil)
	assert.Equal(t, StabilityMetrics{}, m)
}

func TestComputeStabilityDriftDetectedOnHighStdDev(t *testing.T) {
	all := []syncchunk.ChunkResult{
		acceptedAt(0, 0), acceptedAt(1, 200), acceptedAt(2, -200),
	}
	m := ComputeStability(all)
	assert.True(t, m.DriftDetected)
}

func TestDiagnoseUniform(t *testing.T) {
	accepted := []syncchunk.ChunkResult{
		acceptedAt(0, 42), acceptedAt(15, 42.1), acceptedAt(30, 41.9), acceptedAt(45, 42.2),
	}
	d := Diagnose(accepted, DefaultThresholds())
	assert.Equal(t, DriftUniform, d.Kind)
}

func TestDiagnoseLinear(t *testing.T) {
	accepted := make([]syncchunk.ChunkResult, 10)
	for i := range accepted {
		tSec := float64(i) * 12
		accepted[i] = acceptedAt(tSec, 0.5*tSec)
	}
	d := Diagnose(accepted, DefaultThresholds())
	assert.Equal(t, DriftLinear, d.Kind)
	assert.InDelta(t, 0.5, d.SlopeMsPerS, 0.05)
}

func TestDiagnoseTooFewChunks(t *testing.T) {
	d := Diagnose([]syncchunk.ChunkResult{acceptedAt(0, 1)}, DefaultThresholds())
	assert.Equal(t, DriftUniform, d.Kind)
}

func TestDiagnoseStepping(t *testing.T) {
	accepted := []syncchunk.ChunkResult{
		acceptedAt(0, 10), acceptedAt(1, 10.1), acceptedAt(2, 10.05),
		acceptedAt(3, 80), acceptedAt(4, 80.1), acceptedAt(5, 79.9),
	}
	d := Diagnose(accepted, DefaultThresholds())
	assert.Equal(t, DriftStepping, d.Kind)
	assert.Len(t, d.PlateausMs, 2)
}

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, 2.0, th.UniformMaxMS)
	assert.Equal(t, 0.8, th.LinearMinR2)
}

package syncchunk

import "time"

// ChunkResult is the outcome of running one chunk position through
// extraction, filtering, and correlation.
type ChunkResult struct {
	Index        int
	Position     time.Duration
	Method       string
	DelayMsRaw   float64
	DelayMsRound int
	MatchPct     float64
	Accepted     bool
	RejectReason string
}

// Accept builds an accepted ChunkResult, setting Accepted per the
// min_match_pct gate.
func Accept(index int, position time.Duration, method string, delayMsRaw float64, delayMsRound int, matchPct, minMatchPct float64) ChunkResult {
	return ChunkResult{
		Index:        index,
		Position:     position,
		Method:       method,
		DelayMsRaw:   delayMsRaw,
		DelayMsRound: delayMsRound,
		MatchPct:     matchPct,
		Accepted:     matchPct >= minMatchPct,
	}
}

// Reject builds a rejected ChunkResult carrying reason, never aborting the
// enclosing source.
func Reject(index int, position time.Duration, reason string) ChunkResult {
	return ChunkResult{
		Index:        index,
		Position:     position,
		Accepted:     false,
		RejectReason: reason,
	}
}

// AcceptedOnly filters results down to the accepted subset, preserving
// order.
func AcceptedOnly(results []ChunkResult) []ChunkResult {
	out := make([]ChunkResult, 0, len(results))
	for _, r := range results {
		if r.Accepted {
			out = append(out, r)
		}
	}
	return out
}

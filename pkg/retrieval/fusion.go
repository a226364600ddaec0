package retrieval

import "github.com/google/uuid"

// NormalizeScores min-max normalizes candidate scores to [0,1] within one
// candidate set. If every score is equal the whole set maps to 1.0, which
// keeps ties meaningful and avoids division by zero.
//
// Known trade-off: with highly skewed raw scores min-max pushes everything
// but the top candidate toward 0, so fusion can become winner-take-all.
func NormalizeScores(candidates []Candidate) map[uuid.UUID]float64 {
	out := make(map[uuid.UUID]float64, len(candidates))
	if len(candidates) == 0 {
		return out
	}

	lo, hi := candidates[0].Score, candidates[0].Score
	for _, c := range candidates[1:] {
		if c.Score < lo {
			lo = c.Score
		}
		if c.Score > hi {
			hi = c.Score
		}
	}

	if hi == lo {
		for _, c := range candidates {
			out[c.ChunkID] = 1.0
		}
		return out
	}

	for _, c := range candidates {
		out[c.ChunkID] = (c.Score - lo) / (hi - lo)
	}
	return out
}

// Fuse computes the hybrid score from normalized signals.
func Fuse(alpha, vecNorm, lexNorm float64) float64 {
	return alpha*vecNorm + (1.0-alpha)*lexNorm
}

// ClampK bounds the requested result count to [1, MaxK].
func ClampK(k int) int {
	if k < 1 {
		return 1
	}
	if k > MaxK {
		return MaxK
	}
	return k
}

// ClampAlpha bounds the fusion weight to [0, 1].
func ClampAlpha(alpha float64) float64 {
	if alpha < 0.0 {
		return 0.0
	}
	if alpha > 1.0 {
		return 1.0
	}
	return alpha
}

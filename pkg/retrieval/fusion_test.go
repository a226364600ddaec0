package retrieval

import (
	"testing"

	"github.com/google/uuid"
)

func candidatesWithScores(scores ...float64) []Candidate {
	out := make([]Candidate, len(scores))
	for i, s := range scores {
		out[i] = Candidate{ChunkID: uuid.New(), Score: s}
	}
	return out
}

func TestNormalizeScoresBounds(t *testing.T) {
	cands := candidatesWithScores(0.2, 5.0, 3.1, 0.9)

	norm := NormalizeScores(cands)
	for id, v := range norm {
		if v < 0.0 || v > 1.0 {
			t.Errorf("normalized score %f for %s out of [0,1]", v, id)
		}
	}

	// Min maps to 0, max maps to 1.
	if norm[cands[0].ChunkID] != 0.0 {
		t.Errorf("min score normalized to %f, want 0.0", norm[cands[0].ChunkID])
	}
	if norm[cands[1].ChunkID] != 1.0 {
		t.Errorf("max score normalized to %f, want 1.0", norm[cands[1].ChunkID])
	}
}

func TestNormalizeScoresAllEqual(t *testing.T) {
	cands := candidatesWithScores(0.7, 0.7, 0.7)

	norm := NormalizeScores(cands)
	for id, v := range norm {
		if v != 1.0 {
			t.Errorf("equal-score candidate %s normalized to %f, want 1.0", id, v)
		}
	}
}

func TestNormalizeScoresEmpty(t *testing.T) {
	if norm := NormalizeScores(nil); len(norm) != 0 {
		t.Errorf("expected empty map, got %v", norm)
	}
}

func TestFuseFormula(t *testing.T) {
	tests := []struct {
		alpha, vec, lex, want float64
	}{
		{0.65, 1.0, 0.0, 0.65},
		{0.65, 0.0, 1.0, 0.35},
		{0.0, 1.0, 0.5, 0.5},
		{1.0, 0.3, 0.9, 0.3},
		{0.5, 1.0, 1.0, 1.0},
	}

	for _, tt := range tests {
		if got := Fuse(tt.alpha, tt.vec, tt.lex); got != tt.want {
			t.Errorf("Fuse(%f, %f, %f) = %f, want %f", tt.alpha, tt.vec, tt.lex, got, tt.want)
		}
	}
}

func TestClamps(t *testing.T) {
	if got := ClampK(0); got != 1 {
		t.Errorf("ClampK(0) = %d, want 1", got)
	}
	if got := ClampK(500); got != MaxK {
		t.Errorf("ClampK(500) = %d, want %d", got, MaxK)
	}
	if got := ClampK(8); got != 8 {
		t.Errorf("ClampK(8) = %d, want 8", got)
	}
	if got := ClampAlpha(-0.5); got != 0.0 {
		t.Errorf("ClampAlpha(-0.5) = %f, want 0.0", got)
	}
	if got := ClampAlpha(1.5); got != 1.0 {
		t.Errorf("ClampAlpha(1.5) = %f, want 1.0", got)
	}
}

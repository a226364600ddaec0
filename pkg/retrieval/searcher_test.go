package retrieval

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubLexical struct {
	rows    []Candidate
	err     error
	filters Filters
	calls   int
}

func (s *stubLexical) Search(_ context.Context, _ uuid.UUID, _ string, f Filters) ([]Candidate, error) {
	s.calls++
	s.filters = f
	return s.rows, s.err
}

type stubVector struct {
	rows  []Candidate
	err   error
	calls int
}

func (s *stubVector) Search(_ context.Context, _ uuid.UUID, _ []float32, _ string, _ Filters) ([]Candidate, error) {
	s.calls++
	return s.rows, s.err
}

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string, _ string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

func (s *stubEmbedder) Model() string { return "test-embedding-model" }

func newTestSearcher(lex *stubLexical, vec *stubVector, emb QueryEmbedder) *Searcher {
	return NewSearcher(lex, vec, emb, log.New(io.Discard, "", 0))
}

func TestSearchBlankQuery(t *testing.T) {
	lex := &stubLexical{}
	vec := &stubVector{}
	s := newTestSearcher(lex, vec, &stubEmbedder{})

	res, err := s.Search(context.Background(), uuid.New(), Params{Query: "   ", K: 5, Alpha: 0.5})
	assert.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, lex.calls, "blank query must not hit the lexical index")
	assert.Equal(t, 0, vec.calls, "blank query must not hit the vector index")
}

func TestSearchLexicalFailureIsFatal(t *testing.T) {
	lex := &stubLexical{err: errors.New("fts down")}
	s := newTestSearcher(lex, &stubVector{}, &stubEmbedder{})

	_, err := s.Search(context.Background(), uuid.New(), Params{Query: "roadmap", K: 5, Alpha: 0.5})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrLexicalIndex))
}

func TestSearchVectorFailsOpen(t *testing.T) {
	x := Candidate{ChunkID: uuid.New(), Score: 1.0}
	y := Candidate{ChunkID: uuid.New(), Score: 0.5}
	lex := &stubLexical{rows: []Candidate{x, y}}
	vec := &stubVector{err: errors.New("pgvector down")}

	s := newTestSearcher(lex, vec, &stubEmbedder{})
	res, err := s.Search(context.Background(), uuid.New(), Params{Query: "roadmap", K: 5, Alpha: 0.65})

	assert.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Len(t, res.Items, 2)
	for _, item := range res.Items {
		assert.Zero(t, item.ScoreVector)
		assert.Zero(t, item.VectorNorm)
	}
	// Lexical-only ordering survives.
	assert.Equal(t, x.ChunkID, res.Items[0].ChunkID)
}

func TestSearchEmbedderFailureFailsOpen(t *testing.T) {
	lex := &stubLexical{rows: []Candidate{{ChunkID: uuid.New(), Score: 2.0}}}
	vec := &stubVector{}

	s := newTestSearcher(lex, vec, &stubEmbedder{err: errors.New("401 unauthorized")})
	res, err := s.Search(context.Background(), uuid.New(), Params{Query: "roadmap", K: 3, Alpha: 0.65})

	assert.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, 0, vec.calls, "vector index must not be queried without a query vector")
}

func TestSearchNilEmbedderIsDegraded(t *testing.T) {
	lex := &stubLexical{rows: []Candidate{{ChunkID: uuid.New(), Score: 1.0}}}
	s := newTestSearcher(lex, &stubVector{}, nil)

	res, err := s.Search(context.Background(), uuid.New(), Params{Query: "roadmap", K: 3, Alpha: 0.65})
	assert.NoError(t, err)
	assert.True(t, res.Degraded)
}

func TestSearchFusion(t *testing.T) {
	// lex = [(x, 1.0), (y, 0.5)], vec = [(y, 1.0)], alpha = 0.65.
	// Lexical min-max: x -> 1.0, y -> 0.0. Vector all-equal: y -> 1.0.
	// fused(x) = 0.35, fused(y) = 0.65 -> y ranks first.
	x := Candidate{ChunkID: uuid.New(), Score: 1.0}
	y := Candidate{ChunkID: uuid.New(), Score: 0.5}
	yVec := Candidate{ChunkID: y.ChunkID, Score: 1.0}

	lex := &stubLexical{rows: []Candidate{x, y}}
	vec := &stubVector{rows: []Candidate{yVec}}

	s := newTestSearcher(lex, vec, &stubEmbedder{})
	res, err := s.Search(context.Background(), uuid.New(), Params{Query: "roadmap", K: 2, Alpha: 0.65})

	assert.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Len(t, res.Items, 2)

	assert.Equal(t, y.ChunkID, res.Items[0].ChunkID)
	assert.InDelta(t, 0.65, res.Items[0].ScoreHybrid, 1e-9)
	assert.Equal(t, x.ChunkID, res.Items[1].ChunkID)
	assert.InDelta(t, 0.35, res.Items[1].ScoreHybrid, 1e-9)

	// Raw scores are preserved for transparency.
	assert.Equal(t, 0.5, res.Items[0].ScoreLexical)
	assert.Equal(t, 1.0, res.Items[0].ScoreVector)
}

func TestSearchAlphaExtremes(t *testing.T) {
	a := Candidate{ChunkID: uuid.New(), Score: 3.0}
	b := Candidate{ChunkID: uuid.New(), Score: 2.0}
	c := Candidate{ChunkID: uuid.New(), Score: 1.0}

	// Vector ranks the lexical order inverted.
	lex := &stubLexical{rows: []Candidate{a, b, c}}
	vec := &stubVector{rows: []Candidate{
		{ChunkID: c.ChunkID, Score: 0.9},
		{ChunkID: b.ChunkID, Score: 0.8},
		{ChunkID: a.ChunkID, Score: 0.7},
	}}

	s := newTestSearcher(lex, vec, &stubEmbedder{})

	res, err := s.Search(context.Background(), uuid.New(), Params{Query: "q", K: 3, Alpha: 0.0})
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ChunkID, b.ChunkID, c.ChunkID},
		[]uuid.UUID{res.Items[0].ChunkID, res.Items[1].ChunkID, res.Items[2].ChunkID},
		"alpha=0 must reproduce pure-lexical ordering")

	res, err = s.Search(context.Background(), uuid.New(), Params{Query: "q", K: 3, Alpha: 1.0})
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c.ChunkID, b.ChunkID, a.ChunkID},
		[]uuid.UUID{res.Items[0].ChunkID, res.Items[1].ChunkID, res.Items[2].ChunkID},
		"alpha=1 must reproduce pure-vector ordering")
}

func TestSearchCandidateLimitAndTruncation(t *testing.T) {
	var rows []Candidate
	for i := 0; i < 30; i++ {
		rows = append(rows, Candidate{ChunkID: uuid.New(), Score: float64(30 - i)})
	}
	lex := &stubLexical{rows: rows}

	s := newTestSearcher(lex, &stubVector{}, &stubEmbedder{})
	res, err := s.Search(context.Background(), uuid.New(), Params{Query: "q", K: 4, Alpha: 0.65})

	assert.NoError(t, err)
	assert.Len(t, res.Items, 4)
	assert.Equal(t, 4*CandidateFactor, lex.filters.Limit)
}

func TestSearchSourceTypeSanitization(t *testing.T) {
	lex := &stubLexical{}
	s := newTestSearcher(lex, &stubVector{}, &stubEmbedder{})

	_, err := s.Search(context.Background(), uuid.New(), Params{
		Query:       "q",
		K:           5,
		Alpha:       0.5,
		SourceTypes: []string{" Docs ", "", "MANUAL"},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"docs", "manual"}, lex.filters.SourceTypes)
}

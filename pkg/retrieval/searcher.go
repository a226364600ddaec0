package retrieval

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxK bounds the requested result count.
	MaxK = 50

	// CandidateFactor is how many candidates each branch fetches per
	// requested result, so fusion has enough overlap to work with.
	CandidateFactor = 3
)

// Candidate is one ranked row from a single signal (lexical or vector),
// carrying the raw signal score.
type Candidate struct {
	ChunkID       uuid.UUID
	DocumentID    uuid.UUID
	SourceID      uuid.UUID
	DocumentTitle string
	ChunkIndex    int
	Snippet       string
	Meta          map[string]interface{}
	Score         float64
}

// Filters are applied server-side by both index stores.
type Filters struct {
	SourceTypes []string
	Start       *time.Time
	End         *time.Time
	Limit       int
}

// LexicalIndex returns candidates ranked by text relevance, descending.
type LexicalIndex interface {
	Search(ctx context.Context, workspaceID uuid.UUID, query string, f Filters) ([]Candidate, error)
}

// VectorIndex returns candidates ranked by cosine similarity, descending.
type VectorIndex interface {
	Search(ctx context.Context, workspaceID uuid.UUID, vector []float32, model string, f Filters) ([]Candidate, error)
}

// QueryEmbedder turns the query text into a vector. Order-preserving batch
// contract shared with pkg/embedding.
type QueryEmbedder interface {
	Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error)
	Model() string
}

// Params are the caller-facing search knobs. K and Alpha are clamped, not
// rejected.
type Params struct {
	Query       string
	K           int
	Alpha       float64
	SourceTypes []string
	Start       *time.Time
	End         *time.Time
}

// Item is one fused result row with the full score breakdown.
type Item struct {
	Candidate
	ScoreLexical float64 // raw
	ScoreVector  float64 // raw
	LexicalNorm  float64
	VectorNorm   float64
	ScoreHybrid  float64
}

// Result is the ranked top-K list. Degraded is set when the vector branch
// failed open and only lexical scores contributed.
type Result struct {
	Items    []Item
	Degraded bool
}

// Searcher fuses lexical and vector candidates into a single ranking.
type Searcher struct {
	lexical  LexicalIndex
	vector   VectorIndex
	embedder QueryEmbedder
	logger   *log.Logger
}

// NewSearcher wires the two index stores and the query embedder. embedder
// may be nil when embeddings are not configured; every search then runs
// lexical-only and reports Degraded.
func NewSearcher(lexical LexicalIndex, vector VectorIndex, embedder QueryEmbedder, logger *log.Logger) *Searcher {
	return &Searcher{
		lexical:  lexical,
		vector:   vector,
		embedder: embedder,
		logger:   logger,
	}
}

// Search runs both candidate fetches concurrently, normalizes each set,
// unions by chunk identity and ranks by the fused score.
//
// The vector branch (embedding call included) fails open: on any error it
// contributes an empty candidate set. A lexical failure is fatal.
func (s *Searcher) Search(ctx context.Context, workspaceID uuid.UUID, p Params) (*Result, error) {
	query := strings.TrimSpace(p.Query)
	if query == "" {
		return &Result{Items: []Item{}}, nil
	}

	k := ClampK(p.K)
	alpha := ClampAlpha(p.Alpha)

	filters := Filters{
		SourceTypes: sanitizeSourceTypes(p.SourceTypes),
		Start:       p.Start,
		End:         p.End,
		Limit:       k * CandidateFactor,
	}

	var (
		lexCandidates []Candidate
		vecCandidates []Candidate
		degraded      bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.lexical.Search(gctx, workspaceID, query, filters)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLexicalIndex, err)
		}
		lexCandidates = rows
		return nil
	})

	g.Go(func() error {
		rows, err := s.vectorCandidates(gctx, workspaceID, query, filters)
		if err != nil {
			s.logger.Printf("[WARN] Vector branch failed open, continuing lexical-only: %v", err)
			degraded = true
			return nil
		}
		vecCandidates = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	lexNorm := NormalizeScores(lexCandidates)
	vecNorm := NormalizeScores(vecCandidates)

	merged := make(map[uuid.UUID]*Item)
	upsert := func(c Candidate, rawLex, rawVec float64) {
		item, ok := merged[c.ChunkID]
		if !ok {
			item = &Item{Candidate: c}
			merged[c.ChunkID] = item
		}
		if rawLex > item.ScoreLexical {
			item.ScoreLexical = rawLex
		}
		if rawVec > item.ScoreVector {
			item.ScoreVector = rawVec
		}
	}

	for _, c := range lexCandidates {
		upsert(c, c.Score, 0.0)
	}
	for _, c := range vecCandidates {
		upsert(c, 0.0, c.Score)
	}

	items := make([]Item, 0, len(merged))
	for id, item := range merged {
		item.LexicalNorm = lexNorm[id]
		item.VectorNorm = vecNorm[id]
		item.ScoreHybrid = Fuse(alpha, item.VectorNorm, item.LexicalNorm)
		items = append(items, *item)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].ScoreHybrid != items[j].ScoreHybrid {
			return items[i].ScoreHybrid > items[j].ScoreHybrid
		}
		// Stable ordering for reproducible rankings.
		return items[i].ChunkID.String() < items[j].ChunkID.String()
	})

	if len(items) > k {
		items = items[:k]
	}

	return &Result{Items: items, Degraded: degraded}, nil
}

func (s *Searcher) vectorCandidates(ctx context.Context, workspaceID uuid.UUID, query string, f Filters) ([]Candidate, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedder configured", ErrProvider)
	}

	vectors, err := s.embedder.Embed(ctx, []string{query}, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: expected 1 query vector, got %d", ErrProvider, len(vectors))
	}

	rows, err := s.vector.Search(ctx, workspaceID, vectors[0], s.embedder.Model(), f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return rows, nil
}

func sanitizeSourceTypes(types []string) []string {
	var out []string
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

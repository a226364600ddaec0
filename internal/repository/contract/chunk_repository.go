package contract

import (
	"context"
	"time"

	"evidence-engine-be/internal/entity"
	"evidence-engine-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ChunkCandidate is one scored row from a candidate search, joined with its
// document metadata. Score semantics depend on the search that produced it:
// ts_rank_cd for lexical, cosine similarity for vector.
type ChunkCandidate struct {
	ChunkId       uuid.UUID
	DocumentId    uuid.UUID
	SourceId      uuid.UUID
	DocumentTitle string
	ChunkIndex    int
	Snippet       string
	Meta          map[string]interface{}
	Score         float64
}

// SearchFilter narrows candidate searches. SourceTypes empty means all types;
// nil time bounds mean unbounded.
type SearchFilter struct {
	WorkspaceId uuid.UUID
	SourceTypes []string
	Start       *time.Time
	End         *time.Time
	Limit       int
}

type ChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.Chunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchLexical ranks chunks with Postgres full-text search
	// (websearch_to_tsquery + ts_rank_cd) within one workspace.
	SearchLexical(ctx context.Context, query string, filter SearchFilter) ([]*ChunkCandidate, error)
}

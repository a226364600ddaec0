package contract

import (
	"context"

	"evidence-engine-be/internal/entity"
	"evidence-engine-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChunkEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.ChunkEmbedding) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChunkEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// EmbeddedChunkIds returns the subset of chunkIds that already have an
	// embedding under the given model, so re-embed runs can skip them.
	EmbeddedChunkIds(ctx context.Context, chunkIds []uuid.UUID, model string) ([]uuid.UUID, error)
	// SearchSimilar ranks chunks by cosine similarity of their stored vectors
	// against the query vector, restricted to one embedding model.
	SearchSimilar(ctx context.Context, vector []float32, model string, filter SearchFilter) ([]*ChunkCandidate, error)
}

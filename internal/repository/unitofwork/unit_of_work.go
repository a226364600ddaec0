package unitofwork

import (
	"context"

	"evidence-engine-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SourceRepository() contract.SourceRepository
	DocumentRepository() contract.DocumentRepository
	ChunkRepository() contract.ChunkRepository
	ChunkEmbeddingRepository() contract.ChunkEmbeddingRepository
	RetrievalRequestRepository() contract.RetrievalRequestRepository
}

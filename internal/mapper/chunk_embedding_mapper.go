package mapper

import (
	"evidence-engine-be/internal/entity"
	"evidence-engine-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ChunkEmbeddingMapper struct{}

func NewChunkEmbeddingMapper() *ChunkEmbeddingMapper {
	return &ChunkEmbeddingMapper{}
}

func (m *ChunkEmbeddingMapper) ToEntity(e *model.ChunkEmbedding) *entity.ChunkEmbedding {
	if e == nil {
		return nil
	}
	return &entity.ChunkEmbedding{
		Id:        e.Id,
		ChunkId:   e.ChunkId,
		Model:     e.Model,
		Vector:    e.Vector.Slice(),
		CreatedAt: e.CreatedAt,
	}
}

func (m *ChunkEmbeddingMapper) ToModel(e *entity.ChunkEmbedding) *model.ChunkEmbedding {
	if e == nil {
		return nil
	}
	return &model.ChunkEmbedding{
		Id:        e.Id,
		ChunkId:   e.ChunkId,
		Model:     e.Model,
		Vector:    pgvector.NewVector(e.Vector),
		CreatedAt: e.CreatedAt,
	}
}

func (m *ChunkEmbeddingMapper) ToModels(embeddings []*entity.ChunkEmbedding) []*model.ChunkEmbedding {
	models := make([]*model.ChunkEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = m.ToModel(e)
	}
	return models
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type ChunkEmbedding struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChunkId   uuid.UUID       `gorm:"type:uuid;not null;index:idx_chunk_model,unique"`
	Model     string          `gorm:"type:varchar(80);not null;index:idx_chunk_model,unique"`
	Vector    pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small dimensionality
	CreatedAt time.Time       `gorm:"autoCreateTime"`

	Chunk *Chunk `gorm:"foreignKey:ChunkId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (ChunkEmbedding) TableName() string {
	return "chunk_embeddings"
}

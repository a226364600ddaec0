package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChunkEmbedding is the stored vector for one (chunk, model) pair. At most
// one embedding is current per pair; re-embedding with the same model is a
// no-op unless forced.
type ChunkEmbedding struct {
	Id        uuid.UUID
	ChunkId   uuid.UUID
	Model     string
	Vector    []float32
	CreatedAt time.Time
}

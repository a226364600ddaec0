package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chunk is one fixed-overlap window of its document's raw text.
// StartOffset/EndOffset are the half-open rune offsets into the trimmed raw
// text at chunking time. Chunks are destroyed and rebuilt whenever the
// parent document's text changes.
type Chunk struct {
	Id          uuid.UUID
	DocumentId  uuid.UUID
	ChunkIndex  int
	Text        string
	StartOffset int
	EndOffset   int
	CreatedAt   time.Time
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// RetrievalRequest is the immutable audit record of one hybrid search:
// query, knobs, filters, principal. Write-once, never mutated.
type RetrievalRequest struct {
	Id              uuid.UUID
	WorkspaceId     uuid.UUID
	CreatedByUserId uuid.UUID
	Query           string
	K               int
	Alpha           float64
	SourceTypes     string // comma-separated, as received
	Timeframe       map[string]interface{}
	CreatedAt       time.Time
}

// RetrievalRequestItem is one ranked result row of a RetrievalRequest.
// Rank is 1-based and unique per request. Append-only.
type RetrievalRequestItem struct {
	Id           uuid.UUID
	RequestId    uuid.UUID
	Rank         int
	ChunkId      *uuid.UUID
	DocumentId   *uuid.UUID
	SourceId     *uuid.UUID
	Snippet      string
	Meta         map[string]interface{}
	ScoreLexical float64
	ScoreVector  float64
	ScoreHybrid  float64
	CreatedAt    time.Time
}

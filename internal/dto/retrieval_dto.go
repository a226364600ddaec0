package dto

import (
	"time"

	"github.com/google/uuid"
)

// RetrieveRequest carries the parsed query-string knobs for a hybrid search.
// K and Alpha are clamped downstream, not rejected.
type RetrieveRequest struct {
	WorkspaceId uuid.UUID
	UserId      uuid.UUID
	Query       string `query:"q" validate:"required"`
	K           int    `query:"k"`
	Alpha       *float64
	SourceTypes string `query:"source_types"`
	Timeframe   string `query:"timeframe"` // 7d | 30d | 90d
	StartDate   string `query:"start_date"`
	EndDate     string `query:"end_date"`
}

type RetrievedItem struct {
	ChunkId       uuid.UUID              `json:"chunk_id"`
	DocumentId    uuid.UUID              `json:"document_id"`
	SourceId      uuid.UUID              `json:"source_id"`
	DocumentTitle string                 `json:"document_title"`
	ChunkIndex    int                    `json:"chunk_index"`
	Snippet       string                 `json:"snippet"`
	Meta          map[string]interface{} `json:"meta"`
	ScoreLexical  float64                `json:"score_lexical"`
	ScoreVector   float64                `json:"score_vector"`
	ScoreHybrid   float64                `json:"score_hybrid"`
}

type RetrieveResponse struct {
	RequestId uuid.UUID       `json:"request_id"`
	Query     string          `json:"query"`
	K         int             `json:"k"`
	Alpha     float64         `json:"alpha"`
	Degraded  bool            `json:"degraded"` // vector signal unavailable, lexical-only result
	Items     []RetrievedItem `json:"items"`
}

type TraceRequestSummary struct {
	Id          uuid.UUID `json:"id"`
	Query       string    `json:"query"`
	K           int       `json:"k"`
	Alpha       float64   `json:"alpha"`
	SourceTypes string    `json:"source_types"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListTracesResponse struct {
	Requests []TraceRequestSummary `json:"requests"`
	Total    int64                 `json:"total"`
}

type TraceItem struct {
	Rank         int                    `json:"rank"`
	ChunkId      *uuid.UUID             `json:"chunk_id"`
	DocumentId   *uuid.UUID             `json:"document_id"`
	SourceId     *uuid.UUID             `json:"source_id"`
	Snippet      string                 `json:"snippet"`
	Meta         map[string]interface{} `json:"meta"`
	ScoreLexical float64                `json:"score_lexical"`
	ScoreVector  float64                `json:"score_vector"`
	ScoreHybrid  float64                `json:"score_hybrid"`
}

type ShowTraceResponse struct {
	Request TraceRequestSummary `json:"request"`
	Items   []TraceItem         `json:"items"`
}

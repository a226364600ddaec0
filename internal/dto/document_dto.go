package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestDocumentRequest struct {
	WorkspaceId uuid.UUID
	SourceType  string                 `json:"source_type" validate:"required,oneof=slack document email wiki ticket"`
	SourceName  string                 `json:"source_name"`
	ExternalId  *string                `json:"external_id"`
	Title       string                 `json:"title" validate:"required"`
	Text        string                 `json:"text" validate:"required"`
	Meta        map[string]interface{} `json:"meta"`
}

type IngestDocumentResponse struct {
	Id         uuid.UUID `json:"id"`
	SourceId   uuid.UUID `json:"source_id"`
	ChunkCount int       `json:"chunk_count"`
	Replaced   bool      `json:"replaced"` // true when an existing external_id was re-ingested
}

type ChunkItem struct {
	Id          uuid.UUID `json:"id"`
	ChunkIndex  int       `json:"chunk_index"`
	Text        string    `json:"text"`
	StartOffset int       `json:"start_offset"`
	EndOffset   int       `json:"end_offset"`
}

type ShowDocumentResponse struct {
	Id         uuid.UUID              `json:"id"`
	SourceId   uuid.UUID              `json:"source_id"`
	SourceType string                 `json:"source_type"`
	ExternalId *string                `json:"external_id"`
	Title      string                 `json:"title"`
	Meta       map[string]interface{} `json:"meta"`
	ChunkCount int                    `json:"chunk_count"`
	Chunks     []ChunkItem            `json:"chunks,omitempty"` // populated on show, omitted in lists
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  *time.Time             `json:"updated_at"`
}

type ListDocumentsResponse struct {
	Documents []ShowDocumentResponse `json:"documents"`
	Total     int64                  `json:"total"`
}

type EmbedDocumentRequest struct {
	Id    uuid.UUID
	Force bool `json:"force"`
}

type EmbedDocumentResponse struct {
	Id     uuid.UUID `json:"id"`
	Queued bool      `json:"queued"`
}

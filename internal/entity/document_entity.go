package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document owns the raw ingested text. Re-ingesting the same external id is
// a full replace and triggers a chunk rebuild; documents are never partially
// updated.
type Document struct {
	Id          uuid.UUID
	WorkspaceId uuid.UUID
	SourceId    uuid.UUID
	ExternalId  *string
	Title       string
	RawText     string
	Meta        map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

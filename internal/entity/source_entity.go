package entity

import (
	"time"

	"github.com/google/uuid"
)

// Source is a logical ingestion bucket inside a workspace: manual uploads,
// docs, or a read-only connector sync.
type Source struct {
	Id          uuid.UUID
	WorkspaceId uuid.UUID
	Type        string // docs|manual|github|jira|support|analytics
	Name        string
	Config      map[string]interface{}
	CreatedAt   time.Time
}

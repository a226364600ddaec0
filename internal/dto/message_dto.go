package dto

import "github.com/google/uuid"

// PublishEmbedDocumentMessage is the embed-job payload on the internal bus.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
	Force      bool      `json:"force"`
}

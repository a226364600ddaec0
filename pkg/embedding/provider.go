package embedding

import (
	"context"
	"errors"
)

// Task types passed through to providers that distinguish document and
// query embeddings.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

// ErrMissingAPIKey is a configuration error: the provider was selected but
// no credential was supplied. Surfaced at construction, never retried.
var ErrMissingAPIKey = errors.New("embedding: missing API key")

// Provider generates embeddings for an ordered batch of texts. The returned
// vectors match the input order, one per text, from a single provider call.
// Providers do not retry internally; retry policy belongs to the caller.
type Provider interface {
	Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error)
	Model() string
}

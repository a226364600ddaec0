package integration

import (
	"context"
	"math"
	"net/http"
	"os"
	"testing"
	"time"

	"evidence-engine-be/pkg/embedding"
)

// Integration tests for the local Ollama embedding provider.
// Requires a running Ollama server with an embedding model pulled
// (e.g. `ollama pull nomic-embed-text`). Set OLLAMA_INTEGRATION=true to run.

func ollamaProviderFromEnv(t *testing.T) *embedding.OllamaProvider {
	t.Helper()

	if os.Getenv("OLLAMA_INTEGRATION") != "true" {
		t.Skip("Skipping integration test: OLLAMA_INTEGRATION not set")
	}

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	// Quick reachability check so failures read as "not running", not a timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	res, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
	if err != nil {
		t.Fatalf("Ollama not running at %s: %v", baseURL, err)
	}
	res.Body.Close()

	return embedding.NewOllamaProvider(baseURL, os.Getenv("OLLAMA_EMBEDDING_MODEL"))
}

func TestOllamaEmbedSingle(t *testing.T) {
	provider := ollamaProviderFromEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	vectors, err := provider.Embed(ctx, []string{"The deploy checklist lives in the infra wiki."}, embedding.TaskDocument)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vectors) != 1 {
		t.Fatalf("Expected 1 vector, got %d", len(vectors))
	}
	if len(vectors[0]) == 0 {
		t.Fatal("Vector should not be empty")
	}

	// Vectors are normalized for cosine distance, so magnitude must be ~1.
	var magnitude float64
	for _, v := range vectors[0] {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)
	if math.Abs(magnitude-1.0) > 1e-3 {
		t.Errorf("Expected unit-length vector, got magnitude %f", magnitude)
	}

	t.Logf("Model %s returned %d-dimensional vector", provider.Model(), len(vectors[0]))
}

func TestOllamaEmbedBatch(t *testing.T) {
	provider := ollamaProviderFromEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	texts := []string{
		"Incident review notes from the March outage",
		"Quarterly planning document for the data team",
		"How to rotate the staging database credentials",
	}

	vectors, err := provider.Embed(ctx, texts, embedding.TaskDocument)
	if err != nil {
		t.Fatalf("Batch embed failed: %v", err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("Expected %d vectors, got %d", len(texts), len(vectors))
	}

	// All vectors from one model must share a dimension.
	dim := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != dim {
			t.Errorf("Vector %d has dimension %d, expected %d", i, len(vec), dim)
		}
	}
}

func TestOllamaEmbedQueryVsDocument(t *testing.T) {
	provider := ollamaProviderFromEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	docVecs, err := provider.Embed(ctx, []string{"password rotation runbook"}, embedding.TaskDocument)
	if err != nil {
		t.Fatalf("Document embed failed: %v", err)
	}
	queryVecs, err := provider.Embed(ctx, []string{"how do I rotate passwords"}, embedding.TaskQuery)
	if err != nil {
		t.Fatalf("Query embed failed: %v", err)
	}

	// Cosine similarity on unit vectors is just the dot product.
	var sim float64
	for i := range docVecs[0] {
		sim += float64(docVecs[0][i]) * float64(queryVecs[0][i])
	}
	t.Logf("Query/document similarity: %f", sim)

	if sim < 0.3 {
		t.Logf("Warning: similarity %f is low for semantically related texts", sim)
	}
}

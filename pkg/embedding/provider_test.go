package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewOpenAIProviderRequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider("", "text-embedding-3-small")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestOpenAIProviderEmbedBatch(t *testing.T) {
	var gotReq openAIEmbeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		// Respond out of order on purpose; the index field must win.
		resp := map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 1, "embedding": []float32{0.4, 0.5}},
				{"index": 0, "embedding": []float32{0.1, 0.2}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider("test-key", "text-embedding-3-small")
	assert.NoError(t, err)
	p.WithBaseURL(srv.URL)

	vectors, err := p.Embed(context.Background(), []string{"first", "second"}, TaskDocument)
	assert.NoError(t, err)
	assert.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.2}, vectors[0])
	assert.Equal(t, []float32{0.4, 0.5}, vectors[1])

	// One call carried the whole batch.
	assert.Equal(t, []string{"first", "second"}, gotReq.Input)
	assert.Equal(t, "text-embedding-3-small", gotReq.Model)
}

func TestOpenAIProviderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	p, _ := NewOpenAIProvider("test-key", "")
	p.WithBaseURL(srv.URL)

	_, err := p.Embed(context.Background(), []string{"text"}, TaskQuery)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIProviderCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 0, "embedding": []float32{0.1}},
			},
		})
	}))
	defer srv.Close()

	p, _ := NewOpenAIProvider("test-key", "")
	p.WithBaseURL(srv.URL)

	_, err := p.Embed(context.Background(), []string{"a", "b"}, TaskDocument)
	assert.Error(t, err)
}

type countingProvider struct {
	calls   int
	batches [][]string
}

func (c *countingProvider) Model() string { return "counting-model" }

func (c *countingProvider) Embed(_ context.Context, texts []string, _ string) ([][]float32, error) {
	c.calls++
	c.batches = append(c.batches, texts)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

func TestCachedProviderBatchesMisses(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(inner, NewMemoryVectorCache(time.Minute))

	first, err := p.Embed(context.Background(), []string{"aa", "bbb"}, TaskQuery)
	assert.NoError(t, err)
	assert.Equal(t, [][]float32{{2}, {3}}, first)
	assert.Equal(t, 1, inner.calls)

	// Second call is fully served from cache.
	second, err := p.Embed(context.Background(), []string{"aa", "bbb"}, TaskQuery)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	// Partial hit: only the new text reaches the provider.
	third, err := p.Embed(context.Background(), []string{"aa", "cccc"}, TaskQuery)
	assert.NoError(t, err)
	assert.Equal(t, [][]float32{{2}, {4}}, third)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, []string{"cccc"}, inner.batches[1])
}

func TestCachedProviderKeyIncludesTaskType(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(inner, NewMemoryVectorCache(time.Minute))

	_, err := p.Embed(context.Background(), []string{"same"}, TaskDocument)
	assert.NoError(t, err)
	_, err = p.Embed(context.Background(), []string{"same"}, TaskQuery)
	assert.NoError(t, err)

	assert.Equal(t, 2, inner.calls, "different task types must not share cache entries")
}

func TestNormalizeVector(t *testing.T) {
	normalized := normalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(normalized[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(normalized[1]), 1e-6)

	zero := normalizeVector([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

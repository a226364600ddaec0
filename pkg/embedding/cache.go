package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// VectorCache stores computed embeddings keyed by content hash. Used on the
// query path so repeated searches skip the provider round-trip.
type VectorCache interface {
	Get(ctx context.Context, key string) ([]float32, bool)
	Set(ctx context.Context, key string, vector []float32)
}

// RedisVectorCache stores vectors in Redis with a TTL. Cache errors are
// treated as misses; the cache never fails an embed call.
type RedisVectorCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisVectorCache(client *redis.Client, ttl time.Duration) *RedisVectorCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisVectorCache{client: client, ttl: ttl}
}

func (c *RedisVectorCache) Get(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.client.Get(ctx, "emb:"+key).Bytes()
	if err != nil {
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, false
	}
	return vec, true
}

func (c *RedisVectorCache) Set(ctx context.Context, key string, vector []float32) {
	data, err := json.Marshal(vector)
	if err != nil {
		return
	}
	c.client.Set(ctx, "emb:"+key, data, c.ttl)
}

// MemoryVectorCache is the in-process fallback when Redis is not configured.
type MemoryVectorCache struct {
	store *gocache.Cache
}

func NewMemoryVectorCache(ttl time.Duration) *MemoryVectorCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryVectorCache{store: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryVectorCache) Get(_ context.Context, key string) ([]float32, bool) {
	if v, ok := c.store.Get(key); ok {
		return v.([]float32), true
	}
	return nil, false
}

func (c *MemoryVectorCache) Set(_ context.Context, key string, vector []float32) {
	c.store.Set(key, vector, gocache.DefaultExpiration)
}

// CachedProvider decorates a Provider with a VectorCache. Cache misses are
// batched into a single provider call, preserving input order.
type CachedProvider struct {
	inner Provider
	cache VectorCache
}

func NewCachedProvider(inner Provider, cache VectorCache) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache}
}

func (p *CachedProvider) Model() string { return p.inner.Model() }

func (p *CachedProvider) Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return p.inner.Embed(ctx, texts, taskType)
	}

	vectors := make([][]float32, len(texts))
	keys := make([]string, len(texts))

	var missTexts []string
	var missIdx []int

	for i, text := range texts {
		keys[i] = cacheKey(p.inner.Model(), taskType, text)
		if vec, ok := p.cache.Get(ctx, keys[i]); ok {
			vectors[i] = vec
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	fresh, err := p.inner.Embed(ctx, missTexts, taskType)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("embedding cache: provider returned %d vectors for %d misses", len(fresh), len(missTexts))
	}

	for j, i := range missIdx {
		vectors[i] = fresh[j]
		p.cache.Set(ctx, keys[i], fresh[j])
	}
	return vectors, nil
}

func cacheKey(model, taskType, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + taskType + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

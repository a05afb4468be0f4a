package embedding

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached wraps an Engine with an LRU cache keyed by the exact input text.
// Chat traffic repeats itself ("hola", "gracias"), so most messages skip the backend.
type Cached struct {
	Engine
	cache *lru.Cache[string, []float32]
}

// NewCached returns engine wrapped in a cache holding up to size vectors.
func NewCached(engine Engine, size int) (*Cached, error) {
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("creating embedding cache: %w", err)
	}
	return &Cached{Engine: engine, cache: cache}, nil
}

// Embed returns the cached vector for text or computes and stores it.
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		return v, nil
	}
	v, err := c.Engine.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, v)
	return v, nil
}

// EmbedBatch serves cached texts locally and sends only the misses to the backend.
func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string
	for i, t := range texts {
		if v, ok := c.cache.Get(t); ok {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.Engine.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, idx := range missIdx {
		c.cache.Add(texts[idx], vecs[j])
		out[idx] = vecs[j]
	}
	return out, nil
}

// HealthCheck forwards to the wrapped engine when it supports health checks.
func (c *Cached) HealthCheck(ctx context.Context) error {
	if hc, ok := c.Engine.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// Len reports how many vectors are cached.
func (c *Cached) Len() int { return c.cache.Len() }

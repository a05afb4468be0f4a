// Package embedding turns text into fixed-length vectors for semantic matching.
// Backends: a local hashing encoder (offline), Ollama and Google GenAI.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Engine generates vector embeddings for text.
type Engine interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}

// HealthChecker is implemented by engines that can verify their backend is
// reachable before the first embedding is requested.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

var (
	// ErrUnsupportedProvider indicates an unknown provider name in Config.
	ErrUnsupportedProvider = errors.New("unsupported embedding provider")

	// ErrDimensionMismatch indicates two vectors of different length were compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyEmbedding indicates a backend answered without a vector.
	ErrEmptyEmbedding = errors.New("empty embedding")
)

// Config selects and configures an Engine.
type Config struct {
	Provider string // "local", "ollama" or "genai"

	Dimensions int // local only

	OllamaEndpoint string
	OllamaModel    string

	GenAIAPIKey string
	GenAIModel  string
	TaskType    string

	CacheSize int // 0 disables the query cache
}

// NewEngine builds the engine named by cfg.Provider, wrapped in an LRU cache
// when cfg.CacheSize is positive.
func NewEngine(cfg Config) (Engine, error) {
	var (
		engine Engine
		err    error
	)
	switch cfg.Provider {
	case "", "local":
		engine = NewLocal(cfg.Dimensions)
	case "ollama":
		engine = NewOllama(cfg.OllamaEndpoint, cfg.OllamaModel)
	case "genai":
		engine, err = NewGenAI(cfg.GenAIAPIKey, cfg.GenAIModel, cfg.TaskType)
	default:
		return nil, fmt.Errorf("%w: %q (use local, ollama or genai)", ErrUnsupportedProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheSize > 0 {
		return NewCached(engine, cfg.CacheSize)
	}
	return engine, nil
}

// CosineSimilarity returns the cosine of the angle between a and b, in [-1, 1].
// A zero-magnitude vector yields 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0, nil
	}

	// Rounding can push identical vectors a hair past 1.
	return max(-1, min(1, dot/denom)), nil
}

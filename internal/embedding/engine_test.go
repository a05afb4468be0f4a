package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 2}, []float32{-1, -2}, -1},
		{"scaled", []float32{1, 1}, []float32{5, 5}, 1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	a := []float32{0.3, -1.2, 4.5, 0}
	b := []float32{2.2, 0.1, -0.7, 9}

	ab, err := CosineSimilarity(a, b)
	require.NoError(t, err)
	ba, err := CosineSimilarity(b, a)
	require.NoError(t, err)

	assert.Equal(t, ab, ba)
	assert.GreaterOrEqual(t, ab, -1.0)
	assert.LessOrEqual(t, ab, 1.0)
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1}, []float32{1, 2})
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine(Config{Provider: "local", Dimensions: 64})
	require.NoError(t, err)
	assert.Equal(t, "local:hash64", e.Name())

	e, err = NewEngine(Config{Provider: "ollama", CacheSize: 8})
	require.NoError(t, err)
	_, cached := e.(*Cached)
	assert.True(t, cached)
	assert.Equal(t, "ollama:embeddinggemma", e.Name())

	_, err = NewEngine(Config{Provider: "word2vec"})
	assert.True(t, errors.Is(err, ErrUnsupportedProvider))

	_, err = NewEngine(Config{Provider: "genai"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestLocal_Deterministic(t *testing.T) {
	l := NewLocal(128)
	ctx := context.Background()

	a, err := l.Embed(ctx, "Recuérdame comprar leche mañana")
	require.NoError(t, err)
	b, err := l.Embed(ctx, "recuerdame comprar leche mañana")
	require.NoError(t, err)

	assert.Len(t, a, 128)
	assert.Equal(t, a, b, "accents and case are folded")

	self, err := CosineSimilarity(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, self, 1e-6)
}

func TestLocal_RelatedTextsAreCloser(t *testing.T) {
	l := NewLocal(0)
	ctx := context.Background()

	base, _ := l.Embed(ctx, "Ver mis recordatorios")
	near, _ := l.Embed(ctx, "ver todos mis recordatorios")
	far, _ := l.Embed(ctx, "cuéntame un chiste")

	simNear, err := CosineSimilarity(base, near)
	require.NoError(t, err)
	simFar, err := CosineSimilarity(base, far)
	require.NoError(t, err)

	assert.Greater(t, simNear, simFar)
}

func TestLocal_EmptyTextIsZeroVector(t *testing.T) {
	v, err := NewLocal(16).Embed(context.Background(), "¿?")
	require.NoError(t, err)
	for _, x := range v {
		assert.Zero(t, x)
	}
}

func TestLocal_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocal(16).Embed(ctx, "hola")
	assert.ErrorIs(t, err, context.Canceled)
}

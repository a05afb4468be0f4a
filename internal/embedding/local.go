package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/shahar-caura/marino/internal/textnorm"
)

const defaultLocalDimensions = 512

// Local is an offline feature-hashing encoder. Word unigrams, word bigrams and
// character trigrams of the folded text are hashed into a fixed number of
// buckets and the result is L2-normalized. It is deterministic, needs no
// model download and is good enough to separate short, keyword-heavy intents.
type Local struct {
	dims int
}

// NewLocal returns a Local engine producing vectors of the given size.
func NewLocal(dims int) *Local {
	if dims <= 0 {
		dims = defaultLocalDimensions
	}
	return &Local{dims: dims}
}

// Embed hashes text into a vector. Text without any word yields the zero vector.
func (l *Local) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, l.dims)
	words := textnorm.Words(text)
	for i, w := range words {
		l.add(vec, "w:"+w, 1.0)
		if i > 0 {
			l.add(vec, "b:"+words[i-1]+" "+w, 0.75)
		}
		padded := []rune("^" + w + "$")
		for j := 0; j+3 <= len(padded); j++ {
			l.add(vec, "c:"+string(padded[j:j+3]), 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec, nil
}

// add uses the hash's top bit as sign so collisions tend to cancel out.
func (l *Local) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(l.dims))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// EmbedBatch embeds each text in order.
func (l *Local) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := l.Embed(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Dimensions returns the vector length.
func (l *Local) Dimensions() int { return l.dims }

// Name returns the engine name.
func (l *Local) Name() string { return fmt.Sprintf("local:hash%d", l.dims) }

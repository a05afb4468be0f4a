package intent

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/shahar-caura/marino/internal/embedding"
)

// fakeEngine is the local hashing engine plus a health check that can be
// made slow or failing, with call counters.
type fakeEngine struct {
	*embedding.Local
	healthCalls atomic.Int32
	embedCalls  atomic.Int32
	healthErr   error
	block       chan struct{}
	failEmbed   bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{Local: embedding.NewLocal(256)}
}

func (f *fakeEngine) HealthCheck(ctx context.Context) error {
	f.healthCalls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.healthErr
}

func (f *fakeEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	f.embedCalls.Add(1)
	if f.failEmbed {
		return nil, errors.New("embedding backend exploded")
	}
	return f.Local.Embed(ctx, text)
}

func (f *fakeEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if f.failEmbed {
		return nil, errors.New("embedding backend exploded")
	}
	return f.Local.EmbedBatch(ctx, texts)
}

// panickingEngine crashes on every embedding call.
type panickingEngine struct {
	*embedding.Local
}

func (panickingEngine) Embed(context.Context, string) ([]float32, error) { panic("backend bug") }

func (panickingEngine) EmbedBatch(context.Context, []string) ([][]float32, error) {
	panic("backend bug")
}

// flakyBatchEngine fails every batch and a chosen example.
type flakyBatchEngine struct {
	*embedding.Local
	bad        string
	batchCalls atomic.Int32
}

func (f *flakyBatchEngine) EmbedBatch(context.Context, []string) ([][]float32, error) {
	f.batchCalls.Add(1)
	return nil, errors.New("batch endpoint down")
}

func (f *flakyBatchEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == f.bad {
		return nil, errors.New("bad example")
	}
	return f.Local.Embed(ctx, text)
}

func TestSemantic_SelfTestRepresentativesResolve(t *testing.T) {
	s := NewSemantic(embedding.NewLocal(0), DefaultCatalog())

	results, err := s.SelfTest(context.Background())
	require.NoError(t, err)

	seen := map[Label]bool{}
	for _, r := range results {
		if !r.Representative {
			continue
		}
		seen[r.Label] = true
		assert.True(t, r.Pass, "representative %q resolved to %s (%.3f)", r.Example, r.Got, r.Confidence)
		assert.GreaterOrEqual(t, r.Confidence, DefaultThreshold)
	}
	assert.Len(t, seen, len(Labels), "every label has a representative")
}

func TestSemantic_IndexHasOneVectorPerLabel(t *testing.T) {
	for _, st := range []IndexStrategy{IndexFirst, IndexMean} {
		t.Run(string(st), func(t *testing.T) {
			s := NewSemantic(embedding.NewLocal(64), DefaultCatalog(), WithIndexStrategy(st))
			idx, err := s.Index(context.Background())
			require.NoError(t, err)
			assert.Equal(t, DefaultCatalog().Order, idx.Labels())
		})
	}
}

func TestSemantic_FirstStrategyUsesFirstExample(t *testing.T) {
	s := NewSemantic(embedding.NewLocal(64), DefaultCatalog())
	idx, err := s.Index(context.Background())
	require.NoError(t, err)
	for _, e := range idx.entries {
		assert.Equal(t, DefaultCatalog().Get(e.label)[0], e.example)
	}
}

func TestSemantic_ResolveScenarios(t *testing.T) {
	s := NewSemantic(embedding.NewLocal(0), DefaultCatalog())
	ctx := context.Background()

	m, err := s.Resolve(ctx, "Hola")
	require.NoError(t, err)
	assert.Equal(t, Greeting, m.Label)
	assert.InDelta(t, 1.0, m.Confidence, 1e-6)

	m, err = s.Resolve(ctx, "recuérdame comprar leche mañana")
	require.NoError(t, err)
	assert.Equal(t, CreateReminder, m.Label)

	m, err = s.Resolve(ctx, "asdkjaslkdj")
	require.NoError(t, err)
	assert.Equal(t, Unknown, m.Label)
	assert.Less(t, m.Confidence, DefaultThreshold)

	_, ok := s.Classify(ctx, "asdkjaslkdj")
	assert.False(t, ok, "below-threshold is inconclusive for the chain")
}

func TestSemantic_ConcurrentFirstCallsBuildOnce(t *testing.T) {
	eng := newFakeEngine()
	eng.block = make(chan struct{})
	s := NewSemantic(eng, DefaultCatalog(), WithTimeout(5*time.Second))

	var wg sync.WaitGroup
	labels := make([]Label, 16)
	for i := range labels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, _ := s.Classify(context.Background(), "Hola")
			labels[i] = m.Label
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(eng.block)
	wg.Wait()

	assert.EqualValues(t, 1, eng.healthCalls.Load())
	for _, l := range labels {
		assert.Equal(t, Greeting, l)
	}
}

func TestSemantic_InitFailureIsUnresolved(t *testing.T) {
	eng := newFakeEngine()
	eng.healthErr = errors.New("model download failed")
	s := NewSemantic(eng, DefaultCatalog())

	_, ok := s.Classify(context.Background(), "Hola")
	assert.False(t, ok)

	_, err := s.Resolve(context.Background(), "Hola")
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestSemantic_RetryBackoff(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	eng := newFakeEngine()
	eng.healthErr = errors.New("offline")
	s := NewSemantic(eng, DefaultCatalog(),
		WithRetryBackoff(time.Minute),
		WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	_, err := s.Resolve(ctx, "Hola")
	require.Error(t, err)
	assert.EqualValues(t, 1, eng.healthCalls.Load())

	_, err = s.Resolve(ctx, "Hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "last initialization failed")
	assert.EqualValues(t, 1, eng.healthCalls.Load(), "no retry inside the backoff window")

	now = now.Add(2 * time.Minute)
	eng.healthErr = nil
	m, err := s.Resolve(ctx, "Hola")
	require.NoError(t, err)
	assert.Equal(t, Greeting, m.Label)
	assert.EqualValues(t, 2, eng.healthCalls.Load())
}

func TestSemantic_NoEmbeddableExamples(t *testing.T) {
	eng := newFakeEngine()
	eng.failEmbed = true
	s := NewSemantic(eng, DefaultCatalog())

	_, err := s.Resolve(context.Background(), "Hola")
	assert.ErrorIs(t, err, ErrEmptyIndex)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestSemantic_TimeoutFallsBackWithoutLeaking(t *testing.T) {
	defer goleak.VerifyNone(t)

	eng := newFakeEngine()
	eng.block = make(chan struct{})
	s := NewSemantic(eng, DefaultCatalog(), WithTimeout(30*time.Millisecond))

	start := time.Now()
	_, ok := s.Classify(context.Background(), "Hola")
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)

	// The build outlives the caller; finish it so no goroutine is left.
	close(eng.block)
	require.NoError(t, s.Warmup(context.Background()))

	m, ok := s.Classify(context.Background(), "Hola")
	assert.True(t, ok)
	assert.Equal(t, Greeting, m.Label)
	assert.EqualValues(t, 1, eng.healthCalls.Load())
}

func TestSemantic_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)
	s := NewSemantic(embedding.NewLocal(64), DefaultCatalog(), WithMetrics(m))

	_, err := s.Resolve(context.Background(), "Hola")
	require.NoError(t, err)
	_, err = s.Resolve(context.Background(), "Gracias")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.indexBuilds.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.indexBuilds.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.embedDuration))
}

func TestIndex_NearestTieKeepsFirst(t *testing.T) {
	idx := &Index{entries: []indexEntry{
		{label: Greeting, vector: []float32{1, 0}},
		{label: Farewell, vector: []float32{1, 0}},
	}}
	m := idx.nearest([]float32{1, 0}, 0.6)
	assert.Equal(t, Greeting, m.Label)
}

func TestIndex_NearestSkipsMismatchedDimensions(t *testing.T) {
	idx := &Index{entries: []indexEntry{
		{label: Greeting, vector: []float32{1, 0, 0}},
		{label: Farewell, vector: []float32{0, 1}},
	}}
	m := idx.nearest([]float32{0, 1}, 0.6)
	assert.Equal(t, Farewell, m.Label)
}

func TestIndex_ThresholdIsExclusive(t *testing.T) {
	idx := &Index{entries: []indexEntry{{label: Greeting, vector: []float32{1, 0}}}}
	query := []float32{0.6, 0.8}
	score, err := embedding.CosineSimilarity(query, idx.entries[0].vector)
	require.NoError(t, err)

	assert.Equal(t, Unknown, idx.nearest(query, score).Label, "a score equal to the threshold is rejected")
	assert.Equal(t, Greeting, idx.nearest(query, score-1e-9).Label)
}

func TestSemantic_PanickingEngineIsUnavailable(t *testing.T) {
	defer goleak.VerifyNone(t)

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewSemantic(panickingEngine{embedding.NewLocal(64)}, DefaultCatalog(),
		WithClock(func() time.Time { return now }),
	)

	_, ok := s.Classify(context.Background(), "Hola")
	assert.False(t, ok)

	_, err := s.Resolve(context.Background(), "Hola")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Contains(t, err.Error(), "panicked")
	assert.Contains(t, err.Error(), "last initialization failed")

	m := NewChain(nil, nil, s, NewRegex(nil)).Resolve(context.Background(), "Hola")
	assert.Equal(t, Greeting, m.Label)
	assert.Equal(t, "regex", m.Strategy)
}

func TestSemantic_BatchFailureEmbedsOneByOne(t *testing.T) {
	cat := DefaultCatalog()
	first := cat.Get(Greeting)[0]
	eng := &flakyBatchEngine{Local: embedding.NewLocal(64), bad: first}
	s := NewSemantic(eng, cat)

	idx, err := s.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cat.Order, idx.Labels())
	assert.EqualValues(t, len(cat.Order), eng.batchCalls.Load())

	for _, e := range idx.entries {
		if e.label == Greeting {
			assert.Equal(t, cat.Get(Greeting)[1], e.example, "a failing example is skipped")
			continue
		}
		assert.Equal(t, cat.Get(e.label)[0], e.example)
	}
}

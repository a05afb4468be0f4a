package intent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shahar-caura/marino/internal/embedding"
)

// DefaultThreshold is the minimum cosine similarity for a semantic match.
const DefaultThreshold = 0.6

// IndexStrategy decides how a label's examples become its single vector.
type IndexStrategy string

const (
	// IndexFirst uses the first example that embeds successfully.
	IndexFirst IndexStrategy = "first"
	// IndexMean averages every example that embeds successfully.
	IndexMean IndexStrategy = "mean"
)

// SemanticOption configures a Semantic matcher.
type SemanticOption func(*Semantic)

// WithThreshold sets the acceptance threshold.
func WithThreshold(t float64) SemanticOption { return func(s *Semantic) { s.threshold = t } }

// WithIndexStrategy sets how label vectors are derived from examples.
func WithIndexStrategy(st IndexStrategy) SemanticOption {
	return func(s *Semantic) { s.strategy = st }
}

// WithTimeout bounds each Resolve call, including any wait for the index.
func WithTimeout(d time.Duration) SemanticOption { return func(s *Semantic) { s.timeout = d } }

// WithInitTimeout bounds the one-time model check and index build.
func WithInitTimeout(d time.Duration) SemanticOption {
	return func(s *Semantic) { s.initTimeout = d }
}

// WithRetryBackoff sets how long a failed initialization is remembered before
// another attempt is made.
func WithRetryBackoff(d time.Duration) SemanticOption {
	return func(s *Semantic) { s.retryBackoff = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) SemanticOption { return func(s *Semantic) { s.logger = l } }

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) SemanticOption { return func(s *Semantic) { s.metrics = m } }

// WithClock overrides time.Now, for retry backoff tests.
func WithClock(now func() time.Time) SemanticOption { return func(s *Semantic) { s.now = now } }

type indexEntry struct {
	label   Label
	example string // representative example; first embedded one
	vector  []float32
}

// Index holds exactly one vector per embeddable label, in catalog order.
type Index struct {
	entries []indexEntry
}

// Labels returns the indexed labels in catalog order.
func (i *Index) Labels() []Label {
	out := make([]Label, len(i.entries))
	for n, e := range i.entries {
		out[n] = e.label
	}
	return out
}

// Semantic classifies messages by nearest-neighbor cosine similarity between
// the message embedding and one vector per catalog label.
//
// The index is built lazily on first use and shared by all callers. Concurrent
// first calls join a single build. Callers wait only as long as their own
// context allows; the build keeps running under its own timeout so a later
// message can use it.
type Semantic struct {
	engine       embedding.Engine
	catalog      Catalog
	threshold    float64
	strategy     IndexStrategy
	timeout      time.Duration
	initTimeout  time.Duration
	retryBackoff time.Duration
	logger       *slog.Logger
	metrics      *Metrics
	now          func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	index    *Index
	failedAt time.Time
	lastErr  error
}

// NewSemantic returns a matcher over catalog using engine.
func NewSemantic(engine embedding.Engine, catalog Catalog, opts ...SemanticOption) *Semantic {
	s := &Semantic{
		engine:       engine,
		catalog:      catalog,
		threshold:    DefaultThreshold,
		strategy:     IndexFirst,
		timeout:      5 * time.Second,
		initTimeout:  60 * time.Second,
		retryBackoff: time.Minute,
		now:          time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Name identifies the strategy in a Chain.
func (s *Semantic) Name() string { return "semantic" }

// Threshold returns the acceptance threshold.
func (s *Semantic) Threshold() float64 { return s.threshold }

// Classify resolves text and reports false when the model is unavailable or
// no label clears the threshold, so the next strategy can try.
func (s *Semantic) Classify(ctx context.Context, text string) (Match, bool) {
	m, err := s.Resolve(ctx, text)
	if err != nil {
		s.logger.Debug("semantic classification unavailable", "error", err)
		return Match{}, false
	}
	if m.Label == Unknown {
		return m, false
	}
	return m, true
}

// Resolve embeds text and returns the best label above the threshold, or
// Unknown. Errors wrap ErrModelUnavailable.
func (s *Semantic) Resolve(ctx context.Context, text string) (m Match, err error) {
	defer recoverEngine(&err, "embedding message")

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	idx, err := s.ensureIndex(ctx)
	if err != nil {
		return Match{}, err
	}

	start := time.Now()
	vec, err := s.engine.Embed(ctx, text)
	s.metrics.observeEmbed(time.Since(start))
	if err != nil {
		return Match{}, fmt.Errorf("%w: embedding message: %w", ErrModelUnavailable, err)
	}

	return idx.nearest(vec, s.threshold), nil
}

// Warmup builds the index now instead of on the first message.
func (s *Semantic) Warmup(ctx context.Context) error {
	_, err := s.ensureIndex(ctx)
	return err
}

// Index returns the built index, building it if needed.
func (s *Semantic) Index(ctx context.Context) (*Index, error) {
	return s.ensureIndex(ctx)
}

func (i *Index) nearest(vec []float32, threshold float64) Match {
	best := Match{Label: Unknown, Strategy: "semantic"}
	bestScore := -1.0
	var bestLabel Label
	for _, e := range i.entries {
		score, err := embedding.CosineSimilarity(vec, e.vector)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestLabel = e.label
		}
	}
	if bestScore > threshold {
		best.Label = bestLabel
	}
	best.Confidence = max(bestScore, 0)
	return best
}

func (s *Semantic) ensureIndex(ctx context.Context) (*Index, error) {
	s.mu.RLock()
	idx, failedAt, lastErr := s.index, s.failedAt, s.lastErr
	s.mu.RUnlock()

	if idx != nil {
		return idx, nil
	}
	if !failedAt.IsZero() && s.now().Sub(failedAt) < s.retryBackoff {
		return nil, fmt.Errorf("%w: last initialization failed: %w", ErrModelUnavailable, lastErr)
	}

	// The build is detached from ctx: one caller timing out must not abort it
	// for everybody else waiting on the same flight.
	buildCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan("index", func() (any, error) {
		idx, err := s.buildOnce(buildCtx)
		if err != nil {
			return nil, err
		}
		return idx, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: waiting for index: %w", ErrModelUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Index), nil
	}
}

// buildOnce runs inside the single flight. A panic there cannot be recovered
// by any caller, so it is turned into a failed initialization here.
func (s *Semantic) buildOnce(ctx context.Context) (*Index, error) {
	s.mu.RLock()
	ready := s.index
	s.mu.RUnlock()
	if ready != nil {
		return ready, nil
	}

	bctx, cancel := context.WithTimeout(ctx, s.initTimeout)
	defer cancel()

	start := time.Now()
	built, err := s.safeBuild(bctx)
	s.metrics.indexBuilt(err == nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failedAt = s.now()
		s.lastErr = err
		s.logger.Warn("intent index build failed", "engine", s.engine.Name(), "error", err)
		return nil, err
	}
	s.index = built
	s.failedAt = time.Time{}
	s.lastErr = nil
	s.logger.Info("intent index ready",
		"engine", s.engine.Name(),
		"labels", len(built.entries),
		"strategy", string(s.strategy),
		"duration", time.Since(start),
	)
	return built, nil
}

func (s *Semantic) safeBuild(ctx context.Context) (idx *Index, err error) {
	defer recoverEngine(&err, "index build")
	return s.build(ctx)
}

// recoverEngine converts a panicking embedding backend into ErrModelUnavailable.
func recoverEngine(err *error, op string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %s panicked: %v", ErrModelUnavailable, op, r)
	}
}

func (s *Semantic) build(ctx context.Context) (*Index, error) {
	if hc, ok := s.engine.(embedding.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		}
	}

	idx := &Index{}
	for _, label := range s.catalog.Order {
		entry, ok := s.embedLabel(ctx, label)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: building index: %w", ErrModelUnavailable, err)
		}
		if !ok {
			s.logger.Warn("intent has no embeddable example", "label", string(label))
			continue
		}
		idx.entries = append(idx.entries, entry)
	}

	if len(idx.entries) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, ErrEmptyIndex)
	}
	return idx, nil
}

// embedLabel embeds a label's examples in one batch. When the batch fails the
// examples are embedded one by one so a single bad example only skips itself.
func (s *Semantic) embedLabel(ctx context.Context, label Label) (indexEntry, bool) {
	entry := indexEntry{label: label}
	examples := s.catalog.Get(label)
	if len(examples) == 0 {
		return entry, false
	}

	vecs, err := s.engine.EmbedBatch(ctx, examples)
	if err != nil || len(vecs) != len(examples) {
		if ctx.Err() != nil {
			return entry, false
		}
		s.logger.Debug("batch embedding failed, embedding examples one by one",
			"label", string(label), "error", err)
		vecs = s.embedEach(ctx, label, examples)
	}

	var sum []float64
	n := 0
	for i, vec := range vecs {
		if len(vec) == 0 {
			continue
		}
		if n == 0 {
			entry.example = examples[i]
			entry.vector = vec
			if s.strategy != IndexMean {
				return entry, true
			}
			sum = make([]float64, len(vec))
		}
		if len(vec) != len(sum) {
			continue
		}
		for j, v := range vec {
			sum[j] += float64(v)
		}
		n++
	}

	if n == 0 {
		return entry, false
	}
	mean := make([]float32, len(sum))
	for i, v := range sum {
		mean[i] = float32(v / float64(n))
	}
	entry.vector = mean
	return entry, true
}

// embedEach returns one vector per example, nil where embedding failed. With
// the first strategy it stops at the first success.
func (s *Semantic) embedEach(ctx context.Context, label Label, examples []string) [][]float32 {
	out := make([][]float32, len(examples))
	for i, ex := range examples {
		vec, err := s.engine.Embed(ctx, ex)
		if err != nil || len(vec) == 0 {
			s.logger.Debug("skipping catalog example", "label", string(label), "example", ex, "error", err)
			if ctx.Err() != nil {
				return out
			}
			continue
		}
		out[i] = vec
		if s.strategy != IndexMean {
			return out
		}
	}
	return out
}

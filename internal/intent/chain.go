package intent

import (
	"context"
	"log/slog"
)

// Chain tries each strategy in order and returns the first decisive match.
// Adding a strategy is appending to the slice.
type Chain struct {
	strategies []Classifier
	logger     *slog.Logger
	metrics    *Metrics
}

// NewChain returns a chain over strategies. Logger and metrics may be nil.
func NewChain(logger *slog.Logger, metrics *Metrics, strategies ...Classifier) *Chain {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Chain{strategies: strategies, logger: logger, metrics: metrics}
}

// Resolve returns the first decisive match, or Unknown when every strategy
// passes. It never fails.
func (c *Chain) Resolve(ctx context.Context, text string) Match {
	for _, s := range c.strategies {
		m, ok := s.Classify(ctx, text)
		if ok {
			if m.Strategy == "" {
				m.Strategy = s.Name()
			}
			c.metrics.classified(m.Strategy, m.Label)
			c.logger.Debug("intent resolved", "strategy", m.Strategy, "label", string(m.Label), "confidence", m.Confidence)
			return m
		}
		c.metrics.fellBack(s.Name())
	}
	c.metrics.classified("none", Unknown)
	return Match{Label: Unknown, Strategy: "none"}
}

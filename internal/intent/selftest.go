package intent

import (
	"context"
	"fmt"
)

// SelfTestResult reports how one catalog example classifies verbatim.
type SelfTestResult struct {
	Label          Label
	Example        string
	Representative bool
	Got            Label
	Confidence     float64
	Pass           bool
}

// SelfTest classifies every catalog example of every indexed label. A label's
// representative example (the one its vector came from) passes when it
// resolves to its own label with confidence at or above the threshold; other
// examples pass when they resolve to their own label.
func (s *Semantic) SelfTest(ctx context.Context) ([]SelfTestResult, error) {
	idx, err := s.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}

	var results []SelfTestResult
	for _, e := range idx.entries {
		for _, ex := range s.catalog.Get(e.label) {
			m, err := s.Resolve(ctx, ex)
			if err != nil {
				return results, fmt.Errorf("classifying %q: %w", ex, err)
			}
			r := SelfTestResult{
				Label:          e.label,
				Example:        ex,
				Representative: ex == e.example,
				Got:            m.Label,
				Confidence:     m.Confidence,
			}
			r.Pass = m.Label == e.label
			if r.Representative {
				r.Pass = r.Pass && m.Confidence >= s.threshold
			}
			results = append(results, r)
		}
	}
	return results, nil
}

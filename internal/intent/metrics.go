package intent

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for classification activity.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	classifications *prometheus.CounterVec
	fallbacks       *prometheus.CounterVec
	embedDuration   prometheus.Histogram
	indexBuilds     *prometheus.CounterVec
}

// MustNewMetrics registers the intent collectors with reg and panics on
// duplicate registration, like the promauto helpers.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "marino",
				Subsystem: "intent",
				Name:      "classifications_total",
				Help:      "Messages classified, by resolving strategy and label.",
			},
			[]string{"strategy", "label"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "marino",
				Subsystem: "intent",
				Name:      "fallbacks_total",
				Help:      "Times a strategy passed a message on to the next one.",
			},
			[]string{"strategy"},
		),
		embedDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "marino",
				Subsystem: "intent",
				Name:      "embed_duration_seconds",
				Help:      "Latency of embedding a single incoming message.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		indexBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "marino",
				Subsystem: "intent",
				Name:      "index_builds_total",
				Help:      "Intent index build attempts, by result.",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.classifications, m.fallbacks, m.embedDuration, m.indexBuilds)
	return m
}

func (m *Metrics) classified(strategy string, label Label) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(strategy, string(label)).Inc()
}

func (m *Metrics) fellBack(strategy string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(strategy).Inc()
}

func (m *Metrics) observeEmbed(d time.Duration) {
	if m == nil {
		return
	}
	m.embedDuration.Observe(d.Seconds())
}

func (m *Metrics) indexBuilt(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.indexBuilds.WithLabelValues(result).Inc()
}

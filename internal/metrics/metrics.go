// Package metrics exposes prometheus instruments for scoring runs.
package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution paths of the ensemble.
const (
	PathTieBreaker = "tie_breaker"
	PathBlend      = "blend"
)

// Embedding lookup results.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

// Metrics holds the instruments. A nil *Metrics records nothing.
type Metrics struct {
	CandidatesScored    *prometheus.CounterVec
	EnsembleResolutions *prometheus.CounterVec
	EmbeddingLookups    *prometheus.CounterVec
	TotalScore          prometheus.Histogram
	RankDuration        prometheus.Histogram
}

// New registers the instruments with reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CandidatesScored: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matcher_candidates_scored_total",
				Help: "Total number of applicants scored, by scoring method",
			},
			[]string{"method"},
		),
		EnsembleResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matcher_ensemble_resolutions_total",
				Help: "Ensemble outcomes by resolution path",
			},
			[]string{"path"},
		),
		EmbeddingLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matcher_embedding_lookups_total",
				Help: "Skill embedding lookups by result",
			},
			[]string{"result"},
		),
		TotalScore: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "matcher_total_score",
				Help:    "Distribution of applicant total scores",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
		),
		RankDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name: "matcher_rank_duration_seconds",
				Help: "Duration of ranking one applicant pool",
			},
		),
	}
}

// ObserveCandidate records one scored applicant.
func (m *Metrics) ObserveCandidate(method string, total float64) {
	if m == nil {
		return
	}
	m.CandidatesScored.WithLabelValues(method).Inc()
	m.TotalScore.Observe(total)
}

// ObserveResolution records which ensemble path produced a result.
func (m *Metrics) ObserveResolution(path string) {
	if m == nil {
		return
	}
	m.EnsembleResolutions.WithLabelValues(path).Inc()
}

// ObserveLookup records an embedding lookup outcome.
func (m *Metrics) ObserveLookup(result string) {
	if m == nil {
		return
	}
	m.EmbeddingLookups.WithLabelValues(result).Inc()
}

// ObserveRank records the duration of a ranking run.
func (m *Metrics) ObserveRank(d time.Duration) {
	if m == nil {
		return
	}
	m.RankDuration.Observe(d.Seconds())
}

// WriteTextfile writes everything gathered by g to path in the node exporter textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics textfile %q: %w", path, err)
	}
	return nil
}

// Package semantic adapts text embedding providers into the similarity oracle used for skill matching.
package semantic

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/spigell/applicant-matcher/internal/logger"
	"github.com/spigell/applicant-matcher/internal/metrics"
	"github.com/spigell/applicant-matcher/internal/utils"
)

// ErrCacheMiss is returned by cache lookups that found nothing.
var ErrCacheMiss = errors.New("embedding not cached")

// Embedder turns a short text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbedderFunc adapts a function to Embedder.
type EmbedderFunc func(ctx context.Context, text string) ([]float32, error)

func (f EmbedderFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}

// Oracle wraps an Embedder and never fails: errors become empty vectors.
type Oracle struct {
	embedder Embedder
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewOracle returns an Oracle over embedder. A nil embedder yields an oracle that knows nothing.
func NewOracle(embedder Embedder, log *zap.Logger, m *metrics.Metrics) *Oracle {
	return &Oracle{
		embedder: embedder,
		logger:   logger.WithFields(log),
		metrics:  m,
	}
}

// Vector returns the embedding of text, or nil when the provider failed.
func (o *Oracle) Vector(ctx context.Context, text string) []float32 {
	if o == nil || o.embedder == nil {
		return nil
	}

	vector, err := o.embedder.Embed(ctx, text)
	if err != nil {
		o.metrics.ObserveLookup(metrics.LookupError)
		level := zap.WarnLevel
		if ctx.Err() != nil {
			level = zap.DebugLevel
		}
		o.logger.Log(level, "embedding lookup failed",
			zap.String("text", utils.TruncateForLog(text, 80)),
			zap.Error(err),
		)
		return nil
	}

	return vector
}

// Similarity returns the cosine similarity of a and b as a percentage, floored at 0.
// Empty or mismatched vectors are not similar.
func Similarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	cosine := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return min(max(cosine, 0), 1) * 100
}

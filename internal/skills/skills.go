// Package skills matches required job skills to applicant skills with a greedy band-scored assignment.
package skills

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/applicant-matcher/internal/logger"
	"github.com/spigell/applicant-matcher/internal/requirement"
	"github.com/spigell/applicant-matcher/internal/semantic"
	"github.com/spigell/applicant-matcher/internal/similarity"
)

const (
	// NeutralScore is returned when the job lists no real skills.
	NeutralScore = 50.0

	overlapCeiling    = 85.0
	overlapWeight     = 30.0
	semanticThreshold = 65.0
	semanticWeight    = 0.85
	exactThreshold    = 95.0
	bandFloor         = 55.0
	matchedBand       = 50.0
	maxSurplusBonus   = 5

	prefetchConcurrency = 8
)

// VectorSource returns embeddings and never fails. A nil vector means unknown.
type VectorSource interface {
	Vector(ctx context.Context, text string) []float32
}

// Assignment is the applicant skill chosen for one job skill.
type Assignment struct {
	JobSkill       string  `json:"job_skill"`
	ApplicantSkill string  `json:"applicant_skill,omitempty"`
	Combined       float64 `json:"combined"`
	Band           float64 `json:"band"`
}

// Result is the skills dimension of a score breakdown.
type Result struct {
	Score         float64
	Base          float64
	Bonus         float64
	Matched       int
	Required      int
	NoRequirement bool
	// Semantic is set when embedding similarity took part in scoring.
	Semantic    bool
	Assignments []Assignment
}

// Matcher scores skill lists. The zero value scores on text similarity alone.
type Matcher struct {
	vectors VectorSource
	timeout time.Duration
	logger  *zap.Logger
}

// NewMatcher returns a Matcher. vectors may be nil; timeout bounds the whole embedding prefetch of one call.
func NewMatcher(vectors VectorSource, timeout time.Duration, log *zap.Logger) *Matcher {
	return &Matcher{
		vectors: vectors,
		timeout: timeout,
		logger:  logger.WithFields(log),
	}
}

// Match scores applicantSkills against jobSkills.
func (m *Matcher) Match(ctx context.Context, jobSkills, applicantSkills []string) Result {
	required := dedupe(jobSkills, requirement.IsNoSkill)
	if len(required) == 0 {
		return Result{Score: NeutralScore, NoRequirement: true}
	}

	offered := dedupe(applicantSkills, nil)
	result := Result{Required: len(required)}
	if len(offered) == 0 {
		return result
	}

	vectors := m.prefetch(ctx, append(append([]string{}, required...), offered...))
	result.Semantic = vectors != nil

	used := make([]bool, len(offered))
	usedCount := 0
	sum := 0.0
	for _, jobSkill := range required {
		best, bestBand, bestCombined := -1, -1.0, 0.0
		for i, applicantSkill := range offered {
			if used[i] {
				continue
			}
			combined := pairScore(jobSkill, applicantSkill, vectors)
			if band := Band(combined); band > bestBand {
				best, bestBand, bestCombined = i, band, combined
			}
		}

		assignment := Assignment{JobSkill: jobSkill}
		if best >= 0 {
			used[best] = true
			usedCount++
			assignment.ApplicantSkill = offered[best]
			assignment.Combined = bestCombined
			assignment.Band = bestBand
			sum += bestBand
			if bestBand >= matchedBand {
				result.Matched++
			}
		}
		result.Assignments = append(result.Assignments, assignment)
	}

	result.Base = sum / (float64(len(required)) * similarity.Exact) * similarity.Exact
	result.Bonus = float64(min(max(len(offered)-usedCount, 0), maxSurplusBonus))
	result.Score = min(result.Base+result.Bonus, similarity.Exact)

	return result
}

// Band rescales a combined similarity so values under 55 vanish and 55..100 stretch to 0..100.
func Band(combined float64) float64 {
	if combined < bandFloor {
		return 0
	}
	return min((combined-bandFloor)/(similarity.Exact-bandFloor)*similarity.Exact, similarity.Exact)
}

func pairScore(jobSkill, applicantSkill string, vectors map[string][]float32) float64 {
	textSim := similarity.Ratio(jobSkill, applicantSkill)

	combined := textSim
	if textSim < overlapCeiling {
		combined = max(combined, similarity.Overlap(jobSkill, applicantSkill)*overlapWeight)
	}

	if vectors != nil {
		external := semantic.Similarity(vectors[similarity.Normalize(jobSkill)], vectors[similarity.Normalize(applicantSkill)])
		if external >= semanticThreshold {
			combined = max(combined, external*semanticWeight)
		}
	}

	if textSim >= exactThreshold {
		combined = similarity.Exact
	}

	return min(max(combined, 0), similarity.Exact)
}

// prefetch resolves every vector under the matcher timeout.
// It returns nil when no source is configured, nothing was found, or the deadline expired,
// so a candidate is never scored half-semantically.
func (m *Matcher) prefetch(ctx context.Context, texts []string) map[string][]float32 {
	if m == nil || m.vectors == nil {
		return nil
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	keys := make([]string, 0, len(texts))
	seen := make(map[string]struct{}, len(texts))
	for _, text := range texts {
		key := similarity.Normalize(text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	fetched := make([][]float32, len(keys))
	var g errgroup.Group
	g.SetLimit(prefetchConcurrency)
	for i, key := range keys {
		g.Go(func() error {
			fetched[i] = m.vectors.Vector(ctx, key)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		level := zap.WarnLevel
		if errors.Is(err, context.Canceled) {
			level = zap.DebugLevel
		}
		m.logger.Log(level, "semantic similarity unavailable, scoring skills on text only", zap.Error(err))
		return nil
	}

	vectors := make(map[string][]float32, len(keys))
	known := 0
	for i, key := range keys {
		vectors[key] = fetched[i]
		if len(fetched[i]) > 0 {
			known++
		}
	}
	if known == 0 {
		return nil
	}
	return vectors
}

func dedupe(values []string, drop func(string) bool) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		key := similarity.Normalize(value)
		if key == "" {
			continue
		}
		if drop != nil && drop(value) {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, value)
	}
	return out
}

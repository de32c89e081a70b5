package ranking

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/applicant-matcher/internal/education"
	"github.com/spigell/applicant-matcher/internal/logger"
	"github.com/spigell/applicant-matcher/internal/metrics"
	"github.com/spigell/applicant-matcher/internal/profile"
	"github.com/spigell/applicant-matcher/internal/semantic"
	"github.com/spigell/applicant-matcher/internal/skills"
	"github.com/spigell/applicant-matcher/internal/utils"
)

const maxReasoningLogLength = 240

// Options configures a Ranker.
type Options struct {
	Strategy Strategy
	// Concurrency bounds how many applicants are scored at once. Zero uses GOMAXPROCS.
	Concurrency  int
	TieThreshold float64
	// Embedder backs semantic skill similarity. Nil scores skills on text alone.
	Embedder        semantic.Embedder
	SemanticTimeout time.Duration
	RelatedFields   education.RelatedFields
}

// Ranker scores applicant pools against a job.
type Ranker struct {
	opts      Options
	education *education.Matcher
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewRanker(opts Options, log *zap.Logger, m *metrics.Metrics) *Ranker {
	if opts.Strategy == "" {
		opts.Strategy = StrategyEnsemble
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	return &Ranker{
		opts:      opts,
		education: education.NewMatcher(opts.RelatedFields),
		logger:    logger.WithFields(log),
		metrics:   m,
	}
}

// Strategy returns the configured strategy.
func (r *Ranker) Strategy() Strategy {
	return r.opts.Strategy
}

// Rank scores every applicant in parallel and returns them sorted by total score.
// Embedding lookups are shared across the batch.
func (r *Ranker) Rank(ctx context.Context, job profile.JobRequirement, applicants []profile.ApplicantProfile) (*Results, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := r.logger.With(zap.String(logger.FieldRunID, runID), zap.String(logger.FieldJobTitle, job.Title))

	scorer := r.batchScorer(log)
	candidates := make([]*Candidate, len(applicants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i, applicant := range applicants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			candidates[i] = r.score(gctx, log, scorer, job, applicant)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking applicants: %w", err)
	}

	results := &Results{
		RunID:    runID,
		Job:      job,
		Strategy: r.opts.Strategy,
		Items:    candidates,
	}
	results.Sort()

	elapsed := time.Since(start)
	r.metrics.ObserveRank(elapsed)
	log.Info("applicants ranked",
		zap.Int("applicants", results.Len()),
		zap.String("strategy", string(r.opts.Strategy)),
		zap.Duration("elapsed", elapsed),
	)

	return results, nil
}

// Score scores a single applicant.
func (r *Ranker) Score(ctx context.Context, job profile.JobRequirement, applicant profile.ApplicantProfile) *Candidate {
	log := r.logger.With(zap.String(logger.FieldJobTitle, job.Title))
	return r.score(ctx, log, r.batchScorer(log), job, applicant)
}

// batchScorer wires a fresh embedding memo so lookups are shared within one batch only.
func (r *Ranker) batchScorer(log *zap.Logger) *Scorer {
	var vectors skills.VectorSource
	if r.opts.Embedder != nil {
		memo := semantic.NewMemo(r.opts.Embedder, r.metrics)
		vectors = semantic.NewOracle(memo, log, r.metrics)
	}
	return NewScorer(r.education, skills.NewMatcher(vectors, r.opts.SemanticTimeout, log))
}

func (r *Ranker) score(ctx context.Context, log *zap.Logger, scorer *Scorer, job profile.JobRequirement, applicant profile.ApplicantProfile) *Candidate {
	dims := scorer.Dimensions(ctx, job, applicant)
	breakdown, path := r.opts.Strategy.Apply(dims, r.opts.TieThreshold)

	r.metrics.ObserveCandidate(breakdown.Method, breakdown.TotalScore)
	if path != "" {
		r.metrics.ObserveResolution(path)
	}

	log.Debug("applicant scored", append(logger.ScoringFields(job, applicant),
		zap.Float64("education_score", breakdown.EducationScore),
		zap.Float64("experience_score", breakdown.ExperienceScore),
		zap.Float64("skills_score", breakdown.SkillsScore),
		zap.Float64("eligibility_score", breakdown.EligibilityScore),
		zap.Float64("total_score", breakdown.TotalScore),
		zap.String("algorithm", breakdown.Algorithm),
		zap.String("method", breakdown.Method),
		zap.Bool("education_gated", dims.Education.Gated),
		zap.Bool("semantic_skills", dims.Skills.Semantic),
		zap.String("reasoning", utils.TruncateForLog(breakdown.Reasoning, maxReasoningLogLength)),
	)...)

	return &Candidate{
		Applicant:        applicant,
		Breakdown:        breakdown,
		Resolution:       path,
		SkillAssignments: dims.Skills.Assignments,
		SemanticSkills:   dims.Skills.Semantic,
	}
}

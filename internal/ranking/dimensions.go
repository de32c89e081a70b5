package ranking

import (
	"context"

	"github.com/spigell/applicant-matcher/internal/education"
	"github.com/spigell/applicant-matcher/internal/eligibility"
	"github.com/spigell/applicant-matcher/internal/experience"
	"github.com/spigell/applicant-matcher/internal/profile"
	"github.com/spigell/applicant-matcher/internal/skills"
)

// Dimensions holds the four dimension results for one (job, applicant) pair.
// Every algorithm is a pure function over it, so the scorers run once per candidate.
type Dimensions struct {
	Education   education.Result
	Experience  experience.Result
	Skills      skills.Result
	Eligibility eligibility.Result
}

// Scorer computes Dimensions.
type Scorer struct {
	education *education.Matcher
	skills    *skills.Matcher
}

// NewScorer returns a Scorer. Nil matchers fall back to the built-in related-field table and text-only skill matching.
func NewScorer(edu *education.Matcher, sk *skills.Matcher) *Scorer {
	if edu == nil {
		edu = education.NewMatcher(nil)
	}
	if sk == nil {
		sk = skills.NewMatcher(nil, 0, nil)
	}
	return &Scorer{education: edu, skills: sk}
}

// Dimensions scores applicant against job on every dimension.
func (s *Scorer) Dimensions(ctx context.Context, job profile.JobRequirement, applicant profile.ApplicantProfile) Dimensions {
	return Dimensions{
		Education:   s.education.Match(job, applicant),
		Experience:  experience.Score(job.YearsOfExperience, applicant.TotalYearsExperience),
		Skills:      s.skills.Match(ctx, job.Skills, applicant.Skills),
		Eligibility: eligibility.Match(job.Eligibilities, applicant.EligibilityTitles()),
	}
}

// scores returns the clamped dimension values in breakdown order.
func (d Dimensions) scores() (edu, exp, sk, elig float64) {
	return clamp(d.Education.Score), clamp(d.Experience.Score), clamp(d.Skills.Score), clamp(d.Eligibility.Score)
}

func (d Dimensions) breakdown(total float64, algorithm, reasoning string) ScoreBreakdown {
	edu, exp, sk, elig := d.scores()
	return ScoreBreakdown{
		EducationScore:            edu,
		ExperienceScore:           exp,
		SkillsScore:               sk,
		EligibilityScore:          elig,
		TotalScore:                clamp(total),
		Algorithm:                 algorithm,
		Method:                    algorithm,
		Reasoning:                 reasoning,
		MatchedSkillsCount:        d.Skills.Matched,
		MatchedEligibilitiesCount: d.Eligibility.Matched,
	}
}

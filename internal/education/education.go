// Package education scores how well an applicant's degree meets a job's degree requirement.
package education

import (
	"github.com/spigell/applicant-matcher/internal/profile"
	"github.com/spigell/applicant-matcher/internal/requirement"
	"github.com/spigell/applicant-matcher/internal/similarity"
)

const (
	// NeutralScore is returned when the job states no degree requirement.
	NeutralScore = 50.0

	snapThreshold    = 85.0
	relatedFloor     = 85.0
	hitThreshold     = 85.0
	weakFieldCeiling = 40.0
	maxWeakPenalty   = 10.0
	maxLevelGap      = 3
	higherLevelBonus = 4.0
	lowerLevelMalus  = 6.0
	fieldGroupFloor  = 70.0
	fieldGroupBonus  = 5.0
	scoreFloor       = 20.0
)

// Result is the education dimension of a score breakdown.
type Result struct {
	Score float64
	// Raw is the match score before level and field smoothing.
	Raw             float64
	FieldSimilarity float64
	Mode            requirement.Mode
	Required        int
	Hits            int
	// Gated is set when an AND requirement was not fully met and Score was forced to 0.
	Gated          bool
	NoRequirement  bool
	JobLevel       profile.Level
	ApplicantLevel profile.Level
}

// Matcher scores education against a related-field table.
type Matcher struct {
	related RelatedFields
}

// NewMatcher returns a Matcher over related. A nil table uses the built-in one.
func NewMatcher(related RelatedFields) *Matcher {
	if related == nil {
		related = DefaultRelatedFields()
	}
	return &Matcher{related: related}
}

// Match scores the applicant's highest attainment against the job's degree requirement.
func (m *Matcher) Match(job profile.JobRequirement, applicant profile.ApplicantProfile) Result {
	jobText := Clean(job.DegreeRequirement)
	if requirement.IsNoRequirement(jobText) {
		return Result{Score: NeutralScore, Raw: NeutralScore, NoRequirement: true}
	}

	jobExpr := requirement.Parse(jobText)
	result := Result{
		Mode:     jobExpr.Mode,
		JobLevel: profile.ResolveLevel(job.DegreeLevel, jobText),
	}

	applicantText := Clean(applicant.HighestEducationalAttainment)
	if applicantText == "" {
		return result
	}
	result.ApplicantLevel = profile.ResolveLevel(applicant.DegreeLevel, applicantText)

	jobOptions := options(jobExpr, jobText)
	applicantOptions := options(requirement.Parse(applicantText), applicantText)

	switch jobExpr.Mode {
	case requirement.Or:
		for _, jobOption := range jobOptions {
			result.Raw = max(result.Raw, m.bestOption(jobOption, applicantOptions))
		}
	case requirement.And:
		result.Required = len(jobOptions)
		for _, jobOption := range jobOptions {
			if m.bestOption(jobOption, applicantOptions) >= hitThreshold {
				result.Hits++
			}
		}
		result.Raw = float64(result.Hits) / float64(result.Required) * similarity.Exact
		result.Gated = result.Hits < result.Required
	default:
		for _, applicantOption := range applicantOptions {
			result.Raw = max(result.Raw, m.wholeScore(jobText, applicantOption))
		}
	}

	result.FieldSimilarity = fieldSimilarity(jobOptions, applicantOptions)
	result.Score = adjust(result.Raw, result.FieldSimilarity, result.JobLevel, result.ApplicantLevel, job, applicant)

	if result.Gated {
		result.Score = 0
	}

	return result
}

func options(expr requirement.Expression, text string) []string {
	if len(expr.Tokens) == 0 {
		return []string{text}
	}
	return expr.Tokens
}

func (m *Matcher) bestOption(jobOption string, applicantOptions []string) float64 {
	best := 0.0
	for _, applicantOption := range applicantOptions {
		best = max(best, m.optionScore(jobOption, applicantOption))
	}
	return best
}

// optionScore compares the core fields of two degree options.
func (m *Matcher) optionScore(jobOption, applicantOption string) float64 {
	jobField, applicantField := CoreField(jobOption), CoreField(applicantOption)
	return m.raise(similarity.Ratio(jobField, applicantField), jobField, applicantField)
}

// wholeScore compares the full job text with one applicant option.
func (m *Matcher) wholeScore(jobText, applicantOption string) float64 {
	return m.raise(similarity.Ratio(jobText, applicantOption), CoreField(jobText), CoreField(applicantOption))
}

func (m *Matcher) raise(score float64, jobField, applicantField string) float64 {
	if score >= snapThreshold {
		return similarity.Exact
	}
	if m.related.Related(jobField, applicantField) {
		return max(score, relatedFloor)
	}
	return score
}

func fieldSimilarity(jobOptions, applicantOptions []string) float64 {
	best := 0.0
	for _, jobOption := range jobOptions {
		jobField := CoreField(jobOption)
		for _, applicantOption := range applicantOptions {
			best = max(best, similarity.Ratio(jobField, CoreField(applicantOption)))
		}
	}
	return best
}

// adjust smooths the raw score by attainment level and explicit field group.
func adjust(raw, fieldSim float64, jobLevel, applicantLevel profile.Level, job profile.JobRequirement, applicant profile.ApplicantProfile) float64 {
	score := raw

	if jobLevel.Known() && applicantLevel.Known() {
		gap := int(applicantLevel) - int(jobLevel)
		switch {
		case gap == 0:
			score = 0.6*raw + 0.4*fieldSim
			if fieldSim < weakFieldCeiling {
				score -= min((weakFieldCeiling-fieldSim)*0.25, maxWeakPenalty)
			}
		case gap > 0:
			score += float64(min(gap, maxLevelGap)) * higherLevelBonus
		default:
			score -= float64(min(-gap, maxLevelGap)) * lowerLevelMalus
		}
	}

	jobGroup, jobHasGroup := profile.Tag(job.DegreeFieldGroup)
	applicantGroup, applicantHasGroup := profile.Tag(applicant.DegreeFieldGroup)
	if jobHasGroup && applicantHasGroup && similarity.Normalize(jobGroup) == similarity.Normalize(applicantGroup) {
		score = max(score, fieldGroupFloor) + fieldGroupBonus
	}

	if raw > 0 {
		score = max(score, scoreFloor)
	}

	return min(max(score, 0), similarity.Exact)
}

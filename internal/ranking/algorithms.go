package ranking

import (
	"fmt"
	"math"
	"strings"

	"github.com/spigell/applicant-matcher/internal/metrics"
)

const (
	compositeBeta     = 0.5
	compositeMaxRatio = 2.0

	tieEligibilityBudget = 40.0
	tieEligibilityFlat   = 20.0
	tieEducationBudget   = 30.0
	tieExperienceBudget  = 20.0
	tieSkillPerMatch     = 10.0
	tieSkillBudget       = 20.0
	tieSkillWeight       = 0.10

	blendWeightSum       = 0.6
	blendWeightComposite = 0.4
)

// WeightedSum is Algorithm 1: a fixed convex combination of the four dimensions.
func WeightedSum(d Dimensions) ScoreBreakdown {
	edu, exp, sk, elig := d.scores()
	total := 0.30*edu + 0.20*exp + 0.20*sk + 0.30*elig

	reasoning := fmt.Sprintf(
		"Education %.1f x 30%% + experience %.1f x 20%% + skills %.1f x 20%% + eligibility %.1f x 30%% = %.1f.",
		edu, exp, sk, elig, total,
	)
	return d.breakdown(total, AlgorithmWeightedSum, reasoning)
}

// Composite is Algorithm 2: skills discounted by the experience ratio, then weighted with education and eligibility.
func Composite(d Dimensions) ScoreBreakdown {
	edu, _, sk, elig := d.scores()
	ratio := min(max(d.Experience.Ratio, 0), compositeMaxRatio)
	composite := sk * math.Exp(compositeBeta*ratio) / math.Exp(compositeBeta*compositeMaxRatio)
	total := 0.30*composite + 0.35*edu + 0.35*elig

	reasoning := fmt.Sprintf(
		"Skills %.1f scaled by experience ratio %.2f to %.1f; composite x 30%% + education %.1f x 35%% + eligibility %.1f x 35%% = %.1f.",
		sk, d.Experience.Ratio, composite, edu, elig, total,
	)
	return d.breakdown(total, AlgorithmComposite, reasoning)
}

// TieBreaker is Algorithm 3: an additive budget led by eligibility and education.
// The skill share is min(matched x 10, 20) scaled by 0.10, so it never exceeds 2 points.
func TieBreaker(d Dimensions) ScoreBreakdown {
	edu, exp, _, elig := d.scores()

	var trail []string

	eligPoints := tieEligibilityFlat
	if d.Eligibility.NoRequirement {
		trail = append(trail, fmt.Sprintf("Eligibility: no requirement, %.1f flat points.", eligPoints))
	} else {
		eligPoints = elig / 100 * tieEligibilityBudget
		trail = append(trail, fmt.Sprintf("Eligibility: %.1f of %.0f points (%d matched).", eligPoints, tieEligibilityBudget, d.Eligibility.Matched))
	}

	eduPoints := edu / 100 * tieEducationBudget
	trail = append(trail, fmt.Sprintf("Education: %.1f of %.0f points.", eduPoints, tieEducationBudget))

	expPoints := exp / 100 * tieExperienceBudget
	trail = append(trail, fmt.Sprintf("Experience: %.1f of %.0f points.", expPoints, tieExperienceBudget))

	skillPoints := min(float64(d.Skills.Matched)*tieSkillPerMatch, tieSkillBudget) * tieSkillWeight
	trail = append(trail, fmt.Sprintf("Skills: %.1f points for %d matched skills.", skillPoints, d.Skills.Matched))

	total := eligPoints + eduPoints + expPoints + skillPoints
	return d.breakdown(total, AlgorithmTieBreaker, strings.Join(trail, " "))
}

// Ensemble runs Algorithms 1 and 2. When their totals are within tieThreshold it returns Algorithm 3
// with its tag and total untouched; otherwise it blends both 60/40.
// A non-positive tieThreshold uses DefaultTieThreshold. The second value is the resolution path for metrics.
func Ensemble(d Dimensions, tieThreshold float64) (ScoreBreakdown, string) {
	if tieThreshold <= 0 {
		tieThreshold = DefaultTieThreshold
	}

	first := WeightedSum(d)
	second := Composite(d)

	if math.Abs(first.TotalScore-second.TotalScore) <= tieThreshold {
		result := TieBreaker(d)
		result.Method = MethodEnsembleTieBreaker
		result.Reasoning = fmt.Sprintf(
			"%s %.1f and %s %.1f are within %.1f points; resolved by tie-breaker. %s",
			AlgorithmWeightedSum, first.TotalScore, AlgorithmComposite, second.TotalScore, tieThreshold, result.Reasoning,
		)
		return result, metrics.PathTieBreaker
	}

	result := ScoreBreakdown{
		EducationScore:            blend(first.EducationScore, second.EducationScore),
		ExperienceScore:           blend(first.ExperienceScore, second.ExperienceScore),
		SkillsScore:               blend(first.SkillsScore, second.SkillsScore),
		EligibilityScore:          blend(first.EligibilityScore, second.EligibilityScore),
		TotalScore:                blend(first.TotalScore, second.TotalScore),
		Algorithm:                 AlgorithmMultiFactor,
		Method:                    AlgorithmMultiFactor,
		MatchedSkillsCount:        d.Skills.Matched,
		MatchedEligibilitiesCount: d.Eligibility.Matched,
	}
	result.Reasoning = assessment(result, d)

	return result, metrics.PathBlend
}

func blend(a, b float64) float64 {
	return clamp(blendWeightSum*a + blendWeightComposite*b)
}

type dimensionPhrases struct {
	score               float64
	strong, gap, severe string
	// neutral replaces the bucket phrase when the job has no requirement for the dimension.
	neutral string
}

// assessment builds the prose of a blended result from score buckets.
func assessment(b ScoreBreakdown, d Dimensions) string {
	dims := []dimensionPhrases{
		{b.EducationScore, "strong educational match", "education partially matches the requirement", "significant education gap", ""},
		{b.ExperienceScore, "extensive relevant experience", "limited experience for the role", "little or no relevant experience", ""},
		{b.SkillsScore, "strong skills alignment", "some required skills are missing", "most required skills are missing", ""},
		{b.EligibilityScore, "meets all eligibility requirements", "eligibility requirements not fully met", "required eligibility not held", ""},
	}
	if d.Education.NoRequirement {
		dims[0].neutral = "no degree required"
	}
	if d.Skills.NoRequirement {
		dims[2].neutral = "no specific skills required"
	}
	if d.Eligibility.NoRequirement {
		dims[3].neutral = "no eligibility required"
	}

	var strengths, gaps []string
	for _, dim := range dims {
		if dim.neutral != "" {
			strengths = append(strengths, dim.neutral)
			continue
		}
		switch {
		case dim.score >= 80:
			strengths = append(strengths, dim.strong)
		case dim.score < 40:
			gaps = append(gaps, dim.severe)
		case dim.score < 60:
			gaps = append(gaps, dim.gap)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall %.1f.", b.TotalScore)
	if len(strengths) > 0 {
		fmt.Fprintf(&sb, " Strengths: %s.", strings.Join(strengths, "; "))
	}
	if len(gaps) > 0 {
		fmt.Fprintf(&sb, " Gaps: %s.", strings.Join(gaps, "; "))
	}
	if len(strengths) == 0 && len(gaps) == 0 {
		sb.WriteString(" Moderate fit on every dimension.")
	}
	return sb.String()
}

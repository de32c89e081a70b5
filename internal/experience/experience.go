// Package experience scores years of work experience against the job's requirement.
package experience

const (
	defaultRequiredYears = 1.0
	maxExtraRatio        = 2.0

	yearsWeight     = 0.7
	relevanceWeight = 0.3
)

// Result is the experience dimension of a score breakdown.
type Result struct {
	Score          float64
	YearsScore     float64
	Relevance      float64
	RequiredYears  float64
	ApplicantYears float64
	// Ratio is applicant years over required years. Algorithm 2 reads it.
	Ratio float64
}

// Score rates applicantYears against requiredYears.
// A zero or negative requirement means one year; negative applicant years count as none.
func Score(requiredYears, applicantYears float64) Result {
	if requiredYears <= 0 {
		requiredYears = defaultRequiredYears
	}
	applicantYears = max(applicantYears, 0)

	result := Result{
		RequiredYears:  requiredYears,
		ApplicantYears: applicantYears,
		Ratio:          applicantYears / requiredYears,
	}
	result.YearsScore = YearsScore(requiredYears, applicantYears)

	// Work history titles are not compared with the job title; any experience counts as relevant.
	if applicantYears > 0 {
		result.Relevance = 100
	}

	result.Score = yearsWeight*result.YearsScore + relevanceWeight*result.Relevance
	return result
}

// YearsScore is the continuous years curve: 40..80 below the requirement, 80..100 up to three times it.
func YearsScore(requiredYears, applicantYears float64) float64 {
	if requiredYears <= 0 {
		requiredYears = defaultRequiredYears
	}
	if applicantYears <= 0 {
		return 0
	}

	ratio := applicantYears / requiredYears
	if ratio < 1 {
		return clamp(40+40*ratio, 0, 80)
	}

	extra := min(ratio-1, maxExtraRatio)
	return clamp(80+(extra/maxExtraRatio)*20, 80, 100)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

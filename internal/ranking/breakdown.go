// Package ranking composes the dimension scorers into score breakdowns and ranks applicant pools.
package ranking

import (
	"fmt"
	"strings"
)

// Algorithm tags carried by a ScoreBreakdown.
const (
	AlgorithmWeightedSum = "Weighted Sum Model"
	AlgorithmComposite   = "Skill-Experience Composite"
	AlgorithmTieBreaker  = "Eligibility-Education Tie-breaker"
	AlgorithmMultiFactor = "Multi-Factor Assessment"

	// MethodEnsembleTieBreaker marks an ensemble result that passed Algorithm 3 through.
	MethodEnsembleTieBreaker = "Ensemble (Tie-breaker)"
)

// DefaultTieThreshold is the largest total difference between Algorithms 1 and 2 that counts as a tie.
const DefaultTieThreshold = 5.0

// ScoreBreakdown is the per-candidate scoring output.
// Algorithm names the formula that produced TotalScore; Method names how the result was selected.
type ScoreBreakdown struct {
	EducationScore            float64 `json:"education_score"`
	ExperienceScore           float64 `json:"experience_score"`
	SkillsScore               float64 `json:"skills_score"`
	EligibilityScore          float64 `json:"eligibility_score"`
	TotalScore                float64 `json:"total_score"`
	Algorithm                 string  `json:"algorithm"`
	Method                    string  `json:"method"`
	Reasoning                 string  `json:"reasoning"`
	MatchedSkillsCount        int     `json:"matched_skills_count"`
	MatchedEligibilitiesCount int     `json:"matched_eligibilities_count"`
}

// Strategy selects how a breakdown is produced from the shared dimensions.
type Strategy string

const (
	StrategyWeightedSum Strategy = "weighted-sum"
	StrategyComposite   Strategy = "composite"
	StrategyTieBreaker  Strategy = "tie-breaker"
	StrategyEnsemble    Strategy = "ensemble"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{StrategyEnsemble, StrategyWeightedSum, StrategyComposite, StrategyTieBreaker}

// ParseStrategy resolves a strategy name. Empty selects the ensemble.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return StrategyEnsemble, nil
	}
	for _, s := range Strategies {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown scoring strategy %q", name)
}

// Apply runs the strategy over d. The second value is the ensemble resolution path, empty for single algorithms.
func (s Strategy) Apply(d Dimensions, tieThreshold float64) (ScoreBreakdown, string) {
	switch s {
	case StrategyWeightedSum:
		return WeightedSum(d), ""
	case StrategyComposite:
		return Composite(d), ""
	case StrategyTieBreaker:
		return TieBreaker(d), ""
	default:
		return Ensemble(d, tieThreshold)
	}
}

func clamp(v float64) float64 {
	return min(max(v, 0), 100)
}

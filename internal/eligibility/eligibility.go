// Package eligibility evaluates civil service eligibility and license requirements.
package eligibility

import (
	"strings"
	"unicode"

	"github.com/spigell/applicant-matcher/internal/requirement"
	"github.com/spigell/applicant-matcher/internal/similarity"
)

const (
	// NeutralScore is returned when the job lists no real eligibility requirement.
	NeutralScore = 50.0
	// Satisfied is returned when every requirement line is met.
	Satisfied = 100.0

	tokenMatchThreshold = 92.0
)

// LineResult is the outcome of one requirement line.
type LineResult struct {
	Line      string
	Mode      requirement.Mode
	Matched   int
	Satisfied bool
}

// Result is the eligibility dimension of a score breakdown.
// Matched counts token hits across all lines and may be nonzero when Score is 0.
type Result struct {
	Score         float64
	Matched       int
	Satisfied     bool
	NoRequirement bool
	Lines         []LineResult
}

// Match evaluates every requirement line against the applicant's eligibility titles.
// A single no-requirement line neutralises the whole list. Lines without any
// letter or digit are ignored, and a list made only of such lines is neutral.
func Match(lines []string, titles []string) Result {
	exprs := make([]requirement.Expression, 0, len(lines))
	for _, line := range lines {
		if requirement.IsNoRequirement(line) {
			return Result{Score: NeutralScore, NoRequirement: true}
		}
		expr := requirement.Parse(line)
		expr.Tokens = meaningful(expr.Tokens)
		if len(expr.Tokens) == 0 {
			continue
		}
		exprs = append(exprs, expr)
	}
	if len(exprs) == 0 {
		return Result{Score: NeutralScore, NoRequirement: true}
	}

	result := Result{Satisfied: true, Lines: make([]LineResult, 0, len(exprs))}
	for _, expr := range exprs {
		lineResult := evaluate(expr, titles)
		result.Matched += lineResult.Matched
		result.Satisfied = result.Satisfied && lineResult.Satisfied
		result.Lines = append(result.Lines, lineResult)
	}

	if result.Satisfied {
		result.Score = Satisfied
	}

	return result
}

func evaluate(expr requirement.Expression, titles []string) LineResult {
	result := LineResult{Line: expr.Raw, Mode: expr.Mode}

	hits := 0
	for _, token := range expr.Tokens {
		if hasTokenMatch(token, titles) {
			hits++
		}
	}
	result.Matched = hits

	switch expr.Mode {
	case requirement.And:
		result.Satisfied = len(expr.Tokens) > 0 && hits == len(expr.Tokens)
	case requirement.Or:
		result.Satisfied = hits > 0
	default:
		// A comma list without connectors is still one requirement.
		result.Matched = min(hits, 1)
		result.Satisfied = hits > 0
	}

	return result
}

// meaningful drops punctuation-only tokens such as ";" or "-".
func meaningful(tokens []string) []string {
	kept := tokens[:0:0]
	for _, token := range tokens {
		if strings.IndexFunc(token, isWordRune) >= 0 {
			kept = append(kept, token)
		}
	}
	return kept
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func hasTokenMatch(token string, titles []string) bool {
	for _, title := range titles {
		if strings.EqualFold(strings.TrimSpace(title), strings.TrimSpace(token)) {
			return true
		}
		if similarity.Ratio(title, token) >= tokenMatchThreshold {
			return true
		}
	}
	return false
}

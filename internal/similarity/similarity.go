// Package similarity implements the fuzzy string oracle shared by every matcher.
package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	// Exact is returned for two equal strings.
	Exact = 100.0
	// None is returned when either side is empty.
	None = 0.0
)

// stopwords are dropped from token overlap so that filler words do not count as shared vocabulary.
var stopwords = map[string]struct{}{
	"and": {}, "the": {}, "for": {}, "with": {}, "from": {}, "into": {},
	"are": {}, "not": {}, "but": {}, "all": {}, "any": {}, "via": {},
	"use": {}, "using": {}, "skills": {}, "skill": {}, "knowledge": {},
}

// Normalize lower-cases and trims s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Ratio returns the edit-distance similarity of a and b in [0, 100].
// The comparison is case-insensitive and ignores surrounding whitespace.
func Ratio(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)

	if a == b {
		return Exact
	}

	if a == "" || b == "" {
		return None
	}

	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	distance := levenshtein.ComputeDistance(a, b)

	score := Exact * float64(maxLen-distance) / float64(maxLen)

	return min(max(score, None), Exact)
}

// Tokens splits s into lower-case word tokens longer than two runes with punctuation
// stripped and stopwords removed. Duplicates are kept once, in first-seen order.
func Tokens(s string) []string {
	fields := strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if utf8.RuneCountInString(field) <= 2 {
			continue
		}
		if _, ok := stopwords[field]; ok {
			continue
		}
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		tokens = append(tokens, field)
	}

	return tokens
}

// Overlap returns the share of reference tokens that also appear in candidate, in [0, 1].
// A reference without usable tokens overlaps nothing.
func Overlap(reference, candidate string) float64 {
	refTokens := Tokens(reference)
	if len(refTokens) == 0 {
		return 0
	}

	candidateSet := make(map[string]struct{})
	for _, token := range Tokens(candidate) {
		candidateSet[token] = struct{}{}
	}

	shared := 0
	for _, token := range refTokens {
		if _, ok := candidateSet[token]; ok {
			shared++
		}
	}

	return float64(shared) / float64(len(refTokens))
}

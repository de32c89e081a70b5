// Package requirement parses free-text requirement lines into boolean groups.
package requirement

import (
	"regexp"
	"strings"
)

// Mode is the boolean shape of a requirement line.
type Mode int

const (
	Single Mode = iota
	And
	Or
)

func (m Mode) String() string {
	switch m {
	case And:
		return "AND"
	case Or:
		return "OR"
	default:
		return "SINGLE"
	}
}

var (
	andWord   = regexp.MustCompile(`(?i)\band\b`)
	orWord    = regexp.MustCompile(`(?i)\bor\b`)
	connector = regexp.MustCompile(`(?i) (?:and|or) `)
)

// Expression is a parsed requirement line.
type Expression struct {
	Raw    string
	Mode   Mode
	Tokens []string
}

// Parse classifies and tokenizes line.
func Parse(line string) Expression {
	return Expression{
		Raw:    line,
		Mode:   Classify(line),
		Tokens: Tokenize(line),
	}
}

// Classify reports AND when the word "and" appears, otherwise OR when "or" appears, otherwise SINGLE.
// A line mixing both connectors is treated as AND.
func Classify(line string) Mode {
	switch {
	case andWord.MatchString(line):
		return And
	case orWord.MatchString(line):
		return Or
	default:
		return Single
	}
}

// Tokenize splits line on commas and on the " and " / " or " connectors, dropping empty parts.
func Tokenize(line string) []string {
	replaced := connector.ReplaceAllString(line, ",")

	parts := strings.Split(replaced, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tokens = append(tokens, part)
	}

	return tokens
}

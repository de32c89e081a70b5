package requirement

import "strings"

// noRequirementPhrases mark a degree or eligibility requirement as absent.
// Matching is exact after trimming and lower-casing.
var noRequirementPhrases = map[string]struct{}{
	"":                                 {},
	"none":                             {},
	"n/a":                              {},
	"na":                               {},
	"-":                                {},
	"not applicable":                   {},
	"not required":                     {},
	"none required":                    {},
	"no requirement":                   {},
	"no requirements":                  {},
	"no degree required":               {},
	"no education required":            {},
	"no eligibility required":          {},
	"none (not required)":              {},
	"none (eligibility not required)":  {},
	"none (education not required)":    {},
	"none (no eligibility required)":   {},
	"eligibility not required":         {},
	"education not required":           {},
	"no specific education required":   {},
	"no specific eligibility required": {},
}

// noSkillPhrases mark a job skill entry as a placeholder rather than a real skill.
var noSkillPhrases = map[string]struct{}{
	"none":                   {},
	"n/a":                    {},
	"na":                     {},
	"-":                      {},
	"not applicable":         {},
	"not required":           {},
	"none required":          {},
	"no skill required":      {},
	"no skills required":     {},
	"no specific skills":     {},
	"no specific skill":      {},
	"none (not required)":    {},
	"no competency required": {},
}

// IsNoRequirement reports whether text is one of the recognised "no requirement" phrases.
// Empty text counts as no requirement.
func IsNoRequirement(text string) bool {
	_, ok := noRequirementPhrases[normalize(text)]
	return ok
}

// IsNoSkill reports whether a job skill entry is a "no skill required" placeholder.
func IsNoSkill(text string) bool {
	_, ok := noSkillPhrases[normalize(text)]
	return ok
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

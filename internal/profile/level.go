package profile

import (
	"regexp"
	"strings"
)

// Level is an educational attainment level ordered from lowest to highest.
type Level int

const (
	LevelUnknown Level = iota
	LevelElementary
	LevelSecondary
	LevelVocational
	LevelBachelor
	LevelGraduateStudies // postgraduate units or diplomas short of a master's degree
	LevelMaster
	LevelDoctoral
)

var levelNames = map[Level]string{
	LevelUnknown:         "unknown",
	LevelElementary:      "elementary",
	LevelSecondary:       "secondary",
	LevelVocational:      "vocational",
	LevelBachelor:        "bachelor",
	LevelGraduateStudies: "graduate-studies",
	LevelMaster:          "master",
	LevelDoctoral:        "doctoral",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return levelNames[LevelUnknown]
}

// Known reports whether the level was resolved.
func (l Level) Known() bool {
	return l != LevelUnknown
}

// levelKeywords are checked in order; the first matching level wins.
var levelKeywords = []struct {
	level   Level
	pattern *regexp.Regexp
}{
	{LevelElementary, regexp.MustCompile(`\b(elementary|primary)\b`)},
	{LevelSecondary, regexp.MustCompile(`\b(secondary|high school|highschool)\b`)},
	{LevelVocational, regexp.MustCompile(`\b(vocational|tvet|tesda)\b`)},
	{LevelBachelor, regexp.MustCompile(`\b(bachelor|bachelors|baccalaureate|college)\b|\bb\.s\.|\bbs\b`)},
	{LevelMaster, regexp.MustCompile(`\b(master|masters|masteral)\b`)},
	{LevelDoctoral, regexp.MustCompile(`\b(doctor|doctoral|doctorate|phd)\b|\bph\.d`)},
	{LevelGraduateStudies, regexp.MustCompile(`\b(graduate studies|postgraduate|post-graduate)\b`)},
}

// fieldSeparator splits a degree title from its field, as in "Bachelor of Elementary Education".
var fieldSeparator = regexp.MustCompile(`\s(in|of)\s`)

// InferLevel guesses the level of free-text degree or attainment text by keyword.
// The degree title before the first "of"/"in" is checked first so a field such as
// "Secondary Education" does not decide the level.
func InferLevel(text string) Level {
	lower := strings.ToLower(text)
	if loc := fieldSeparator.FindStringIndex(lower); loc != nil {
		if level := matchLevel(lower[:loc[0]]); level.Known() {
			return level
		}
	}
	return matchLevel(lower)
}

func matchLevel(text string) Level {
	for _, kw := range levelKeywords {
		if kw.pattern.MatchString(text) {
			return kw.level
		}
	}
	return LevelUnknown
}

// ParseLevel maps a canonical level tag to a Level. Unrecognised tags fall back to keyword inference.
func ParseLevel(tag string) Level {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	for level, name := range levelNames {
		if level != LevelUnknown && name == normalized {
			return level
		}
	}
	return InferLevel(normalized)
}

// ResolveLevel prefers the explicit tag and falls back to inference on text.
func ResolveLevel(tag *string, text string) Level {
	if value, ok := Tag(tag); ok {
		if level := ParseLevel(value); level.Known() {
			return level
		}
	}
	return InferLevel(text)
}

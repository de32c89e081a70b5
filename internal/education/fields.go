package education

import (
	_ "embed"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed related_fields.yaml
var relatedFieldsYAML []byte

// RelatedFields maps a degree field to the fields accepted as related to it.
type RelatedFields map[string][]string

// defaultRelated is parsed once from the embedded table and never modified.
var defaultRelated = mustParseRelatedFields(relatedFieldsYAML)

// DefaultRelatedFields returns the built-in related-field table.
func DefaultRelatedFields() RelatedFields {
	return defaultRelated
}

// ParseRelatedFields decodes a YAML related-field table, lower-casing keys and values.
func ParseRelatedFields(data []byte) (RelatedFields, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding related fields: %w", err)
	}

	table := make(RelatedFields, len(raw))
	for key, values := range raw {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		for _, value := range values {
			if value = strings.ToLower(strings.TrimSpace(value)); value != "" {
				table[key] = append(table[key], value)
			}
		}
	}

	return table, nil
}

func mustParseRelatedFields(data []byte) RelatedFields {
	table, err := ParseRelatedFields(data)
	if err != nil {
		panic(err)
	}
	return table
}

// Related reports whether applicantField is listed as related to jobField.
// Both sides are matched by substring, so "bs accountancy" hits the "accountancy" key.
func (r RelatedFields) Related(jobField, applicantField string) bool {
	jobField = strings.ToLower(jobField)
	applicantField = strings.ToLower(applicantField)
	if jobField == "" || applicantField == "" {
		return false
	}

	for key, values := range r {
		if !strings.Contains(jobField, key) {
			continue
		}
		for _, value := range values {
			if strings.Contains(applicantField, value) {
				return true
			}
		}
	}

	return false
}

// contaminationMarkers are labels from concatenated source records that sometimes trail a degree.
var contaminationMarkers = []string{
	"eligibilities:",
	"eligibility:",
	"skills:",
	"experience:",
	"training:",
	"trainings:",
	"competencies:",
}

// Clean cuts text at the first leaked section label and trims the remainder.
func Clean(text string) string {
	lower := strings.ToLower(text)
	cut := len(text)
	for _, marker := range contaminationMarkers {
		if idx := strings.Index(lower, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	if cut > len(text) {
		cut = len(text)
	}

	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text[:cut]), ",;|-"))
}

// CoreField returns the specialization after the last " in " or " of ", lower-cased.
// Text without either connector is returned whole.
func CoreField(degree string) string {
	lower := strings.ToLower(strings.TrimSpace(degree))
	idx := max(strings.LastIndex(lower, " in "), strings.LastIndex(lower, " of "))
	if idx < 0 {
		return lower
	}
	return strings.TrimSpace(lower[idx+len(" in "):])
}

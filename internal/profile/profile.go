// Package profile holds the job and applicant snapshots consumed by the scoring engine.
package profile

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// JobRequirement is a posted position's requirements.
// DegreeLevel and DegreeFieldGroup are canonical tags supplied by an upstream normalizer and may be nil.
type JobRequirement struct {
	Title             string   `json:"title" mapstructure:"title" validate:"required"`
	Description       string   `json:"description,omitempty" mapstructure:"description"`
	DegreeRequirement string   `json:"degree_requirement,omitempty" mapstructure:"degree_requirement"`
	Eligibilities     []string `json:"eligibilities,omitempty" mapstructure:"eligibilities"`
	Skills            []string `json:"skills,omitempty" mapstructure:"skills"`
	YearsOfExperience float64  `json:"years_of_experience,omitempty" mapstructure:"years_of_experience"`
	DegreeLevel       *string  `json:"degree_level,omitempty" mapstructure:"degree_level"`
	DegreeFieldGroup  *string  `json:"degree_field_group,omitempty" mapstructure:"degree_field_group"`
}

// Eligibility is a civil service eligibility, license or certification held by an applicant.
type Eligibility struct {
	Title string `json:"title" mapstructure:"title"`
}

// ApplicantProfile is an applicant's qualifications.
type ApplicantProfile struct {
	ID                           string        `json:"id" mapstructure:"id" validate:"required"`
	Name                         string        `json:"name,omitempty" mapstructure:"name"`
	HighestEducationalAttainment string        `json:"highest_educational_attainment,omitempty" mapstructure:"highest_educational_attainment"`
	Eligibilities                []Eligibility `json:"eligibilities,omitempty" mapstructure:"eligibilities"`
	Skills                       []string      `json:"skills,omitempty" mapstructure:"skills"`
	TotalYearsExperience         float64       `json:"total_years_experience,omitempty" mapstructure:"total_years_experience"`
	WorkExperienceTitles         []string      `json:"work_experience_titles,omitempty" mapstructure:"work_experience_titles"`
	DegreeLevel                  *string       `json:"degree_level,omitempty" mapstructure:"degree_level"`
	DegreeFieldGroup             *string       `json:"degree_field_group,omitempty" mapstructure:"degree_field_group"`
}

// EligibilityTitles returns the non-empty eligibility titles in input order.
func (a ApplicantProfile) EligibilityTitles() []string {
	titles := make([]string, 0, len(a.Eligibilities))
	for _, e := range a.Eligibilities {
		if title := strings.TrimSpace(e.Title); title != "" {
			titles = append(titles, title)
		}
	}
	return titles
}

// DisplayName returns the applicant name, falling back to the ID.
func (a ApplicantProfile) DisplayName() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return a.ID
}

// Validate checks the structural rules of the job requirement.
// Numeric values are not range-checked: the scorers clamp them.
func (j JobRequirement) Validate() error {
	if err := validate.Struct(j); err != nil {
		return fmt.Errorf("invalid job requirement: %w", err)
	}
	return nil
}

// Validate checks the structural rules of the applicant profile.
func (a ApplicantProfile) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("invalid applicant profile: %w", err)
	}
	return nil
}

// Tag returns the trimmed value of an optional canonical tag and whether it is set.
func Tag(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	trimmed := strings.TrimSpace(*v)
	return trimmed, trimmed != ""
}

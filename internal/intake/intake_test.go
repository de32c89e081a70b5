package intake

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const batchYAML = `
job:
  title: Administrative Officer II
  degree_requirement: Bachelor's degree in Public Administration or Business Administration
  eligibilities:
    - Career Service Professional
  skills: [Records Management, Report Writing]
  years_of_experience: 1
  degree_level: bachelor
applicants:
  - id: a-1
    name: Ana Cruz
    highest_educational_attainment: Bachelor of Science in Business Administration
    eligibilities:
      - title: Career Service Professional
    skills: [Report Writing]
    total_years_experience: "2.5"
    work_experience_titles: [Clerk]
  - id: a-2
    highest_educational_attainment: High School Graduate
`

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(batchYAML), 0o644))

	batch, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Administrative Officer II", batch.Job.Title)
	assert.Equal(t, []string{"Career Service Professional"}, batch.Job.Eligibilities)
	assert.Equal(t, []string{"Records Management", "Report Writing"}, batch.Job.Skills)
	assert.InDelta(t, 1, batch.Job.YearsOfExperience, 0)
	require.NotNil(t, batch.Job.DegreeLevel)
	assert.Equal(t, "bachelor", *batch.Job.DegreeLevel)
	assert.Nil(t, batch.Job.DegreeFieldGroup)

	require.Len(t, batch.Applicants, 2)
	ana, ok := batch.Applicant("a-1")
	require.True(t, ok)
	assert.Equal(t, "Ana Cruz", ana.Name)
	assert.Equal(t, []string{"Career Service Professional"}, ana.EligibilityTitles())
	assert.InDelta(t, 2.5, ana.TotalYearsExperience, 0)
	assert.Equal(t, []string{"Clerk"}, ana.WorkExperienceTitles)

	_, ok = batch.Applicant("missing")
	assert.False(t, ok)
}

func TestReadJSON(t *testing.T) {
	t.Parallel()

	batch, err := Read(strings.NewReader(`{
		"job": {"title": "Nurse I", "years_of_experience": 0},
		"applicants": [{"id": "n-1", "skills": ["Triage"], "total_years_experience": 3}]
	}`), "json")
	require.NoError(t, err)
	assert.Equal(t, "Nurse I", batch.Job.Title)
	assert.Equal(t, []string{"Triage"}, batch.Applicants[0].Skills)
	assert.InDelta(t, 3, batch.Applicants[0].TotalYearsExperience, 0)
}

func TestValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "no applicants",
			input:   "job: {title: Clerk}\napplicants: []\n",
			wantErr: ErrNoApplicants.Error(),
		},
		{
			name:    "missing job title",
			input:   "job: {skills: [typing]}\napplicants: [{id: a}]\n",
			wantErr: "invalid job requirement",
		},
		{
			name:    "missing applicant id",
			input:   "job: {title: Clerk}\napplicants: [{id: a}, {name: Ben}]\n",
			wantErr: "invalid batch",
		},
		{
			name:    "duplicate applicant id",
			input:   "job: {title: Clerk}\napplicants: [{id: a}, {id: a}]\n",
			wantErr: "invalid batch",
		},
		{
			name:    "negative years are accepted",
			input:   "job: {title: Clerk, years_of_experience: -2}\napplicants: [{id: a, total_years_experience: -1}]\n",
			wantErr: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Read(strings.NewReader(tc.input), "yaml")
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNoApplicantsIsSentinel(t *testing.T) {
	t.Parallel()

	_, err := Read(strings.NewReader("job: {title: Clerk}\n"), "yaml")
	assert.ErrorIs(t, err, ErrNoApplicants)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "reading batch file")
}

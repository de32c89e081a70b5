package requirement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		mode   Mode
		tokens []string
	}{
		{
			name:   "single",
			line:   "Career Service Professional",
			mode:   Single,
			tokens: []string{"Career Service Professional"},
		},
		{
			name:   "and group",
			line:   "RA 1080 (Nurse) and Career Service Professional",
			mode:   And,
			tokens: []string{"RA 1080 (Nurse)", "Career Service Professional"},
		},
		{
			name:   "or group with commas",
			line:   "Engineering, Architecture or Computer Science",
			mode:   Or,
			tokens: []string{"Engineering", "Architecture", "Computer Science"},
		},
		{
			name:   "mixed connectors resolve to and",
			line:   "A or B and C",
			mode:   And,
			tokens: []string{"A", "B", "C"},
		},
		{
			name:   "connector inside a word is ignored",
			line:   "Bachelor of Science in Accountancy",
			mode:   Single,
			tokens: []string{"Bachelor of Science in Accountancy"},
		},
		{
			name:   "upper case connectors",
			line:   "Nursing OR Midwifery",
			mode:   Or,
			tokens: []string{"Nursing", "Midwifery"},
		},
		{
			name:   "empty parts dropped",
			line:   " , Agriculture ,, ",
			mode:   Single,
			tokens: []string{"Agriculture"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			expr := Parse(tt.line)
			assert.Equal(t, tt.mode, expr.Mode)
			assert.Equal(t, tt.tokens, expr.Tokens)
			assert.Equal(t, tt.line, expr.Raw)
		})
	}
}

func TestModeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SINGLE", Single.String())
	assert.Equal(t, "AND", And.String())
	assert.Equal(t, "OR", Or.String())
}

func TestIsNoRequirement(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "  ", "None", "NOT REQUIRED", "None (eligibility not required)", "n/a"} {
		assert.True(t, IsNoRequirement(text), "expected %q to be a no-requirement phrase", text)
	}

	for _, text := range []string{"Career Service Professional", "none of the above", "Bachelor's degree"} {
		assert.False(t, IsNoRequirement(text), "expected %q to be a real requirement", text)
	}
}

func TestIsNoSkill(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNoSkill("No skills required"))
	assert.True(t, IsNoSkill(" none "))
	assert.False(t, IsNoSkill("Records management"))
}

package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "Civil Service Professional", b: "Civil Service Professional", want: 100},
		{name: "case and whitespace insensitive", a: "  Nursing ", b: "nursing", want: 100},
		{name: "empty right", a: "Nursing", b: "", want: 0},
		{name: "empty left", a: "", b: "Nursing", want: 0},
		{name: "single substitution", a: "abcd", b: "abce", want: 75},
		{name: "completely different", a: "abc", b: "xyz", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 0.0001)
		})
	}
}

func TestRatioIsSymmetricAndBounded(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"Bachelor of Science in Accountancy", "Bachelor of Science in Business Administration"},
		{"Career Service Professional", "Career Service Sub-Professional"},
		{"x", "a much longer string than x"},
		{"Ñandú", "nandu"},
	}

	for _, p := range pairs {
		forward := Ratio(p[0], p[1])
		backward := Ratio(p[1], p[0])
		assert.Equal(t, forward, backward, "ratio must be symmetric for %q / %q", p[0], p[1])
		assert.GreaterOrEqual(t, forward, 0.0)
		assert.LessOrEqual(t, forward, 100.0)
	}
}

func TestTokens(t *testing.T) {
	t.Parallel()

	got := Tokens("Data-Analysis, SQL and MS Excel; data analysis")
	assert.Equal(t, []string{"data", "analysis", "sql", "excel"}, got)

	assert.Empty(t, Tokens("a an of"))
}

func TestOverlap(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, Overlap("records management", "document management"), 0.0001)
	assert.InDelta(t, 1.0, Overlap("Microsoft Excel", "advanced excel with microsoft tools"), 0.0001)
	assert.Zero(t, Overlap("", "anything"))
	assert.Zero(t, Overlap("payroll", ""))
}

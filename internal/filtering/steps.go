package filtering

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spigell/applicant-matcher/internal/ranking"
)

type minimumScoreFilter struct {
	minimum float64
}

// NewMinimumScore creates a filter that drops candidates whose total score is below minimum.
func NewMinimumScore(minimum float64) Filter {
	return &minimumScoreFilter{minimum: minimum}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(string) {}

func (f *minimumScoreFilter) IsEnabled() bool { return true }

func (f *minimumScoreFilter) Validate() error {
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum score %.2f is outside [0, 100]", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, r *ranking.Results) (*ranking.Results, Step, error) {
	initial := r.Len()
	dropped := r.Drop(func(c *ranking.Candidate) bool {
		return c.Breakdown.TotalScore < f.minimum
	})
	return r, stepOf(initial, dropped, r), nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"minimum_score": strconv.FormatFloat(f.minimum, 'f', 2, 64)},
	}
}

type eligibilityGateFilter struct {
	enabled bool
	reason  string
}

// NewEligibilityGate creates a filter that drops candidates holding none of the required eligibilities.
// Jobs without an eligibility requirement score neutral and pass the gate.
func NewEligibilityGate(enabled bool) Filter {
	f := &eligibilityGateFilter{enabled: true}
	if !enabled {
		f.Disable("not requested in config")
	}
	return f
}

func (f *eligibilityGateFilter) Name() string { return "eligibility_gate" }

func (f *eligibilityGateFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *eligibilityGateFilter) IsEnabled() bool { return f.enabled }

func (f *eligibilityGateFilter) Validate() error { return nil }

func (f *eligibilityGateFilter) Apply(_ context.Context, r *ranking.Results) (*ranking.Results, Step, error) {
	initial := r.Len()
	dropped := r.Drop(func(c *ranking.Candidate) bool {
		return c.Breakdown.EligibilityScore <= 0
	})
	return r, stepOf(initial, dropped, r), nil
}

func (f *eligibilityGateFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
}

type topFilter struct {
	n int
}

// NewTop creates a filter that keeps the n best candidates. Zero keeps everyone.
func NewTop(n int) Filter {
	return &topFilter{n: n}
}

func (f *topFilter) Name() string { return "top" }

func (f *topFilter) Disable(string) {}

func (f *topFilter) IsEnabled() bool { return true }

func (f *topFilter) Validate() error {
	if f.n < 0 {
		return fmt.Errorf("top must not be negative, got %d", f.n)
	}
	return nil
}

func (f *topFilter) Apply(_ context.Context, r *ranking.Results) (*ranking.Results, Step, error) {
	initial := r.Len()
	if f.n == 0 {
		return r, stepOf(initial, nil, r), nil
	}
	r.Sort()
	dropped := r.Truncate(f.n)
	return r, stepOf(initial, dropped, r), nil
}

func (f *topFilter) Status() Status {
	details := map[string]string{}
	if f.n > 0 {
		details["top"] = strconv.Itoa(f.n)
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

package ranking

import (
	"encoding/json"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spigell/applicant-matcher/internal/profile"
	"github.com/spigell/applicant-matcher/internal/skills"
)

// Candidate is one scored applicant.
type Candidate struct {
	Applicant profile.ApplicantProfile `json:"applicant"`
	Breakdown ScoreBreakdown           `json:"breakdown"`
	// Resolution is the ensemble path taken, empty for single-algorithm strategies.
	Resolution       string              `json:"resolution,omitempty"`
	SkillAssignments []skills.Assignment `json:"skill_assignments,omitempty"`
	SemanticSkills   bool                `json:"semantic_skills"`
}

// ID returns the applicant ID.
func (c *Candidate) ID() string {
	return c.Applicant.ID
}

// Results is a ranked applicant pool for one job.
type Results struct {
	RunID    string                 `json:"run_id"`
	Job      profile.JobRequirement `json:"job"`
	Strategy Strategy               `json:"strategy"`
	Items    []*Candidate           `json:"candidates"`
}

func (r *Results) Len() int {
	return len(r.Items)
}

// Sort orders candidates by total score descending, then by applicant ID.
func (r *Results) Sort() {
	slices.SortStableFunc(r.Items, func(a, b *Candidate) int {
		switch {
		case a.Breakdown.TotalScore > b.Breakdown.TotalScore:
			return -1
		case a.Breakdown.TotalScore < b.Breakdown.TotalScore:
			return 1
		default:
			return strings.Compare(a.ID(), b.ID())
		}
	})
}

func (r *Results) FindByID(id string) *Candidate {
	for _, candidate := range r.Items {
		if candidate.ID() == id {
			return candidate
		}
	}
	return nil
}

// IDs returns the applicant IDs in rank order.
func (r *Results) IDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, candidate := range r.Items {
		ids = append(ids, candidate.ID())
	}
	return ids
}

// Exclude removes candidates whose applicant ID is in targets and returns the removed IDs.
// Rank order of the remaining candidates is preserved.
func (r *Results) Exclude(targets []string) []string {
	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		set[target] = struct{}{}
	}
	return r.Drop(func(c *Candidate) bool {
		_, ok := set[c.ID()]
		return ok
	})
}

// Drop removes every candidate for which drop returns true and returns their IDs.
func (r *Results) Drop(drop func(*Candidate) bool) []string {
	var dropped []string
	kept := r.Items[:0]
	for _, candidate := range r.Items {
		if drop(candidate) {
			dropped = append(dropped, candidate.ID())
			continue
		}
		kept = append(kept, candidate)
	}
	clear(r.Items[len(kept):])
	r.Items = kept
	return dropped
}

// Truncate keeps the first n candidates and returns the IDs of the rest.
func (r *Results) Truncate(n int) []string {
	if n < 0 || n >= len(r.Items) {
		return nil
	}
	var dropped []string
	for _, candidate := range r.Items[n:] {
		dropped = append(dropped, candidate.ID())
	}
	clear(r.Items[n:])
	r.Items = r.Items[:n]
	return dropped
}

func (r *Results) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "ranking_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ToExcluded converts the current candidates into exclude file entries.
func (r *Results) ToExcluded() *ExcludedApplicants {
	excluded := &ExcludedApplicants{}
	for _, candidate := range r.Items {
		excluded.Items = append(excluded.Items, &ExcludedApplicant{
			ID:         candidate.ID(),
			Name:       candidate.Applicant.Name,
			JobTitle:   r.Job.Title,
			TotalScore: candidate.Breakdown.TotalScore,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// Report returns a compact rank listing keyed by position.
func (r *Results) Report() []map[string]any {
	report := make([]map[string]any, 0, len(r.Items))
	for idx, candidate := range r.Items {
		report = append(report, map[string]any{
			"rank":        idx + 1,
			"id":          candidate.ID(),
			"name":        candidate.Applicant.DisplayName(),
			"total_score": round(candidate.Breakdown.TotalScore),
			"method":      candidate.Breakdown.Method,
		})
	}
	return report
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}

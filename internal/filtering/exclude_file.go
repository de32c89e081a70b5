package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/applicant-matcher/internal/logger"
	"github.com/spigell/applicant-matcher/internal/ranking"
)

type excludeFileFilter struct {
	path   string
	logger *zap.Logger
}

// NewExcludeFile creates a filter that removes applicants listed in the exclude file.
// An empty path keeps every candidate.
func NewExcludeFile(path string, log *zap.Logger) Filter {
	return &excludeFileFilter{
		path:   strings.TrimSpace(path),
		logger: logger.WithFields(log),
	}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate() error { return nil }

func (f *excludeFileFilter) Apply(_ context.Context, r *ranking.Results) (*ranking.Results, Step, error) {
	initial := r.Len()
	if f.path == "" {
		return r, stepOf(initial, nil, r), nil
	}

	excluded, err := ranking.GetExcludedApplicantsFromFile(f.path)
	if err != nil {
		return r, Step{}, fmt.Errorf("getting excluded applicants from file: %w", err)
	}

	removed := r.Exclude(excluded.ApplicantIDs())
	if len(removed) > 0 {
		f.logger.Info("excluding applicants based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_applicants", removed),
			zap.Int("applicants_left", r.Len()),
		)
	}

	return r, stepOf(initial, removed, r), nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

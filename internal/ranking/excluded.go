package ranking

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

// ExcludedApplicants is the on-disk list of applicants to leave out of future rankings.
type ExcludedApplicants struct {
	Items []*ExcludedApplicant
}

type ExcludedApplicant struct {
	ID         string
	Name       string
	JobTitle   string
	TotalScore float64
	ExcludedAt time.Time
}

// GetExcludedApplicantsFromFile reads an exclude file. A missing or empty file is an empty list.
func GetExcludedApplicantsFromFile(path string) (*ExcludedApplicants, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ExcludedApplicants{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedApplicants{}, nil
	}

	var excluded ExcludedApplicants
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedApplicants) Append(s *ExcludedApplicants) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedApplicants) ApplicantIDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, applicant := range e.Items {
		ids = append(ids, applicant.ID)
	}
	return ids
}

func (e *ExcludedApplicants) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return err
	}
	return nil
}

// Package intake loads a job and its applicant pool from a batch file.
package intake

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/spigell/applicant-matcher/internal/profile"
)

// ErrNoApplicants is returned for a batch without applicants.
var ErrNoApplicants = errors.New("batch has no applicants")

var validate = validator.New()

// Batch is one job and the applicants to score against it.
type Batch struct {
	Job        profile.JobRequirement     `mapstructure:"job"`
	Applicants []profile.ApplicantProfile `mapstructure:"applicants" validate:"unique=ID,dive"`
}

// Applicant returns the applicant with the given ID.
func (b *Batch) Applicant(id string) (profile.ApplicantProfile, bool) {
	for _, applicant := range b.Applicants {
		if applicant.ID == id {
			return applicant, true
		}
	}
	return profile.ApplicantProfile{}, false
}

// Load reads a YAML or JSON batch file. The format follows the file extension.
func Load(path string) (*Batch, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading batch file %q: %w", path, err)
	}

	batch, err := decode(v.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("batch file %q: %w", path, err)
	}
	return batch, nil
}

// Read parses a batch in the given format ("yaml" or "json").
func Read(r io.Reader, format string) (*Batch, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("reading batch: %w", err)
	}
	return decode(v.AllSettings())
}

func decode(settings map[string]any) (*Batch, error) {
	var batch Batch
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &batch,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("decoding batch: %w", err)
	}

	if err := batch.Validate(); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Validate checks the structural rules of the batch: a titled job and uniquely identified applicants.
func (b *Batch) Validate() error {
	if len(b.Applicants) == 0 {
		return ErrNoApplicants
	}
	if err := b.Job.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(b); err != nil {
		return fmt.Errorf("invalid batch: %w", err)
	}
	return nil
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score applicants of a batch file and print their breakdowns as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("batch", "b", "", "batch file with the job and its applicants (yaml or json)")
	scoreCmd.Flags().StringP("applicant", "a", "", "score only the applicant with this id")
	scoreCmd.Flags().StringP("strategy", "s", "", "scoring strategy: ensemble, weighted-sum, composite or tie-breaker")
}

func score(cmd *cobra.Command) error {
	ctx := context.Background()

	batchFile, _ := cmd.Flags().GetString("batch")
	applicantID, _ := cmd.Flags().GetString("applicant")
	strategy, _ := cmd.Flags().GetString("strategy")

	s := newSession(ctx, batchFile, strategy)
	defer s.close()

	var output any
	if applicantID != "" {
		applicant, ok := s.batch.Applicant(applicantID)
		if !ok {
			return fmt.Errorf("applicant %q is not in the batch", applicantID)
		}
		output = s.ranker.Score(ctx, s.batch.Job, applicant)
	} else {
		results, err := s.ranker.Rank(ctx, s.batch.Job, s.batch.Applicants)
		if err != nil {
			return err
		}
		output = results
	}

	pretty, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scores: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	return nil
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/applicant-matcher/internal/ranking"
)

const (
	PromptShowRanking         = "Show ranking"
	PromptShowCandidate       = "Show candidate details"
	PromptRankingToFile       = "Dump ranking to file"
	PromptAppendToExcludeFile = "Append shown applicants to exclude file"
	PromptExit                = "Exit"
	PromptBack                = "back"
)

var errExit = errors.New("exit requested")

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the applicant pool of a batch file against its job",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("batch", "b", "", "batch file with the job and its applicants (yaml or json)")
	rankCmd.Flags().StringP("strategy", "s", "", "scoring strategy: ensemble, weighted-sum, composite or tie-breaker")
	rankCmd.Flags().BoolP("yes", "y", false, "do not show the interactive menu, only log the ranking")
	rankCmd.Flags().StringP("exclude-file", "e", "", "file with applicants to exclude. Default is unset.")
	rankCmd.Flags().IntP("top", "t", 0, "keep only the best N applicants")

	viper.BindPFlag("filters.exclude-file", rankCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("filters.top", rankCmd.Flags().Lookup("top"))
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command) {
	ctx := context.Background()

	batchFile, _ := cmd.Flags().GetString("batch")
	strategy, _ := cmd.Flags().GetString("strategy")

	s := newSession(ctx, batchFile, strategy)
	defer s.close()

	logger := s.logger

	results, err := s.ranker.Rank(ctx, s.batch.Job, s.batch.Applicants)
	if err != nil {
		logger.Fatal("ranking applicants", zap.Error(err))
	}

	filters := prepareFilters(s.config.Filters, logger)

	filtered, err := filters.RunFilters(ctx, results)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	results = filtered

	if results.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no applicants left after filters"))
		return
	}

	showRanking(logger, results)

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return
	}

	for {
		items := []string{PromptShowRanking, PromptShowCandidate, PromptRankingToFile}
		if s.config.Filters.ExcludeFile != "" {
			items = append(items, PromptAppendToExcludeFile)
		}
		items = append(items, PromptExit)

		prompt := promptui.Select{
			Label: "What next?",
			Items: items,
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, s.config, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if results.Len() == 0 {
			logger.Info("exiting", zap.String("reason", "no applicants left"))
			return
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, results *ranking.Results) error {
	switch action {
	case PromptShowRanking:
		showRanking(logger, results)
		return nil
	case PromptShowCandidate:
		return showCandidates(logger, results)
	case PromptRankingToFile:
		filename, err := results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump ranking to file: %w", err)
		}
		logger.Info("dumping ranking to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(logger, config.Filters.ExcludeFile, results)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showRanking(logger *zap.Logger, results *ranking.Results) {
	// do not bother error since the report is built from plain values
	pretty, _ := json.MarshalIndent(results.Report(), "", "  ")
	logger.Info(string(pretty),
		zap.String("job_title", results.Job.Title),
		zap.String("strategy", string(results.Strategy)),
		zap.Int("applicants count", results.Len()),
	)
}

func showCandidates(logger *zap.Logger, results *ranking.Results) error {
	for {
		items := make([]string, 0, results.Len()+1)
		for idx, candidate := range results.Items {
			items = append(items, fmt.Sprintf("%d. %s (%s) / %.2f / %s",
				idx+1, candidate.Applicant.DisplayName(), candidate.ID(), candidate.Breakdown.TotalScore, candidate.Breakdown.Method,
			))
		}

		candidatePrompt := promptui.Select{
			Label: "Choose an applicant and press ENTER",
			Items: append(items, PromptBack),
		}

		idx, _, err := candidatePrompt.Run()
		if err != nil {
			return err
		}

		candidate, back := pickCandidate(results, idx)
		if back {
			return nil
		}

		pretty, _ := json.MarshalIndent(candidate, "", "  ")
		logger.Info(string(pretty), zap.String("applicant_id", candidate.ID()))
	}
}

// pickCandidate resolves a menu index. Any index past the candidates is the back entry.
func pickCandidate(results *ranking.Results, idx int) (*ranking.Candidate, bool) {
	if idx < 0 || idx >= results.Len() {
		return nil, true
	}
	return results.Items[idx], false
}

func appendToExcludeFile(logger *zap.Logger, excludeFile string, results *ranking.Results) error {
	excluded, err := ranking.GetExcludedApplicantsFromFile(excludeFile)
	if err != nil {
		return err
	}

	excluded.Append(results.ToExcluded())

	if err = excluded.ToFile(excludeFile); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", excludeFile), zap.Int("count", results.Len()))

	results.Exclude(excluded.ApplicantIDs())
	return nil
}

package cmd

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/applicant-matcher/internal/ranking"
)

func TestGetConfigDefaults(t *testing.T) {
	config, err := getConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Scoring.Strategy != string(ranking.StrategyEnsemble) {
		t.Fatalf("unexpected default strategy %q", config.Scoring.Strategy)
	}
	if config.Scoring.TieThreshold != ranking.DefaultTieThreshold {
		t.Fatalf("unexpected default tie threshold %v", config.Scoring.TieThreshold)
	}
	if config.Semantic == nil || config.Semantic.Timeout != 10*time.Second {
		t.Fatalf("unexpected semantic defaults: %+v", config.Semantic)
	}
	if config.Semantic.Cache == nil || config.Semantic.Cache.Redis == nil || config.Semantic.Cache.Redis.Prefix != app {
		t.Fatalf("unexpected cache defaults: %+v", config.Semantic.Cache)
	}
	if config.Filters == nil || config.Metrics == nil {
		t.Fatalf("filters and metrics sections must never be nil")
	}
}

func TestConfigFromYAML(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	err := v.ReadConfig(strings.NewReader(`
scoring:
  strategy: composite
  concurrency: 2
semantic:
  enabled: true
  timeout: 3s
  gemini:
    model: custom-embedding
filters:
  minimum-score: 40
  require-eligibility: true
  top: 5
`))
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		t.Fatalf("decoding config: %v", err)
	}

	if config.Scoring.Strategy != "composite" || config.Scoring.Concurrency != 2 {
		t.Fatalf("unexpected scoring section: %+v", config.Scoring)
	}
	if config.Semantic.Timeout != 3*time.Second || config.Semantic.Gemini.Model != "custom-embedding" {
		t.Fatalf("unexpected semantic section: %+v", config.Semantic)
	}
	if config.Semantic.Gemini.MaxRetries != 3 {
		t.Fatalf("expected default max retries, got %d", config.Semantic.Gemini.MaxRetries)
	}
	if config.Filters.MinimumScore != 40 || !config.Filters.RequireEligibility || config.Filters.Top != 5 {
		t.Fatalf("unexpected filters section: %+v", config.Filters)
	}
}

func TestRankerOptions(t *testing.T) {
	config := &Config{
		Scoring: &ScoringConfig{Strategy: "tie-breaker", Concurrency: 3},
		Filters: &FiltersConfig{},
		Metrics: &MetricsConfig{},
	}

	opts, cleanup, err := rankerOptions(context.Background(), config, "", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cleanup()

	if opts.Strategy != ranking.StrategyTieBreaker || opts.Concurrency != 3 || opts.Embedder != nil {
		t.Fatalf("unexpected options: %+v", opts)
	}

	opts, _, err = rankerOptions(context.Background(), config, "weighted-sum", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Strategy != ranking.StrategyWeightedSum {
		t.Fatalf("strategy flag should win over config, got %s", opts.Strategy)
	}

	if _, _, err := rankerOptions(context.Background(), config, "median", zap.NewNop()); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestNewEmbedderErrors(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	tests := []struct {
		name    string
		cfg     *SemanticConfig
		wantErr string
	}{
		{name: "unsupported provider", cfg: &SemanticConfig{Provider: "openai"}, wantErr: "unsupported semantic provider"},
		{name: "missing gemini section", cfg: &SemanticConfig{}, wantErr: "gemini configuration is required"},
		{name: "missing api key", cfg: &SemanticConfig{Gemini: &GeminiConfig{}}, wantErr: "gemini api key is not configured"},
	}

	for _, tt := range tests {
		_, _, err := newEmbedder(context.Background(), tt.cfg, zap.NewNop())
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Fatalf("%s: expected error containing %q, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestPrepareFilters(t *testing.T) {
	filters := prepareFilters(&FiltersConfig{MinimumScore: 25, Top: 3}, zap.NewNop())

	statuses := filters.Describe()
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, status.Name)
	}

	if got := strings.Join(names, ","); got != "exclude_file,minimum_score,eligibility_gate,top" {
		t.Fatalf("unexpected filter order: %s", got)
	}
	if statuses[2].Enabled {
		t.Fatalf("eligibility gate must be disabled unless requested")
	}
}

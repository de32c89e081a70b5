package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/applicant-matcher/internal/ai/gemini"
	"github.com/spigell/applicant-matcher/internal/filtering"
	"github.com/spigell/applicant-matcher/internal/ranking"
	"github.com/spigell/applicant-matcher/internal/secrets"
	"github.com/spigell/applicant-matcher/internal/semantic"
)

type Config struct {
	Scoring  *ScoringConfig  `mapstructure:"scoring"`
	Semantic *SemanticConfig `mapstructure:"semantic"`
	Filters  *FiltersConfig  `mapstructure:"filters"`
	Metrics  *MetricsConfig  `mapstructure:"metrics"`
}

type ScoringConfig struct {
	Strategy     string  `mapstructure:"strategy"`
	Concurrency  int     `mapstructure:"concurrency"`
	TieThreshold float64 `mapstructure:"tie-threshold"`
}

type SemanticConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
	Cache    *CacheConfig  `mapstructure:"cache"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type CacheConfig struct {
	Redis *RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

type FiltersConfig struct {
	MinimumScore       float64 `mapstructure:"minimum-score"`
	RequireEligibility bool    `mapstructure:"require-eligibility"`
	ExcludeFile        string  `mapstructure:"exclude-file"`
	Top                int     `mapstructure:"top"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scoring.strategy", string(ranking.StrategyEnsemble))
	v.SetDefault("scoring.tie-threshold", ranking.DefaultTieThreshold)
	v.SetDefault("semantic.provider", gemini.Provider)
	v.SetDefault("semantic.timeout", 10*time.Second)
	v.SetDefault("semantic.gemini.model", "text-embedding-004")
	v.SetDefault("semantic.gemini.max-retries", 3)
	v.SetDefault("semantic.cache.redis.ttl", 30*24*time.Hour)
	v.SetDefault("semantic.cache.redis.prefix", app)
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}
	if config.Scoring == nil {
		config.Scoring = &ScoringConfig{}
	}
	if config.Filters == nil {
		config.Filters = &FiltersConfig{}
	}
	if config.Metrics == nil {
		config.Metrics = &MetricsConfig{}
	}
	return config, nil
}

// rankerOptions builds ranking options; strategyOverride wins over the configured strategy when set.
// The returned cleanup releases the embedding cache connection.
func rankerOptions(ctx context.Context, config *Config, strategyOverride string, logger *zap.Logger) (ranking.Options, func(), error) {
	name := config.Scoring.Strategy
	if strings.TrimSpace(strategyOverride) != "" {
		name = strategyOverride
	}
	strategy, err := ranking.ParseStrategy(name)
	if err != nil {
		return ranking.Options{}, nil, err
	}

	opts := ranking.Options{
		Strategy:     strategy,
		Concurrency:  config.Scoring.Concurrency,
		TieThreshold: config.Scoring.TieThreshold,
	}

	if config.Semantic == nil || !config.Semantic.Enabled {
		logger.Info("semantic skill similarity disabled; skills are scored on text only")
		return opts, func() {}, nil
	}

	embedder, cleanup, err := newEmbedder(ctx, config.Semantic, logger)
	if err != nil {
		return ranking.Options{}, nil, fmt.Errorf("building embedder: %w", err)
	}
	opts.Embedder = embedder
	opts.SemanticTimeout = config.Semantic.Timeout

	return opts, cleanup, nil
}

func newEmbedder(ctx context.Context, cfg *SemanticConfig, logger *zap.Logger) (semantic.Embedder, func(), error) {
	noop := func() {}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, nil, fmt.Errorf("unsupported semantic provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, nil, fmt.Errorf("gemini configuration is required when semantic similarity is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set semantic.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	embedder, err := gemini.NewEmbedder(ctx, gemini.Options{
		APIKey:     apiKey,
		Model:      cfg.Gemini.Model,
		Dimensions: cfg.Gemini.Dimensions,
		MaxRetries: cfg.Gemini.MaxRetries,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Cache == nil || cfg.Cache.Redis == nil || strings.TrimSpace(cfg.Cache.Redis.Address) == "" {
		return embedder, noop, nil
	}

	redisCfg := cfg.Cache.Redis
	opts := semantic.RedisOptions{
		Address:  redisCfg.Address,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
		TTL:      redisCfg.TTL,
		Prefix:   redisCfg.Prefix,
		Model:    embedder.Model(),
	}

	client := semantic.NewRedisClient(opts)
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("closing redis client", zap.Error(err))
		}
	}

	logger.Info("caching embeddings in redis", zap.String("address", opts.Address), zap.Duration("ttl", opts.TTL))
	return semantic.NewRedisCache(client, embedder, opts, logger), cleanup, nil
}

func prepareFilters(config *FiltersConfig, logger *zap.Logger) *filtering.Filtering {
	steps := []filtering.Filter{
		filtering.NewExcludeFile(config.ExcludeFile, logger),
		filtering.NewMinimumScore(config.MinimumScore),
		filtering.NewEligibilityGate(config.RequireEligibility),
		filtering.NewTop(config.Top),
	}

	return filtering.New(steps, logger)
}

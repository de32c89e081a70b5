package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/applicant-matcher/internal/intake"
	"github.com/spigell/applicant-matcher/internal/logger"
	"github.com/spigell/applicant-matcher/internal/metrics"
	"github.com/spigell/applicant-matcher/internal/ranking"
)

// session holds everything a scoring command needs for one batch.
type session struct {
	logger   *zap.Logger
	config   *Config
	batch    *intake.Batch
	ranker   *ranking.Ranker
	registry *prometheus.Registry
	cleanup  func()
}

// newSession builds the logger, reads the config and the batch file, and wires the ranker.
// Failures are fatal, as there is nothing to score without them.
func newSession(ctx context.Context, batchFile, strategy string) *session {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	zlog.Info("starting the applicant-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	zlog.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if batchFile == "" {
		zlog.Fatal("batch file is required", zap.String("hint", "pass it with --batch"))
	}

	batch, err := intake.Load(batchFile)
	if err != nil {
		zlog.Fatal("loading batch", zap.Error(err))
	}

	zlog.Info("batch loaded",
		zap.String(logger.FieldJobTitle, batch.Job.Title),
		zap.Int("applicants", len(batch.Applicants)),
	)

	opts, cleanup, err := rankerOptions(ctx, config, strategy, zlog)
	if err != nil {
		zlog.Fatal("configuring the ranker", zap.Error(err))
	}

	registry := prometheus.NewRegistry()

	return &session{
		logger:   zlog,
		config:   config,
		batch:    batch,
		ranker:   ranking.NewRanker(opts, zlog, metrics.New(registry)),
		registry: registry,
		cleanup:  cleanup,
	}
}

// close releases connections and exports metrics when a textfile path is configured.
func (s *session) close() {
	s.cleanup()

	if err := metrics.WriteTextfile(s.config.Metrics.Textfile, s.registry); err != nil {
		s.logger.Warn("writing metrics textfile", zap.Error(err))
	} else if s.config.Metrics.Textfile != "" {
		s.logger.Info("metrics written", zap.String("path", s.config.Metrics.Textfile))
	}

	_ = s.logger.Sync()
}

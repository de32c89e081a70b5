package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/applicant-matcher/internal/logger"
	"github.com/spigell/applicant-matcher/internal/utils"
)

const (
	// Provider is the name used in logs and configuration.
	Provider = "gemini"

	defaultModel      = "text-embedding-004"
	defaultMaxRetries = 3
	taskType          = "SEMANTIC_SIMILARITY"

	baseRetryDelay = time.Second
	maxRetryDelay  = 30 * time.Second
)

// sleep waits between attempts. Tests replace it.
var sleep = utils.WaitFor

var retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

type embedModels interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Options configures the Gemini embedder.
type Options struct {
	APIKey string
	Model  string
	// Dimensions truncates the returned vectors when positive.
	Dimensions int
	MaxRetries int
}

// Embedder turns text into vectors with the Gemini embeddings API.
type Embedder struct {
	models     embedModels
	model      string
	dimensions int32
	maxRetries int
	logger     *zap.Logger
}

// NewEmbedder creates an Embedder configured for the Gemini API backend.
func NewEmbedder(ctx context.Context, opts Options, log *zap.Logger) (*Embedder, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newEmbedder(client.Models, opts, log), nil
}

func newEmbedder(models embedModels, opts Options, log *zap.Logger) *Embedder {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	maxRetries := opts.MaxRetries
	if maxRetries < 1 {
		maxRetries = defaultMaxRetries
	}

	return &Embedder{
		models:     models,
		model:      model,
		dimensions: int32(max(opts.Dimensions, 0)),
		maxRetries: maxRetries,
		logger:     logger.WithCommonFields(log, Provider, model),
	}
}

// Embed returns the embedding of text. Transient API errors are retried up to MaxRetries attempts.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e == nil || e.models == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}

	cfg := &genai.EmbedContentConfig{TaskType: taskType}
	if e.dimensions > 0 {
		dims := e.dimensions
		cfg.OutputDimensionality = &dims
	}

	for attempt := 1; ; attempt++ {
		resp, err := e.models.EmbedContent(ctx, e.model, genai.Text(text), cfg)
		if err == nil {
			return firstVector(resp)
		}

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt >= e.maxRetries {
			return nil, fmt.Errorf("embed content: %w", err)
		}

		e.logger.Debug("retrying embedding request",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.String("text", utils.TruncateForLog(text, 80)),
			zap.Error(err),
		)

		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// Model returns the embedding model name.
func (e *Embedder) Model() string {
	if e == nil {
		return ""
	}
	return e.model
}

func firstVector(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, errors.New("gemini api returned empty response")
	}
	for _, embedding := range resp.Embeddings {
		if embedding != nil && len(embedding.Values) > 0 {
			return embedding.Values, nil
		}
	}
	return nil, errors.New("gemini api returned empty embedding")
}

// retryDelay reports whether err is worth retrying and how long to wait first.
// Quota errors asking for a longer pause than maxRetryDelay are not retried.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	apiErr, ok := asAPIError(err)
	if !ok {
		return 0, false
	}

	switch {
	case apiErr.Code >= http.StatusInternalServerError:
		return utils.Backoff(attempt, baseRetryDelay, maxRetryDelay), true
	case apiErr.Code == http.StatusTooManyRequests:
		if delay, ok := quotaDelay(apiErr); ok {
			if delay > maxRetryDelay {
				return 0, false
			}
			return delay, true
		}
		return utils.Backoff(attempt, baseRetryDelay, maxRetryDelay), true
	default:
		return 0, false
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

// quotaDelay extracts the server-requested pause from RetryInfo details or the message text.
func quotaDelay(apiErr genai.APIError) (time.Duration, bool) {
	for _, detail := range apiErr.Details {
		raw, ok := detail["retryDelay"].(string)
		if !ok {
			continue
		}
		if delay, err := time.ParseDuration(raw); err == nil {
			return delay, true
		}
	}

	match := retryAfterPattern.FindStringSubmatch(apiErr.Message)
	if len(match) < 2 {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

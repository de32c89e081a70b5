package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type embedCallRecord struct {
	model    string
	text     string
	config   *genai.EmbedContentConfig
	contents []*genai.Content
}

type fakeEmbedResponse struct {
	resp *genai.EmbedContentResponse
	err  error
}

type fakeModels struct {
	mu    sync.Mutex
	calls []embedCallRecord
	queue []fakeEmbedResponse
}

func (f *fakeModels) enqueue(resp *genai.EmbedContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeEmbedResponse{resp: resp, err: err})
}

func (f *fakeModels) EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	text := ""
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		text = contents[0].Parts[0].Text
	}
	f.calls = append(f.calls, embedCallRecord{model: model, text: text, config: config, contents: contents})

	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func vectorResponse(values ...float32) *genai.EmbedContentResponse {
	return &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: values}},
	}
}

func noSleep(t *testing.T) {
	t.Helper()
	original := sleep
	sleep = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { sleep = original })
}

func TestEmbedderRetriesOnTemporaryError(t *testing.T) {
	noSleep(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models.enqueue(nil, tempErr)
	models.enqueue(vectorResponse(0.1, 0.2, 0.3), nil)

	e := newEmbedder(models, Options{Model: "text-embedding-004", Dimensions: 3, MaxRetries: 2}, zap.NewNop())

	vector, err := e.Embed(context.Background(), "  records management ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(vector) != 3 {
		t.Fatalf("unexpected vector: %v", vector)
	}

	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}

	for _, call := range models.calls {
		if call.model != "text-embedding-004" {
			t.Fatalf("unexpected model: %q", call.model)
		}
		if call.text != "records management" {
			t.Fatalf("unexpected text: %q", call.text)
		}
		if call.config == nil || call.config.TaskType != taskType {
			t.Fatalf("expected task type %q, got %+v", taskType, call.config)
		}
		if call.config.OutputDimensionality == nil || *call.config.OutputDimensionality != 3 {
			t.Fatalf("expected output dimensionality 3")
		}
	}
}

func TestEmbedderStopsAfterRetriesExhausted(t *testing.T) {
	noSleep(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)

	e := newEmbedder(models, Options{MaxRetries: 2}, nil)

	_, err := e.Embed(context.Background(), "typing")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected wrapped api error, got %v", err)
	}

	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestEmbedderDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	models := &fakeModels{}
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}
	models.enqueue(nil, quotaErr)

	e := newEmbedder(models, Options{MaxRetries: 3}, zap.NewNop())

	_, err := e.Embed(context.Background(), "typing")
	if err == nil {
		t.Fatal("expected error when quota delay too long")
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestEmbedderDoesNotRetryClientErrors(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	e := newEmbedder(models, Options{MaxRetries: 3}, nil)
	if _, err := e.Embed(context.Background(), "typing"); err == nil {
		t.Fatal("expected error")
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestEmbedderRejectsEmptyInputAndOutput(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(&genai.EmbedContentResponse{}, nil)

	e := newEmbedder(models, Options{}, nil)

	if _, err := e.Embed(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty text")
	}
	if len(models.calls) != 0 {
		t.Fatalf("expected no api call for empty text, got %d", len(models.calls))
	}

	if _, err := e.Embed(context.Background(), "typing"); err == nil {
		t.Fatal("expected error for empty embedding")
	}

	if e.Model() != defaultModel {
		t.Fatalf("expected default model, got %q", e.Model())
	}
	if models.calls[0].config.OutputDimensionality != nil {
		t.Fatalf("expected no output dimensionality by default")
	}
}

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		retry bool
		delay time.Duration
	}{
		{
			name:  "server error backs off",
			err:   genai.APIError{Code: http.StatusServiceUnavailable},
			retry: true,
			delay: 2 * time.Second,
		},
		{
			name:  "short quota delay from message",
			err:   genai.APIError{Code: http.StatusTooManyRequests, Message: "Please retry in 4.5s."},
			retry: true,
			delay: 4500 * time.Millisecond,
		},
		{
			name: "quota delay from details",
			err: genai.APIError{
				Code:    http.StatusTooManyRequests,
				Details: []map[string]any{{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "7s"}},
			},
			retry: true,
			delay: 7 * time.Second,
		},
		{
			name:  "long quota delay",
			err:   genai.APIError{Code: http.StatusTooManyRequests, Message: "retry after 120 seconds"},
			retry: false,
		},
		{
			name:  "not an api error",
			err:   errors.New("dial tcp: timeout"),
			retry: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delay, retry := retryDelay(tt.err, 2)
			if retry != tt.retry {
				t.Fatalf("expected retry=%v, got %v", tt.retry, retry)
			}
			if retry && delay != tt.delay {
				t.Fatalf("expected delay %v, got %v", tt.delay, delay)
			}
		})
	}
}

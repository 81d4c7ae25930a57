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

type fakeModels struct {
	mu        sync.Mutex
	calls     []fakeCall
	responses []fakeResponse
}

type fakeCall struct {
	model   string
	config  *genai.GenerateContentConfig
	payload string
}

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) enqueue(text string, err error) {
	var resp *genai.GenerateContentResponse
	if err == nil {
		resp = &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
			}},
		}
	}
	f.responses = append(f.responses, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	payload := ""
	for _, content := range contents {
		for _, part := range content.Parts {
			payload += part.Text
		}
	}
	f.calls = append(f.calls, fakeCall{model: model, config: config, payload: payload})

	if len(f.responses) == 0 {
		return nil, errors.New("unexpected call")
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next.resp, next.err
}

func newTestGenerator(models *fakeModels, maxRetries int) *Generator {
	return &Generator{
		models:     models,
		model:      "gemini-test",
		maxRetries: maxRetries,
		maxLogLen:  defaultMaxLogLen,
		logger:     zap.NewNop(),
	}
}

func TestGenerateJSONSendsSystemInstruction(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(`{"ok": true}`, nil)

	g := newTestGenerator(models, 1)

	output, err := g.GenerateJSON(context.Background(), "system text", "payload text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != `{"ok": true}` {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(models.calls))
	}
	call := models.calls[0]
	if call.model != "gemini-test" {
		t.Fatalf("unexpected model: %q", call.model)
	}
	if call.config == nil || call.config.SystemInstruction == nil {
		t.Fatalf("system instruction not set")
	}
	system := call.config.SystemInstruction.Parts[0].Text
	if system == "" || system == "system text" {
		t.Fatalf("expected system text with the JSON frame appended, got %q", system)
	}
	if call.payload != "payload text" {
		t.Fatalf("unexpected payload: %q", call.payload)
	}
}

func TestGenerateJSONRetriesOnTemporaryError(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	models := &fakeModels{}
	models.enqueue("", genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue("retry ok", nil)

	g := newTestGenerator(models, 2)

	output, err := g.GenerateJSON(context.Background(), "sys", "msg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}
	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestGenerateJSONStopsAfterRetriesExhausted(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"}
	models.enqueue("", tempErr)
	models.enqueue("", tempErr)

	g := newTestGenerator(models, 2)

	if _, err := g.GenerateJSON(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestGenerateJSONDoesNotRetryClientErrors(t *testing.T) {
	models := &fakeModels{}
	models.enqueue("", genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	g := newTestGenerator(models, 3)

	if _, err := g.GenerateJSON(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for invalid request")
	}
	if len(models.calls) != 1 {
		t.Fatalf("client errors must not be retried, got %d calls", len(models.calls))
	}
}

func TestGenerateJSONRejectsEmptyResponse(t *testing.T) {
	models := &fakeModels{}
	models.enqueue("   ", nil)

	g := newTestGenerator(models, 1)

	if _, err := g.GenerateJSON(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}
}

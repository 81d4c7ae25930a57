// Package gemini implements the ai capability interfaces on top of the
// Google GenAI API. Every call is a one-shot strict-JSON generation: one
// embedded system prompt, one JSON payload, one structured response.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/voxhire/voxhire/internal/logger"
)

const (
	defaultModel      = "gemini-2.0-flash"
	defaultMaxRetries = 3
	defaultMaxLogLen  = 200

	// The oracle prompts describe the payload; this frame enforces the output shape.
	jsonFrame = "Return ONLY valid JSON. No extra commentary or text outside JSON."
)

var temperature = float32(0.3)

// patchable in tests
var sleep = time.Sleep

// modelCaller is the slice of the genai client the generator needs.
// *genai.Models satisfies it.
type modelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the GenAI client with retries and debug logging. It is safe
// for concurrent use; independent sessions may share one generator.
type Generator struct {
	models     modelCaller
	model      string
	maxRetries int
	maxLogLen  int
	logger     *zap.Logger
}

// NewGenerator creates a Generator for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, log *zap.Logger) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Generator{
		models:     client.Models,
		model:      model,
		maxRetries: maxRetries,
		maxLogLen:  defaultMaxLogLen,
		logger:     log.With(zap.String("provider", "gemini"), zap.String("model", model)),
	}, nil
}

// SetMaxLogLength overrides the truncation limit for logged payload and
// response previews. Non-positive values are ignored.
func (g *Generator) SetMaxLogLength(n int) {
	if g != nil && n > 0 {
		g.maxLogLen = n
	}
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// GenerateJSON sends the system instruction and user payload to Gemini and
// returns the textual response. Transient API errors are retried with a linear
// backoff up to the configured limit.
func (g *Generator) GenerateJSON(ctx context.Context, system, payload string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}
	if strings.TrimSpace(payload) == "" {
		return "", errors.New("payload must not be empty")
	}

	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: strings.TrimSpace(system) + "\n\n" + jsonFrame}},
		},
	}

	g.logger.Debug("gemini request",
		zap.Int("payload_length", len(payload)),
		zap.String("payload_preview", logger.TruncateForLog(payload, g.maxLogLen)),
	)

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(payload), config)
		if err == nil {
			output := collectText(resp)
			if output == "" {
				return "", errors.New("gemini api returned empty response")
			}
			g.logger.Debug("gemini response",
				zap.Int("response_length", len(output)),
				zap.String("response_preview", logger.TruncateForLog(output, g.maxLogLen)),
			)
			return output, nil
		}

		lastErr = err
		if !retryable(err) || attempt == g.maxRetries {
			break
		}

		g.logger.Warn("retrying gemini call",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		sleep(time.Duration(attempt) * time.Second)
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// retryable reports whether the API error is worth another attempt:
// server-side failures and rate limits, nothing else.
func retryable(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == 429 || (apiErr.Code >= 500 && apiErr.Code < 600)
}

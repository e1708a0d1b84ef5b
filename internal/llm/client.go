// Package llm sends the combined document text to an OpenAI-compatible
// chat-completion endpoint.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/docsight/docsight/internal/domain"
)

// apiKeyEnv is resolved at call time, not at startup: the whole extraction
// phase runs without a credential.
const apiKeyEnv = "OPENAI_API_KEY"

// Client is a completion provider using the OpenAI-compatible API.
type Client struct {
	baseURL string
	logger  *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	BaseURL string // empty = api.openai.com
	Logger  *zap.Logger
}

// NewClient creates an OpenAI-compatible completion client.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{baseURL: cfg.BaseURL, logger: logger}
}

// Complete sends one synchronous chat-completion request: the instruction
// prompt as the system message, the combined document text as the user
// message. Returns the first choice's content verbatim. No retries.
func (c *Client) Complete(ctx context.Context, spec domain.PromptSpec, content string) (string, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return "", domain.ErrMissingAPIKey
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		clientCfg.BaseURL = c.baseURL
	}
	client := openai.NewClientWithConfig(clientCfg)

	req := openai.ChatCompletionRequest{
		Model:       spec.Model,
		Temperature: wireTemperature(spec.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: spec.System},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	}

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion: %w", domain.ErrEmptyResponse)
	}

	c.logger.Info("completion received",
		zap.String("model", spec.Model),
		zap.Duration("latency", time.Since(start)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}

// wireTemperature keeps an exact zero on the wire. The request field is
// marshalled with omitempty, and an absent temperature means the provider's
// own sampling default, not greedy decoding.
func wireTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrCompletionFailed.
func parseAPIError(err error) error {
	wrap := domain.ErrCompletionFailed

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %v: %w", err, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}

package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI implements Client against an OpenAI-compatible chat-completion
// endpoint. It is constructed once at startup and shared by all callers.
type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI creates a new OpenAI gateway client. baseURL may be empty to
// use the provider default. Every call is bounded by timeout.
func NewOpenAI(apiKey, baseURL, model string, timeout time.Duration) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

// Complete sends a single chat completion and returns the raw content of
// the first choice. Transport and provider failures are mapped onto
// ErrTimeout / ErrUnavailable so callers can classify without knowing the
// provider.
func (g *OpenAI) Complete(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return Response{}, classify(err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("%w: response has no choices", ErrUnavailable)
	}
	return Response{Content: resp.Choices[0].Message.Content}, nil
}

// classify maps provider errors onto the gateway error taxonomy. Caller
// cancellation passes through untouched so the operation can be abandoned
// instead of degraded.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: status %d: %v", ErrUnavailable, apiErr.HTTPStatusCode, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// Package gateway defines the chat-completion boundary to the external
// language model. The model is distrusted: it makes no structural
// guarantees about its output, and callers must be prepared for any of
// the errors defined here on every call.
package gateway

import (
	"context"
	"errors"
)

// Common errors for gateway calls.
var (
	// ErrTimeout indicates the call exceeded its deadline.
	ErrTimeout = errors.New("gateway timeout")
	// ErrUnavailable indicates the provider returned a non-success
	// response or could not be reached.
	ErrUnavailable = errors.New("gateway unavailable")
)

// Request is a single chat-completion request.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
}

// Response carries the raw text returned by the model. Callers parse and
// validate it themselves.
type Response struct {
	Content string
}

// Client is the synchronous request/response interface to the model.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Package genai wraps the OpenAI chat completion API behind a small
// interface so the conversation flow can be tested without network access.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrNoAPIKey indicates the client was constructed without an API key.
var ErrNoAPIKey = errors.New("genai: OpenAI API key not set")

// maxCompletionTokens caps single-response length.
const maxCompletionTokens = 1024

// StreamHandler receives response text fragments as they arrive.
type StreamHandler func(delta string) error

// ClientInterface defines the operations the conversation flow needs from
// the language model.
type ClientInterface interface {
	// Generate runs a chat completion and returns the full response text.
	Generate(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion) (string, error)
	// GenerateStream runs a streaming chat completion, invoking handle for
	// every text fragment, and returns the accumulated response text.
	GenerateStream(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion, handle StreamHandler) (string, error)
}

// Client is the OpenAI-backed implementation of ClientInterface.
type Client struct {
	client openai.Client
}

// Opts holds configuration for creating a Client.
type Opts struct {
	APIKey string
}

// Option configures Opts.
type Option func(*Opts)

// WithAPIKey sets an explicit API key instead of reading OPENAI_API_KEY.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// NewClient creates a Client. Without WithAPIKey the OPENAI_API_KEY
// environment variable is used; a missing key is an error so that
// misconfiguration surfaces at startup rather than on the first request.
func NewClient(opts ...Option) (*Client, error) {
	var o Opts
	for _, opt := range opts {
		opt(&o)
	}
	if o.APIKey == "" {
		o.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if o.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	return &Client{client: openai.NewClient(option.WithAPIKey(o.APIKey))}, nil
}

// Generate implements ClientInterface.
func (c *Client) Generate(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(model),
		Messages:  messages,
		MaxTokens: openai.Int(maxCompletionTokens),
	})
	if err != nil {
		return "", fmt.Errorf("Client.Generate: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("Client.Generate: chat completion returned no choices")
	}
	content := resp.Choices[0].Message.Content
	slog.Debug("Client.Generate: completion received", "model", model, "responseLength", len(content))
	return content, nil
}

// GenerateStream implements ClientInterface. A handler error aborts the
// stream and is returned to the caller.
func (c *Client) GenerateStream(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion, handle StreamHandler) (string, error) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(model),
		Messages:  messages,
		MaxTokens: openai.Int(maxCompletionTokens),
	})
	defer stream.Close()

	var full string
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full += delta
		if handle != nil {
			if err := handle(delta); err != nil {
				return full, fmt.Errorf("Client.GenerateStream: handler aborted stream: %w", err)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return full, fmt.Errorf("Client.GenerateStream: stream failed: %w", err)
	}
	slog.Debug("Client.GenerateStream: stream complete", "model", model, "responseLength", len(full))
	return full, nil
}

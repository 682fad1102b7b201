package genai

import (
	"context"

	"github.com/openai/openai-go"
)

// MockClient is a scriptable ClientInterface for tests.
type MockClient struct {
	// Response is returned by Generate and streamed by GenerateStream when
	// the corresponding func field is nil.
	Response string
	// Err, when set, is returned by both operations.
	Err error
	// StreamChunks, when non-empty, is emitted by GenerateStream instead of
	// Response as a single fragment.
	StreamChunks []string

	// GenerateFn and GenerateStreamFn override the canned behavior entirely.
	GenerateFn       func(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion) (string, error)
	GenerateStreamFn func(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion, handle StreamHandler) (string, error)

	// LastModel and LastMessages record the most recent call.
	LastModel    string
	LastMessages []openai.ChatCompletionMessageParamUnion
}

// Generate implements ClientInterface.
func (m *MockClient) Generate(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	m.LastModel = model
	m.LastMessages = messages
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, model, messages)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// GenerateStream implements ClientInterface.
func (m *MockClient) GenerateStream(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion, handle StreamHandler) (string, error) {
	m.LastModel = model
	m.LastMessages = messages
	if m.GenerateStreamFn != nil {
		return m.GenerateStreamFn(ctx, model, messages, handle)
	}
	if m.Err != nil {
		return "", m.Err
	}
	chunks := m.StreamChunks
	if len(chunks) == 0 {
		chunks = []string{m.Response}
	}
	var full string
	for _, c := range chunks {
		full += c
		if handle != nil {
			if err := handle(c); err != nil {
				return full, err
			}
		}
	}
	return full, nil
}

package chat

import (
	"context"
	"fmt"
)

// LLMProvider is an interface for LLM API providers.
type LLMProvider interface {
	// Call makes an LLM API call.
	Call(ctx context.Context, request LLMRequest) (*LLMResponse, error)

	// Provider returns the provider name.
	Provider() string
}

// LLMRequest contains the request parameters for an LLM call. Messages
// includes the system message; providers place it wherever their API wants
// it.
type LLMRequest struct {
	Model       string
	Messages    []Message
	Tools       []ToolDefinition
	Temperature float64
	MaxTokens   int
}

// LLMResponse contains the response from the LLM.
type LLMResponse struct {
	Content   string
	ToolCalls []ToolCall
	Usage     *TokenUsage
}

// NewProvider creates an LLM provider by name.
func NewProvider(name, apiKey string) (LLMProvider, error) {
	switch name {
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

package chat

import (
	"context"
	"encoding/json"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single conversation turn.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a model-issued request to invoke a named tool. Arguments stay
// raw JSON until the registry validates them.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition is the model-facing description of a tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

// TokenUsage tracks token consumption for one model call.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Conversation is the engine's view of a session: ordered history plus loop
// bookkeeping. Implemented by session.Session.
type Conversation interface {
	// History returns the ordered message history.
	History() []Message

	// Append adds messages to the end of the history.
	Append(msgs ...Message)

	// EnsureSystemPrompt inserts a system message at position 0 if the
	// history does not already contain one.
	EnsureSystemPrompt(prompt string)

	// RecordRound increments the session's loop iteration counter.
	RecordRound()
}

// ToolDispatcher validates and executes tool calls for one session.
// Implemented by tools.SessionDispatcher.
type ToolDispatcher interface {
	// Definitions returns the tool definitions advertised to the model.
	Definitions() []ToolDefinition

	// Dispatch executes one tool call and returns a JSON payload: a
	// structured success, empty, or error object. It never panics and
	// never returns invalid JSON.
	Dispatch(ctx context.Context, call ToolCall) json.RawMessage
}

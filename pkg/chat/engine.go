package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	// DefaultMaxRounds bounds model/tool round-trips per user turn.
	DefaultMaxRounds = 6

	// FallbackReply is returned when the model terminates without text.
	FallbackReply = "I'm sorry, I couldn't understand that. Please try again."

	// LoopExceededReply is returned when the round cap is reached.
	LoopExceededReply = "I'm sorry, I wasn't able to complete your request. Please try rephrasing or simplifying it."
)

// DefaultSystemPrompt instructs the model how to use the travel tools.
const DefaultSystemPrompt = `You are a helpful AI assistant that helps users search and book flights and hotels.

- When the user requests flights or hotels, the full result list is stored for you; refer to results by their IDs.
- If the user wants to book a flight, use the stored booking ID from a previous search instead of calling 'search_flights' again.
- If the user wants to book a hotel, first use 'search_hotels' to find available hotels.
- To get available rooms or offers, use 'search_hotel_offers' with the correct hotel ID.
- Use 'get_next_hotel_results' to show more hotels from the last search.
- Never invent IDs; only use IDs returned by a previous tool call.`

// Engine runs the orchestration loop for one user turn at a time.
type Engine struct {
	provider     LLMProvider
	model        string
	temperature  float64
	maxTokens    int
	systemPrompt string
	maxRounds    int
	logger       zerolog.Logger
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	Provider     LLMProvider
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
	MaxRounds    int
	Logger       zerolog.Logger
}

// NewEngine creates an orchestration engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("LLM provider is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	return &Engine{
		provider:     cfg.Provider,
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		systemPrompt: systemPrompt,
		maxRounds:    maxRounds,
		logger:       cfg.Logger,
	}, nil
}

// CallOptions are per-turn overrides supplied by the client.
type CallOptions struct {
	Model       string
	Temperature *float64
}

// Respond drives one user turn to completion: it invokes the model, executes
// any tool calls through the dispatcher, and repeats until the model answers
// in plain text or the round cap is hit. The final assistant message is
// appended to the conversation and its text returned.
func (e *Engine) Respond(ctx context.Context, conv Conversation, disp ToolDispatcher, opts CallOptions) (string, error) {
	conv.EnsureSystemPrompt(e.systemPrompt)

	model := e.model
	if opts.Model != "" {
		model = opts.Model
	}
	temperature := e.temperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}

	tools := disp.Definitions()

	for round := 0; round < e.maxRounds; round++ {
		conv.RecordRound()

		response, err := e.provider.Call(ctx, LLMRequest{
			Model:       model,
			Messages:    conv.History(),
			Tools:       tools,
			Temperature: temperature,
			MaxTokens:   e.maxTokens,
		})
		if err != nil {
			return "", fmt.Errorf("model call failed: %w", err)
		}

		// Terminal reply: no tool calls.
		if len(response.ToolCalls) == 0 {
			text := response.Content
			if strings.TrimSpace(text) == "" {
				text = FallbackReply
			}
			conv.Append(Message{Role: RoleAssistant, Content: text})
			return text, nil
		}

		e.logger.Debug().
			Int("round", round+1).
			Int("tool_calls", len(response.ToolCalls)).
			Msg("Executing tool calls")

		conv.Append(Message{
			Role:      RoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		conv.Append(e.runToolCalls(ctx, disp, response.ToolCalls)...)
	}

	e.logger.Warn().Int("max_rounds", e.maxRounds).Msg("Round cap reached, terminating turn")

	conv.Append(Message{Role: RoleAssistant, Content: LoopExceededReply})
	return LoopExceededReply, nil
}

// runToolCalls executes the calls of one assistant turn concurrently and
// returns their tool messages in the order the model emitted the calls.
func (e *Engine) runToolCalls(ctx context.Context, disp ToolDispatcher, calls []ToolCall) []Message {
	results := make([]Message, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call ToolCall) {
			defer wg.Done()
			payload := disp.Dispatch(ctx, call)
			results[i] = Message{
				Role:       RoleTool,
				Content:    string(payload),
				ToolCallID: call.ID,
			}
		}(i, call)
	}
	wg.Wait()

	return results
}

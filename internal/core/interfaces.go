package core

import (
	"context"
)

// LLMClient abstracts the low-level chat-completions client (OpenRouter, local LLM, etc).
type LLMClient interface {
	ChatCompletion(ctx context.Context, messages []Message) (string, error)
	ChatCompletionWithTools(ctx context.Context, messages []Message, tools []ToolDefinition) (string, []ToolCall, error)
}

// ToolExecutor abstracts tool execution. Execute returns a JSON result string;
// tool failures come back as {"error": ...} payloads, not as Go errors, so the
// model can see and react to them.
type ToolExecutor interface {
	Execute(ctx context.Context, name, argsJSON string) (string, error)
	Definitions() []ToolDefinition
}

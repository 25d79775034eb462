package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/parley/parley/internal/core"
)

// ToolDefinition is a function tool for the API (OpenAI-compatible).
type ToolDefinition = core.ToolDefinition

// FunctionSpec describes a callable function.
type FunctionSpec = core.FunctionSpec

// ToolCall is a single tool call from the model.
type ToolCall = core.ToolCall

// ChatRequestWithTools extends the request with optional tools.
type ChatRequestWithTools struct {
	Model      string           `json:"model"`
	Messages   []Message        `json:"messages"`
	Tools      []ToolDefinition `json:"tools,omitempty"`
	ToolChoice interface{}      `json:"tool_choice,omitempty"` // "auto" or object
}

// ChatResponseWithTools includes tool_calls in the choice message.
type ChatResponseWithTools struct {
	Choices []struct {
		Message struct {
			Content   json.RawMessage `json:"content"`
			Role      string          `json:"role"`
			ToolCalls []ToolCall      `json:"tool_calls,omitempty"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ChatCompletionWithTools sends messages and optional tools; returns content and any tool_calls.
func (c *Client) ChatCompletionWithTools(ctx context.Context, messages []Message, tools []ToolDefinition) (content string, toolCalls []ToolCall, err error) {
	if c.APIKey == "" {
		return "", nil, fmt.Errorf("openrouter: API key not set")
	}
	if c.Model == "" {
		return "", nil, fmt.Errorf("openrouter: model not set")
	}
	body := ChatRequestWithTools{
		Model:    c.Model,
		Messages: messages,
		Tools:    tools,
	}
	if len(tools) > 0 {
		body.ToolChoice = "auto"
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", nil, err
	}

	status, bodyBytes, err := c.do(ctx, raw)
	if err != nil {
		return "", nil, err
	}
	if status != http.StatusOK {
		return "", nil, fmt.Errorf("openrouter: HTTP %d: %s", status, string(bodyBytes))
	}
	var out ChatResponseWithTools
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return "", nil, fmt.Errorf("openrouter: decode: %w", err)
	}
	if out.Error != nil {
		return "", nil, fmt.Errorf("openrouter: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", nil, fmt.Errorf("openrouter: no choices in response (body: %s)", string(bodyBytes))
	}
	msg := out.Choices[0].Message
	content = parseContent(msg.Content)
	if content == "" && len(msg.Content) > 0 && msg.Content[0] == '[' {
		content = parseContentArrayGeneric(msg.Content)
	}
	return content, msg.ToolCalls, nil
}

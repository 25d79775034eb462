package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/parley/parley/internal/core"
)

// BaseURL is the API endpoint; var so tests can point at a stub server.
var BaseURL = "https://openrouter.ai/api/v1"

// parseContent parses API content that may be string, null, or array of parts (e.g. [{"type":"text","text":"..."}]).
func parseContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	// Try string first
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// Try array of parts with type+text
	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parts); err == nil {
		var b strings.Builder
		for _, p := range parts {
			if p.Type == "text" {
				b.WriteString(p.Text)
			}
		}
		return b.String()
	}
	return parseContentArrayGeneric(raw)
}

// parseContentArrayGeneric extracts text from an array of objects that may have a "text" key.
func parseContentArrayGeneric(raw json.RawMessage) string {
	var parts []map[string]interface{}
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}
	var b strings.Builder
	for _, p := range parts {
		if t, ok := p["text"].(string); ok {
			b.WriteString(t)
		}
	}
	return b.String()
}

// Message represents a chat message (OpenRouter/OpenAI format).
type Message = core.Message

// ChatRequest is the request body for chat completions.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// ChatResponse is the response from chat completions.
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
			Role    string          `json:"role"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client calls the OpenRouter API.
type Client struct {
	APIKey string
	Model  string
	HTTP   *http.Client
}

// NewClient creates a client with the given API key and model.
func NewClient(apiKey, model string) *Client {
	return &Client{
		APIKey: apiKey,
		Model:  model,
		HTTP:   http.DefaultClient,
	}
}

// do posts raw to the chat-completions endpoint and returns the status code
// and response body. Transient failures (network errors, 429, 5xx) are
// retried with exponential backoff; backoff waits abort on ctx cancellation
// so a timed-out call returns instead of sleeping out the schedule.
func (c *Client) do(ctx context.Context, raw []byte) (int, []byte, error) {
	maxRetries := 3
	backoff := 1 * time.Second
	var resp *http.Response
	var lastErr error
	var bodyBytes []byte

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[OPENROUTER] Retry %d/%d after %v...", attempt, maxRetries, backoff)
			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, BaseURL+"/chat/completions", bytes.NewReader(raw))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.APIKey)

		resp, lastErr = c.HTTP.Do(req)
		if lastErr != nil {
			if ctx.Err() != nil {
				return 0, nil, ctx.Err()
			}
			log.Printf("[OPENROUTER] Network error: %v", lastErr)
			continue
		}

		bodyBytes, _ = io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			log.Printf("[OPENROUTER] Retryable error: HTTP %d", resp.StatusCode)
			continue
		}
		break
	}

	if lastErr != nil {
		return 0, nil, fmt.Errorf("openrouter: request failed after %d retries: %w", maxRetries, lastErr)
	}
	if resp == nil {
		return 0, nil, fmt.Errorf("openrouter: request failed after %d retries", maxRetries)
	}
	return resp.StatusCode, bodyBytes, nil
}

// ChatCompletion sends messages to OpenRouter and returns the assistant reply content.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("openrouter: API key not set")
	}
	if c.Model == "" {
		return "", fmt.Errorf("openrouter: model not set")
	}
	raw, err := json.Marshal(ChatRequest{Model: c.Model, Messages: messages})
	if err != nil {
		return "", err
	}

	status, body, err := c.do(ctx, raw)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("openrouter: HTTP %d: %s", status, string(body))
	}
	var out ChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("openrouter: decode: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("openrouter: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openrouter: no choices in response")
	}
	return parseContent(out.Choices[0].Message.Content), nil
}

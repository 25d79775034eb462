// Package agent runs one conversational turn: load the thread's transcript,
// append the user message, call the model (executing any requested tools in
// between), checkpoint the grown transcript, and return the final answer.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/parley/parley/internal/config"
	"github.com/parley/parley/internal/core"
	"github.com/parley/parley/internal/store"
)

// Loop orchestrates turns: transcript + user msg -> model with tools ->
// execute tool_calls -> repeat until no tool_calls -> checkpoint and return.
type Loop struct {
	Config   *config.Config
	DB       *store.DB
	Client   core.LLMClient
	Executor core.ToolExecutor
}

// limitReachedAnswer is returned when a turn exhausts its tool rounds and the
// forced final model call also fails.
const limitReachedAnswer = "I hit the tool-call limit for this request before finishing. Please try a simpler ask or break it into separate messages."

// SubmitTurn runs one turn for threadID and returns the final answer.
//
// The full transcript (prior history plus everything this turn produced,
// including tool round-trips) is committed as one checkpoint only when the
// turn completes; a failed turn leaves the prior checkpoint as the latest
// state. Concurrent turns on distinct thread ids are independent; callers
// that allow concurrent submissions on one thread id must serialize them
// themselves.
func (l *Loop) SubmitTurn(ctx context.Context, threadID, userText string) (string, error) {
	if threadID == "" {
		return "", fmt.Errorf("thread id is required")
	}

	transcript, err := l.DB.LatestTranscript(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("loading thread %s: %w", threadID, err)
	}
	transcript = append(transcript, core.Message{Role: "user", Content: userText})

	toolDefs := l.Executor.Definitions()
	maxRounds := l.Config.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = config.DefaultMaxToolRounds
	}

	var final string
	for round := 0; ; round++ {
		if round >= maxRounds {
			// Runaway tool loop: stop offering tools and force a best-effort answer.
			log.Printf("[AGENT] max tool rounds (%d) reached for thread %s", maxRounds, threadID)
			content, ferr := l.finalWithoutTools(ctx, transcript)
			if ferr != nil || strings.TrimSpace(content) == "" {
				log.Printf("[AGENT] forced final answer failed: %v", ferr)
				content = limitReachedAnswer
			}
			transcript = append(transcript, core.Message{Role: "assistant", Content: content})
			final = content
			break
		}

		content, toolCalls, err := l.chatWithTools(ctx, transcript, toolDefs)
		if err != nil {
			return "", fmt.Errorf("model call: %w", err)
		}

		if len(toolCalls) == 0 {
			transcript = append(transcript, core.Message{Role: "assistant", Content: content})
			final = content
			break
		}

		var toolNames []string
		for _, tc := range toolCalls {
			toolNames = append(toolNames, tc.Function.Name)
		}
		log.Printf("[AGENT] thread %s: executing %d tool calls: %s", threadID, len(toolCalls), strings.Join(toolNames, ", "))

		transcript = append(transcript, core.Message{Role: "assistant", Content: content, ToolCalls: toolCalls})
		for _, tc := range toolCalls {
			result, execErr := l.Executor.Execute(ctx, tc.Function.Name, tc.Function.Arguments)
			if execErr != nil {
				b, _ := json.Marshal(map[string]string{"error": execErr.Error()})
				result = string(b)
			}
			transcript = append(transcript, core.Message{Role: "tool", Content: result, ToolCallID: tc.ID})
		}
	}

	if err := l.DB.SaveCheckpoint(ctx, threadID, transcript); err != nil {
		return "", fmt.Errorf("persisting turn for thread %s: %w", threadID, err)
	}

	// Title assignment is best-effort and must never fail the turn.
	l.EnsureTitle(ctx, threadID, transcript)

	return final, nil
}

// chatWithTools runs one model call under the configured timeout.
func (l *Loop) chatWithTools(ctx context.Context, transcript []core.Message, toolDefs []core.ToolDefinition) (string, []core.ToolCall, error) {
	mctx, cancel := context.WithTimeout(ctx, l.modelTimeout())
	defer cancel()
	return l.Client.ChatCompletionWithTools(mctx, transcript, toolDefs)
}

// finalWithoutTools asks for a plain completion after the tool-round cap.
// Tool plumbing (tool results, empty assistant turns) is filtered out since
// the request carries no tool definitions.
func (l *Loop) finalWithoutTools(ctx context.Context, transcript []core.Message) (string, error) {
	var simple []core.Message
	for _, m := range transcript {
		if m.Role == "tool" {
			continue
		}
		if m.Role == "assistant" && strings.TrimSpace(m.Content) == "" {
			continue
		}
		simple = append(simple, core.Message{Role: m.Role, Content: m.Content})
	}
	mctx, cancel := context.WithTimeout(ctx, l.modelTimeout())
	defer cancel()
	return l.Client.ChatCompletion(mctx, simple)
}

func (l *Loop) modelTimeout() time.Duration {
	if l.Config != nil && l.Config.ModelTimeout > 0 {
		return l.Config.ModelTimeout
	}
	return config.DefaultModelTimeout
}

// ListThreads returns all thread ids with at least one checkpoint.
func (l *Loop) ListThreads(ctx context.Context) ([]string, error) {
	return l.DB.ListThreadIDs(ctx)
}

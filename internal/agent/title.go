package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/parley/parley/internal/core"
)

// FallbackTitle is assigned when the first user message is empty or title
// generation fails.
const FallbackTitle = "New Conversation"

const titlePrompt = "Generate a short, capitalized title (max 6 words) that summarizes this message:\n\n%s\n\nTitle:"

// EnsureTitle returns the thread's cached title, generating and persisting
// one from the first user message if no record exists yet. A cached title is
// returned unchanged without issuing a model call. Generation failures degrade
// to FallbackTitle, a failed lookup degrades to the raw thread id, and neither
// is surfaced to the enclosing turn.
func (l *Loop) EnsureTitle(ctx context.Context, threadID string, transcript []core.Message) string {
	existing, err := l.DB.ThreadTitle(ctx, threadID)
	if err != nil {
		// A failed read says nothing about whether a title exists; regenerating
		// here could clobber one that does. Degrade to the thread id instead.
		log.Printf("[AGENT] title lookup for %s failed: %v", threadID, err)
		return threadID
	}
	if existing != "" {
		return existing
	}

	title := l.generateTitle(ctx, transcript)
	// Last-writer-wins upsert: two concurrent first turns on a new thread id
	// overwrite each other silently.
	if err := l.DB.SaveThreadTitle(ctx, threadID, title); err != nil {
		log.Printf("[AGENT] saving title for %s failed: %v", threadID, err)
	}
	return title
}

// generateTitle summarizes the first user message into a short title.
func (l *Loop) generateTitle(ctx context.Context, transcript []core.Message) string {
	var userMsg string
	for _, m := range transcript {
		if m.Role == "user" {
			userMsg = m.Content
			break
		}
	}
	if strings.TrimSpace(userMsg) == "" {
		return FallbackTitle
	}

	mctx, cancel := context.WithTimeout(ctx, l.modelTimeout())
	defer cancel()
	resp, err := l.Client.ChatCompletion(mctx, []core.Message{
		{Role: "user", Content: fmt.Sprintf(titlePrompt, userMsg)},
	})
	if err != nil {
		log.Printf("[AGENT] title generation failed: %v", err)
		return FallbackTitle
	}
	title := strings.TrimSpace(strings.Trim(strings.TrimSpace(resp), `"'`))
	if title == "" {
		return FallbackTitle
	}
	return title
}

// GetTitle returns the stored title for threadID, falling back to the raw
// thread id when no record exists or the read fails.
func (l *Loop) GetTitle(ctx context.Context, threadID string) string {
	title, err := l.DB.ThreadTitle(ctx, threadID)
	if err != nil || title == "" {
		return threadID
	}
	return title
}

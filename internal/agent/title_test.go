package agent

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/parley/parley/internal/config"
	"github.com/parley/parley/internal/core"
	"github.com/parley/parley/internal/store"
	"github.com/parley/parley/internal/tools"
)

func TestEnsureTitle_GeneratesOnceAndCaches(t *testing.T) {
	client := &funcClient{
		plain: func(call int, messages []core.Message) (string, error) {
			return `"Weather In Tokyo"`, nil
		},
	}
	loop := newTestLoop(t, client)
	ctx := context.Background()
	transcript := []core.Message{
		{Role: "user", Content: "What's the weather in Tokyo?"},
		{Role: "assistant", Content: "Sunny."},
	}

	title := loop.EnsureTitle(ctx, "t1", transcript)
	if title != "Weather In Tokyo" {
		t.Errorf("title = %q, want quotes stripped", title)
	}

	// Second call returns the cached record without another model call
	title = loop.EnsureTitle(ctx, "t1", transcript)
	if title != "Weather In Tokyo" {
		t.Errorf("cached title = %q", title)
	}
	if _, plainCalls := client.counts(); plainCalls != 1 {
		t.Errorf("model calls for title = %d, want 1", plainCalls)
	}
}

func TestEnsureTitle_WhitespaceFirstMessage(t *testing.T) {
	client := &funcClient{
		plain: func(call int, messages []core.Message) (string, error) {
			t.Error("no model call expected for a whitespace-only first message")
			return "", nil
		},
	}
	loop := newTestLoop(t, client)

	title := loop.EnsureTitle(context.Background(), "t1", []core.Message{
		{Role: "user", Content: "   \t"},
	})
	if title != FallbackTitle {
		t.Errorf("title = %q, want %q", title, FallbackTitle)
	}
}

func TestEnsureTitle_ModelFailureDegrades(t *testing.T) {
	client := &funcClient{
		plain: func(call int, messages []core.Message) (string, error) {
			return "", fmt.Errorf("provider down")
		},
	}
	loop := newTestLoop(t, client)

	title := loop.EnsureTitle(context.Background(), "t1", []core.Message{
		{Role: "user", Content: "Tell me about Go"},
	})
	if title != FallbackTitle {
		t.Errorf("title = %q, want %q", title, FallbackTitle)
	}
}

func TestEnsureTitle_EmptyModelResponseDegrades(t *testing.T) {
	client := &funcClient{
		plain: func(call int, messages []core.Message) (string, error) {
			return `""`, nil
		},
	}
	loop := newTestLoop(t, client)

	title := loop.EnsureTitle(context.Background(), "t1", []core.Message{
		{Role: "user", Content: "Tell me about Go"},
	})
	if title != FallbackTitle {
		t.Errorf("title = %q, want %q", title, FallbackTitle)
	}
}

func TestEnsureTitle_ReadFailureDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "parley.db")
	db, err := store.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.SaveThreadTitle(ctx, "t1", "Kept Title"); err != nil {
		t.Fatal(err)
	}

	client := &funcClient{
		plain: func(call int, messages []core.Message) (string, error) {
			t.Error("no model call expected when the title lookup fails")
			return "Clobbered Title", nil
		},
	}
	tools.Init(&config.Config{})
	loop := &Loop{
		Config:   &config.Config{MaxToolRounds: 10, ModelTimeout: 5 * time.Second},
		DB:       db,
		Client:   client,
		Executor: &tools.Executor{},
	}

	// A closed handle makes every lookup fail; the existing record must
	// survive untouched.
	db.Close()
	title := loop.EnsureTitle(ctx, "t1", []core.Message{
		{Role: "user", Content: "Tell me about Go"},
	})
	if title != "t1" {
		t.Errorf("title = %q, want raw thread id on lookup failure", title)
	}

	reopened, err := store.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.ThreadTitle(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Kept Title" {
		t.Errorf("stored title = %q, want %q", got, "Kept Title")
	}
}

func TestGetTitle_FallsBackToThreadID(t *testing.T) {
	loop := newTestLoop(t, &funcClient{})
	ctx := context.Background()

	if got := loop.GetTitle(ctx, "mystery-thread"); got != "mystery-thread" {
		t.Errorf("GetTitle = %q, want raw thread id", got)
	}

	if err := loop.DB.SaveThreadTitle(ctx, "known", "Known Topic"); err != nil {
		t.Fatal(err)
	}
	if got := loop.GetTitle(ctx, "known"); got != "Known Topic" {
		t.Errorf("GetTitle = %q", got)
	}
}

func TestSubmitTurn_AssignsTitleOnFirstTurn(t *testing.T) {
	client := &funcClient{
		withTools: func(call int, messages []core.Message) (string, []core.ToolCall, error) {
			return "hello!", nil, nil
		},
		plain: func(call int, messages []core.Message) (string, error) {
			return "Friendly Greeting", nil
		},
	}
	loop := newTestLoop(t, client)
	ctx := context.Background()

	if _, err := loop.SubmitTurn(ctx, "t1", "hi there"); err != nil {
		t.Fatal(err)
	}
	if got := loop.GetTitle(ctx, "t1"); got != "Friendly Greeting" {
		t.Errorf("title after first turn = %q", got)
	}

	// Later turns never regenerate
	if _, err := loop.SubmitTurn(ctx, "t1", "and again"); err != nil {
		t.Fatal(err)
	}
	if _, plainCalls := client.counts(); plainCalls != 1 {
		t.Errorf("title model calls = %d, want 1", plainCalls)
	}
}

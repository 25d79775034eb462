// Parley is a persistent tool-calling chat core: thread transcripts live in
// SQLite, the model runs through OpenRouter, and tools (calculator, stock
// quote, web search) execute mid-turn. The CLI is one thin caller; a chat UI
// can drive the same agent loop.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/parley/parley/internal/agent"
	"github.com/parley/parley/internal/config"
	"github.com/parley/parley/internal/openrouter"
	"github.com/parley/parley/internal/store"
	"github.com/parley/parley/internal/tools"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := config.New("")
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", cfg.DBPath, err)
	}
	defer db.Close()

	tools.Init(cfg)
	loop := &agent.Loop{
		Config:   cfg,
		DB:       db,
		Client:   openrouter.NewClient(cfg.OpenRouterAPIKey, cfg.Model),
		Executor: &tools.Executor{},
	}

	return newCLIApp(loop).Run(args)
}

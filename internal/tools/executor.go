package tools

import (
	"context"
	"fmt"
	"log"

	"github.com/parley/parley/internal/core"
)

// Executor dispatches tool calls by name against the registry.
type Executor struct{}

// Execute runs the tool by name with the given JSON arguments; returns a JSON
// result. An unknown name or a panicking tool becomes an {"error": ...}
// result rather than an error, so the turn loop can feed it back to the model.
func (e *Executor) Execute(ctx context.Context, name, argsJSON string) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[TOOLS] %s panicked: %v", name, r)
			result = ErrJSON(fmt.Errorf("tool %s panicked: %v", name, r))
			err = nil
		}
	}()

	tool, ok := Registry[name]
	if !ok {
		return ErrJSON(fmt.Errorf("unknown tool: %s", name)), nil
	}
	return tool.Execute(ctx, argsJSON)
}

// Definitions returns the tool definitions for all registered tools.
func (e *Executor) Definitions() []core.ToolDefinition {
	defs := make([]core.ToolDefinition, 0, len(Registry))
	for _, t := range Registry {
		defs = append(defs, t.Definition())
	}
	return defs
}

// Ensure Executor implements the executor contract.
var _ core.ToolExecutor = (*Executor)(nil)

package tools

import (
	"context"
	"encoding/json"

	"github.com/parley/parley/internal/config"
	"github.com/parley/parley/internal/core"
)

// Tool represents a modular tool implementation. Execute returns a JSON
// result string; failures are reported as {"error": ...} payloads so the
// model can react, never as Go errors or panics.
type Tool interface {
	Name() string
	Definition() core.ToolDefinition
	Execute(ctx context.Context, argsJSON string) (string, error)
}

// Registry holds all registered built-in tools.
var Registry = map[string]Tool{}

// Register adds a tool to the registry.
func Register(t Tool) {
	Registry[t.Name()] = t
}

// Init registers the built-in tools that require configuration.
func Init(cfg *config.Config) {
	Register(&CalculatorTool{})
	Register(&StockQuoteTool{APIKey: cfg.AlphaVantageAPIKey})
	Register(&WebSearchTool{})
}

// ErrJSON converts an error into a structured tool result.
func ErrJSON(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}

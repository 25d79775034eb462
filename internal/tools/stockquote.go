package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/parley/parley/internal/core"
)

// alphaVantageURL is the quote endpoint; var so tests can point at a stub server.
var alphaVantageURL = "https://www.alphavantage.co/query"

// StockQuoteTool fetches the latest quote for a ticker symbol from Alpha Vantage.
// The provider response is passed through verbatim, error bodies included.
type StockQuoteTool struct {
	APIKey string
	HTTP   *http.Client
}

func (t *StockQuoteTool) Name() string {
	return "get_stock_price"
}

func (t *StockQuoteTool) Definition() core.ToolDefinition {
	return core.ToolDefinition{
		Type: "function",
		Function: core.FunctionSpec{
			Name:        "get_stock_price",
			Description: "Fetch the latest stock price for a given ticker symbol (e.g. 'AAPL', 'TSLA') using Alpha Vantage.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"symbol": map[string]interface{}{"type": "string", "description": "Ticker symbol"},
				},
				"required": []string{"symbol"},
			},
		},
	}
}

func (t *StockQuoteTool) httpClient() *http.Client {
	if t.HTTP != nil {
		return t.HTTP
	}
	return &http.Client{Timeout: 15 * time.Second}
}

func (t *StockQuoteTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Symbol string `json:"symbol"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return ErrJSON(err), nil
	}
	if t.APIKey == "" {
		return ErrJSON(fmt.Errorf("ALPHAVANTAGE_API_KEY not set in environment")), nil
	}
	if args.Symbol == "" {
		return ErrJSON(fmt.Errorf("symbol is required")), nil
	}

	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", args.Symbol)
	q.Set("apikey", t.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, alphaVantageURL+"?"+q.Encode(), nil)
	if err != nil {
		return ErrJSON(err), nil
	}
	resp, err := t.httpClient().Do(req)
	if err != nil {
		return ErrJSON(err), nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrJSON(err), nil
	}
	if !json.Valid(body) {
		return ErrJSON(fmt.Errorf("alphavantage: HTTP %d: invalid response body", resp.StatusCode)), nil
	}
	// Provider responses (including provider error payloads) pass through unmodified.
	return string(body), nil
}

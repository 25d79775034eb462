package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/parley/parley/internal/core"
)

// duckDuckGoURL is the Instant Answer endpoint; var so tests can point at a stub server.
var duckDuckGoURL = "https://api.duckduckgo.com/"

// WebSearchTool queries the DuckDuckGo Instant Answer API and flattens the
// response to text for the model.
type WebSearchTool struct {
	HTTP *http.Client
}

func (t *WebSearchTool) Name() string {
	return "web_search"
}

func (t *WebSearchTool) Definition() core.ToolDefinition {
	return core.ToolDefinition{
		Type: "function",
		Function: core.FunctionSpec{
			Name:        "web_search",
			Description: "Search the web for a query and return result snippets as text.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{"type": "string", "description": "Search query"},
				},
				"required": []string{"query"},
			},
		},
	}
}

// searchResponse is the subset of the Instant Answer payload we surface.
type searchResponse struct {
	Heading       string `json:"Heading"`
	AbstractText  string `json:"AbstractText"`
	Answer        string `json:"Answer"`
	Definition    string `json:"Definition"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

func (t *WebSearchTool) httpClient() *http.Client {
	if t.HTTP != nil {
		return t.HTTP
	}
	return &http.Client{Timeout: 15 * time.Second}
}

func (t *WebSearchTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return ErrJSON(err), nil
	}
	if strings.TrimSpace(args.Query) == "" {
		return ErrJSON(fmt.Errorf("query is required")), nil
	}

	q := url.Values{}
	q.Set("q", args.Query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, duckDuckGoURL+"?"+q.Encode(), nil)
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
	if resp.StatusCode != http.StatusOK {
		return ErrJSON(fmt.Errorf("duckduckgo: HTTP %d", resp.StatusCode)), nil
	}
	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return ErrJSON(fmt.Errorf("duckduckgo: decode: %w", err)), nil
	}

	var lines []string
	for _, s := range []string{sr.Answer, sr.AbstractText, sr.Definition} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	for _, rt := range sr.RelatedTopics {
		if rt.Text != "" {
			lines = append(lines, rt.Text)
		}
		if len(lines) >= 8 {
			break
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "No results found.")
	}

	out, err := json.Marshal(map[string]string{
		"query":   args.Query,
		"results": strings.Join(lines, "\n"),
	})
	if err != nil {
		return ErrJSON(err), nil
	}
	return string(out), nil
}

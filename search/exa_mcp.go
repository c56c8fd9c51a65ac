// Copyright (c) 2025 Beijing Volcano Engine Technology Co., Ltd. and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/utils"
)

const (
	exaMCPUntitled = "Untitled"
	exaMCPNoURL    = "#"
)

// ExaMCPProvider calls the web search tool of Exa's hosted MCP server.
type ExaMCPProvider struct {
	cfg        configs.ExaMCPConfig
	httpClient *http.Client
	client     *mcp.Client
}

type headerRoundTripper struct {
	base   http.RoundTripper
	header http.Header
}

func (rt *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	base := rt.base
	if base == nil {
		base = http.DefaultTransport
	}
	cloned := req.Clone(req.Context())
	for k, vs := range rt.header {
		for _, v := range vs {
			cloned.Header.Set(k, v)
		}
	}
	return base.RoundTrip(cloned)
}

func NewExaMCPProvider(cfg *configs.ExaMCPConfig, client *http.Client) (*ExaMCPProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("exa_mcp: config is nil")
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("exa_mcp: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	authed := &http.Client{
		Timeout:       client.Timeout,
		Jar:           client.Jar,
		CheckRedirect: client.CheckRedirect,
		Transport: &headerRoundTripper{
			base:   client.Transport,
			header: http.Header{"Exa-Api-Key": []string{cfg.APIKey}},
		},
	}
	return &ExaMCPProvider{
		cfg:        *cfg,
		httpClient: authed,
		client:     mcp.NewClient(&mcp.Implementation{Name: "vesearch", Version: "v1.0.0"}, nil),
	}, nil
}

func (p *ExaMCPProvider) Name() string {
	return ProviderExaMCP
}

// Search opens a short-lived MCP session per call; sessions are not shared
// between requests.
func (p *ExaMCPProvider) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	session, err := p.client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint:   p.cfg.Endpoint,
		HTTPClient: p.httpClient,
		MaxRetries: 1,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("exa_mcp: failed to connect to %s: %w", p.cfg.Endpoint, err)
	}
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: p.cfg.ToolName,
		Arguments: map[string]any{
			"query":      query,
			"numResults": numResults,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("exa_mcp: call %s failed: %w", p.cfg.ToolName, err)
	}

	text := toolText(res)
	if res.IsError {
		return nil, fmt.Errorf("exa_mcp: tool error: %s", text)
	}

	results, err := parseExaMCPText(text)
	if err != nil {
		return nil, fmt.Errorf("exa_mcp: %w", err)
	}
	for i := range results {
		if results[i].Title == "" {
			results[i].Title = exaMCPUntitled
		}
		if results[i].URL == "" {
			results[i].URL = exaMCPNoURL
		}
		results[i].Content = utils.Truncate(results[i].Content, p.cfg.ContentChars)
	}
	return limit(results, numResults), nil
}

func toolText(res *mcp.CallToolResult) string {
	if res == nil {
		return ""
	}
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

var errUnrecognizedToolOutput = errors.New("unrecognized tool output")

// parseExaMCPText accepts both the JSON payload of older server releases and
// the "Title:/URL:/Text:" text blocks of newer ones.
func parseExaMCPText(text string) ([]Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if strings.HasPrefix(text, "{") {
		var payload struct {
			Results []struct {
				Title string `json:"title"`
				URL   string `json:"url"`
				Text  string `json:"text"`
			} `json:"results"`
		}
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			return nil, fmt.Errorf("failed to decode tool output: %w", err)
		}
		results := make([]Result, 0, len(payload.Results))
		for _, r := range payload.Results {
			results = append(results, Result{Title: strings.TrimSpace(r.Title), Content: r.Text, URL: r.URL})
		}
		return results, nil
	}

	blocks := parseLabeledBlocks(text, "Title", "Title", "URL", "Published Date", "Author", "Text")
	if len(blocks) == 0 {
		return nil, errUnrecognizedToolOutput
	}
	results := make([]Result, 0, len(blocks))
	for _, b := range blocks {
		results = append(results, Result{Title: b["Title"], Content: b["Text"], URL: b["URL"]})
	}
	return results, nil
}

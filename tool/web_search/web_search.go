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

// Package web_search exposes a search.Provider to adk agents as the
// web_search function tool.
package web_search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/volcengine/vesearch-go/common"
	"github.com/volcengine/vesearch-go/log"
	"github.com/volcengine/vesearch-go/search"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

const ToolName = "web_search"

var ErrEmptyQuery = errors.New("web_search: query is empty")

type WebSearchArgs struct {
	Query string `json:"query" jsonschema:"The query to search"`
}

type WebSearchResult struct {
	Results []search.Result `json:"results"`
}

type Config struct {
	Provider   search.Provider
	NumResults int
}

func (c *Config) handle(ctx context.Context, args WebSearchArgs) (WebSearchResult, error) {
	out := WebSearchResult{Results: make([]search.Result, 0)}
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return out, ErrEmptyQuery
	}

	n := c.NumResults
	if n <= 0 {
		n = common.DEFAULT_SEARCH_NUM_RESULTS
	}
	results, err := c.Provider.Search(ctx, query, n)
	if err != nil {
		return out, fmt.Errorf("web_search via %s: %w", c.Provider.Name(), err)
	}
	if len(results) > n {
		results = results[:n]
	}
	log.Debug("web_search tool call", "provider", c.Provider.Name(), "query", query, "results", len(results))
	out.Results = append(out.Results, results...)
	return out, nil
}

func (c *Config) webSearchHandler(ctx tool.Context, args WebSearchArgs) (WebSearchResult, error) {
	return c.handle(ctx, args)
}

// New wraps provider as the web_search tool.
func New(provider search.Provider, numResults int) (tool.Tool, error) {
	if provider == nil {
		return nil, errors.New("web_search: provider is nil")
	}
	cfg := &Config{Provider: provider, NumResults: numResults}
	return functiontool.New(
		functiontool.Config{
			Name: ToolName,
			Description: `Search the web for up-to-date information.
Args:
	query: The query to search.
Returns:
	A ranked list of results, each with title, content and url.`,
		},
		cfg.webSearchHandler)
}

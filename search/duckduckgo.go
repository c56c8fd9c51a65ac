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
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/tools/duckduckgo"
	"github.com/volcengine/vesearch-go/configs"
)

const (
	defaultDuckDuckGoUserAgent = "vesearch"
	duckDuckGoNoResult         = "No good DuckDuckGo Search Results was found"
)

type DuckDuckGoProvider struct {
	userAgent string
	// newTool is swapped in tests.
	newTool func(maxResults int, userAgent string) (ddgTool, error)
}

type ddgTool interface {
	Call(ctx context.Context, input string) (string, error)
}

func NewDuckDuckGoProvider(cfg *configs.DuckDuckGoConfig) (*DuckDuckGoProvider, error) {
	ua := defaultDuckDuckGoUserAgent
	if cfg != nil && strings.TrimSpace(cfg.UserAgent) != "" {
		ua = cfg.UserAgent
	}
	return &DuckDuckGoProvider{
		userAgent: ua,
		newTool: func(maxResults int, userAgent string) (ddgTool, error) {
			return duckduckgo.New(maxResults, userAgent)
		},
	}, nil
}

func (p *DuckDuckGoProvider) Name() string {
	return ProviderDuckDuckGo
}

func (p *DuckDuckGoProvider) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	// the result cap is fixed at construction time
	tool, err := p.newTool(numResults, p.userAgent)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}
	out, err := tool.Call(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}
	if strings.TrimSpace(out) == duckDuckGoNoResult {
		return []Result{}, nil
	}

	blocks := parseLabeledBlocks(out, "Title", "Title", "Description", "URL")
	results := make([]Result, 0, len(blocks))
	for _, b := range blocks {
		results = append(results, Result{Title: b["Title"], Content: b["Description"], URL: b["URL"]})
	}
	return limit(results, numResults), nil
}

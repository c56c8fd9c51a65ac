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
	"fmt"
	"net/http"
	"strings"

	"github.com/volcengine/vesearch-go/configs"
)

type ExaProvider struct {
	cfg    configs.ExaConfig
	client *http.Client
}

type exaSearchResponse struct {
	RequestID string `json:"requestId"`
	Results   []struct {
		ID            string   `json:"id"`
		Title         string   `json:"title"`
		URL           string   `json:"url"`
		Author        string   `json:"author"`
		PublishedDate string   `json:"publishedDate"`
		Text          string   `json:"text"`
		Highlights    []string `json:"highlights"`
	} `json:"results"`
}

func NewExaProvider(cfg *configs.ExaConfig, client *http.Client) (*ExaProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("exa: config is nil")
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("exa: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ExaProvider{cfg: *cfg, client: client}, nil
}

func (p *ExaProvider) Name() string {
	return ProviderExa
}

func (p *ExaProvider) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	var text interface{} = true
	if p.cfg.MaxCharacters > 0 {
		text = map[string]interface{}{"maxCharacters": p.cfg.MaxCharacters}
	}
	payload := map[string]interface{}{
		"query":         query,
		"numResults":    numResults,
		"useAutoprompt": true,
		"contents":      map[string]interface{}{"text": text},
	}
	if p.cfg.Type != "" {
		payload["type"] = p.cfg.Type
	}

	data, err := doJSON(ctx, p.client, http.MethodPost, resolveEndpoint(p.cfg.BaseURL, "/search"), map[string]string{
		"x-api-key": p.cfg.APIKey,
	}, payload)
	if err != nil {
		return nil, fmt.Errorf("exa: %w", err)
	}

	var resp exaSearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("exa: failed to decode response: %w", err)
	}

	results := make([]Result, 0, len(resp.Results))
	for _, entry := range resp.Results {
		content := entry.Text
		if content == "" && len(entry.Highlights) > 0 {
			content = strings.Join(entry.Highlights, " ")
		}
		results = append(results, Result{
			Title:   strings.TrimSpace(entry.Title),
			Content: content,
			URL:     entry.URL,
		})
	}
	return limit(results, numResults), nil
}

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
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/volcengine/vesearch-go/configs"
)

type SearXNGProvider struct {
	baseURL string
	client  *http.Client
}

type searxngResponse struct {
	Query           string `json:"query"`
	NumberOfResults int    `json:"number_of_results"`
	Results         []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Engine  string  `json:"engine"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

func NewSearXNGProvider(cfg *configs.SearXNGConfig, client *http.Client) (*SearXNGProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("searxng: config is nil")
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("searxng: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &SearXNGProvider{baseURL: strings.TrimRight(cfg.BaseURL, "/"), client: client}, nil
}

func (p *SearXNGProvider) Name() string {
	return ProviderSearXNG
}

func (p *SearXNGProvider) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")

	data, err := doJSON(ctx, p.client, http.MethodGet, p.baseURL+"/search?"+params.Encode(), map[string]string{
		"User-Agent": "vesearch/1.0",
	}, nil)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("searxng: JSON API may not be enabled (settings.yml formats: [html, json]): %w", err)
		}
		return nil, fmt.Errorf("searxng: %w", err)
	}

	var resp searxngResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("searxng: failed to parse search response: %w", err)
	}
	sort.SliceStable(resp.Results, func(i, j int) bool {
		return resp.Results[i].Score > resp.Results[j].Score
	})

	results := make([]Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, Result{Title: strings.TrimSpace(r.Title), Content: r.Content, URL: r.URL})
	}
	return limit(results, numResults), nil
}

// HealthCheck verifies the instance answers JSON queries.
func (p *SearXNGProvider) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search?q=test&format=json", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	req.Header.Set("User-Agent", "vesearch/1.0")
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("searxng is unreachable at %s: %w", p.baseURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("searxng API access forbidden, enable the json format in settings.yml")
	case resp.StatusCode >= 500:
		return fmt.Errorf("searxng returned server error: %d", resp.StatusCode)
	}
	return nil
}

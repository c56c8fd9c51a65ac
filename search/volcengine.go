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

	"github.com/volcengine/vesearch-go/auth/veauth"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/integrations/ve_sign"
)

// The document of this API see: https://www.volcengine.com/docs/85508/1650263
const (
	volcWebSearchHost    = "mercury.volcengineapi.com"
	volcWebSearchService = "volc_torchlight_api"
	volcWebSearchAction  = "WebSearch"
	volcWebSearchVersion = "2025-01-01"
)

var ErrVolcWebSearchConfig = errors.New("web search config error")

type volcWebSearchResponse struct {
	ResponseMetadata struct {
		RequestID string `json:"RequestId"`
		Error     *struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
		} `json:"Error,omitempty"`
	} `json:"ResponseMetadata"`
	Result struct {
		ResultCount int `json:"ResultCount"`
		WebResults  []struct {
			SortID   int     `json:"SortId"`
			Title    string  `json:"Title"`
			SiteName string  `json:"SiteName"`
			URL      string  `json:"Url"`
			Snippet  string  `json:"Snippet"`
			Summary  string  `json:"Summary"`
			Content  string  `json:"Content"`
			Score    float64 `json:"RankScore"`
		} `json:"WebResults"`
	} `json:"Result"`
}

// VolcengineProvider calls the Volcengine WebSearch OpenAPI with a signed request.
type VolcengineProvider struct {
	region string
	client *http.Client

	// overridable for tests
	scheme     string
	host       string
	credential func() (veauth.VeIAMCredential, error)
}

func NewVolcengineProvider(cfg *configs.VolcWebSearchConfig, client *http.Client) (*VolcengineProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("volcengine: config is nil")
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("volcengine: %w", err)
	}
	return &VolcengineProvider{
		region:     cfg.Region,
		client:     client,
		scheme:     ve_sign.HttpsSchema,
		host:       volcWebSearchHost,
		credential: veauth.ResolveCredential,
	}, nil
}

func (p *VolcengineProvider) Name() string {
	return ProviderVolcengine
}

func (p *VolcengineProvider) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	cred, err := p.credential()
	if err != nil {
		return nil, fmt.Errorf("volcengine: %w: %w", ErrVolcWebSearchConfig, err)
	}

	req := ve_sign.VeRequest{
		AK:      cred.AccessKeyID,
		SK:      cred.SecretAccessKey,
		Method:  http.MethodPost,
		Scheme:  p.scheme,
		Host:    p.host,
		Path:    "/",
		Service: volcWebSearchService,
		Region:  p.region,
		Action:  volcWebSearchAction,
		Version: volcWebSearchVersion,
		Header:  cred.SecurityHeader(),
		Body: map[string]any{
			"Query":       query,
			"SearchType":  "web",
			"Count":       numResults,
			"NeedSummary": true,
		},
		Client: p.client,
	}
	body, err := req.DoRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("volcengine: %w", err)
	}

	var resp volcWebSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("volcengine: web search unmarshal response err: %w", err)
	}
	if e := resp.ResponseMetadata.Error; e != nil && e.Code != "" {
		return nil, fmt.Errorf("volcengine: %s: %s", e.Code, e.Message)
	}

	results := make([]Result, 0, len(resp.Result.WebResults))
	for _, item := range resp.Result.WebResults {
		results = append(results, Result{
			Title:   strings.TrimSpace(item.Title),
			Content: firstNonEmpty(item.Summary, item.Content, item.Snippet),
			URL:     item.URL,
		})
	}
	return limit(results, numResults), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

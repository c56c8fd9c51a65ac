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

// Package frontend is the interactive client of the search proxy. It calls
// the proxy either in process or over HTTP and renders answers as Markdown.
package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/volcengine/vesearch-go/common"
	"github.com/volcengine/vesearch-go/proxy"
)

const (
	ModeDirect = "direct"
	ModeProxy  = "proxy"
)

var ErrUnknownMode = errors.New("unknown frontend mode")

// Searcher runs one search request for the UI.
type Searcher interface {
	Search(ctx context.Context, req *proxy.SearchRequest) (*proxy.SearchResponse, error)
}

// DirectClient calls a proxy.Service in the same process.
type DirectClient struct {
	service *proxy.Service
}

func NewDirectClient(service *proxy.Service) *DirectClient {
	return &DirectClient{service: service}
}

func (c *DirectClient) Search(ctx context.Context, req *proxy.SearchRequest) (*proxy.SearchResponse, error) {
	return c.service.HandleSearch(ctx, req)
}

// ProxyClient posts to a running search server.
type ProxyClient struct {
	endpoint string
	client   *http.Client
}

func NewProxyClient(serverURL string, client *http.Client) *ProxyClient {
	if serverURL == "" {
		serverURL = common.DEFAULT_SERVER_URL
	}
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &ProxyClient{
		endpoint: strings.TrimRight(serverURL, "/") + "/search",
		client:   client,
	}
}

type errorBody struct {
	Detail string `json:"detail"`
}

func (c *ProxyClient) Search(ctx context.Context, req *proxy.SearchRequest) (*proxy.SearchResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request search server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search server response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var e errorBody
		if json.Unmarshal(body, &e) == nil && e.Detail != "" {
			return nil, fmt.Errorf("server error (status %d): %s", resp.StatusCode, e.Detail)
		}
		return nil, fmt.Errorf("server error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out proxy.SearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode search server response: %w", err)
	}
	return &out, nil
}

// NewSearcher picks the client for mode. newService is only called in direct mode.
func NewSearcher(mode, serverURL string, newService func() (*proxy.Service, error)) (Searcher, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeDirect:
		service, err := newService()
		if err != nil {
			return nil, err
		}
		return NewDirectClient(service), nil
	case ModeProxy:
		return NewProxyClient(serverURL, nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

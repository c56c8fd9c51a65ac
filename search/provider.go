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

// Package search holds the search-provider contract and its backends.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/volcengine/vesearch-go/configs"
	"gopkg.in/go-playground/validator.v8"
)

const (
	ProviderExa        = "exa"
	ProviderExaMCP     = "exa_mcp"
	ProviderVolcengine = "volcengine"
	ProviderDuckDuckGo = "duckduckgo"
	ProviderSearXNG    = "searxng"
)

var (
	ErrUnknownProvider = errors.New("unknown search provider")
	ErrEmptyQuery      = errors.New("search query is empty")
)

// Result is one ranked hit. Content is the provider excerpt.
type Result struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// Provider returns at most numResults hits in provider ranking order.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, numResults int) ([]Result, error)
}

// HealthChecker is implemented by backends that can report upstream health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type options struct {
	client *http.Client
}

type Option func(*options)

// WithHTTPClient replaces the client built from search.timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// New builds the backend selected by cfg.Provider.
func New(cfg *configs.SearchConfig, opts ...Option) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrUnknownProvider)
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		o.client = &http.Client{Timeout: timeout}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderExa, "":
		return NewExaProvider(cfg.Exa, o.client)
	case ProviderExaMCP:
		return NewExaMCPProvider(cfg.ExaMCP, o.client)
	case ProviderVolcengine:
		return NewVolcengineProvider(cfg.Volcengine, o.client)
	case ProviderDuckDuckGo:
		return NewDuckDuckGoProvider(cfg.DuckDuckGo)
	case ProviderSearXNG:
		return NewSearXNGProvider(cfg.SearXNG, o.client)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

func validateConfig(c interface{}) error {
	if c == nil {
		return errors.New("config is nil")
	}
	validate := validator.New(&validator.Config{TagName: "validate"})
	if err := validate.Struct(c); err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			return fmt.Errorf("field %s validation failed: %s（rule: %s）", err.Field, err.Tag, err.Param)
		}
		return err
	}
	return nil
}

func limit(results []Result, n int) []Result {
	if n > 0 && len(results) > n {
		return results[:n]
	}
	return results
}

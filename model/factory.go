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

package model

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/volcengine/vesearch-go/auth/veauth"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/log"
	"google.golang.org/adk/model"
)

const (
	ProviderOpenAI = "openai"
	ProviderArk    = "ark"
)

// arkToken is swapped out in tests.
var arkToken = veauth.GetArkToken

type factoryOptions struct {
	extraBody map[string]any
}

type FactoryOption func(*factoryOptions)

// WithExtraBody passes provider-specific request fields, keyed under "extra_body".
func WithExtraBody(extra map[string]any) FactoryOption {
	return func(o *factoryOptions) {
		o.extraBody = extra
	}
}

// NewFromConfig builds the LLM named by cfg. An empty API key is resolved
// through the Ark OpenAPI with the account AK/SK.
func NewFromConfig(ctx context.Context, cfg *configs.AgentConfig, httpClient *http.Client, opts ...FactoryOption) (model.LLM, error) {
	if cfg == nil {
		return nil, fmt.Errorf("model config is nil")
	}
	o := &factoryOptions{}
	for _, opt := range opts {
		opt(o)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenAI:
		apiKey := cfg.ApiKey
		if apiKey == "" {
			token, err := arkToken(ctx, cfg.Region)
			if err != nil {
				return nil, fmt.Errorf("resolve model api key: %w", err)
			}
			apiKey = token
		}
		return NewOpenAIModel(ctx, cfg.Name, &ClientConfig{
			APIKey:     apiKey,
			BaseURL:    cfg.ApiBase,
			HTTPClient: httpClient,
			ExtraBody:  o.extraBody,
		})
	case ProviderArk:
		arkCfg := &ArkClientConfig{APIKey: cfg.ApiKey, BaseURL: cfg.ApiBase, Region: cfg.Region, ExtraBody: o.extraBody}
		if arkCfg.APIKey == "" {
			cred, err := veauth.ResolveCredential()
			if err != nil {
				return nil, fmt.Errorf("resolve ark credential: %w", err)
			}
			log.Debug("using AK/SK for ark runtime", "region", cfg.Region)
			arkCfg.AK, arkCfg.SK = cred.AccessKeyID, cred.SecretAccessKey
		}
		return NewArkModel(ctx, cfg.Name, arkCfg)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

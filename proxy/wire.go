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

package proxy

import (
	"context"
	"errors"
	"fmt"

	"github.com/volcengine/vesearch-go/completion"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/log"
	"github.com/volcengine/vesearch-go/search"
)

// NewFromConfig builds the search client, the completer, and the guardrail
// once, then wires them into a Service.
func NewFromConfig(ctx context.Context, cfg *configs.VeSearchConfig) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	searcher, err := search.New(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("build search provider: %w", err)
	}
	completer, err := completion.NewFromConfig(ctx, cfg.Model, nil, completion.WithUsageObserver(RecordUsage))
	if err != nil {
		return nil, fmt.Errorf("build completion provider: %w", err)
	}

	opts := []Option{WithConfig(ConfigFrom(cfg.Search, cfg.Summary))}
	if cfg.Summary != nil && len(cfg.Summary.GuardrailBlockedTerms) > 0 {
		opts = append(opts, WithGuardrail(NewKeywordGuardrail(cfg.Summary.GuardrailBlockedTerms)))
	}
	log.Info("search proxy ready", "search_provider", searcher.Name(), "model", completer.Name())
	return NewService(searcher, completer, opts...), nil
}

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

// Package proxy runs the retrieve, compose, summarize pipeline behind the
// search endpoint.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/volcengine/vesearch-go/common"
	"github.com/volcengine/vesearch-go/completion"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/log"
	"github.com/volcengine/vesearch-go/observability"
	"github.com/volcengine/vesearch-go/prompts"
	"github.com/volcengine/vesearch-go/search"
	"go.opentelemetry.io/otel/attribute"
)

// NumResults accepts a JSON number or numeric string. Anything that is not a
// whole number decodes to 0, which the service treats as the default.
type NumResults int

func (n *NumResults) UnmarshalJSON(data []byte) error {
	*n = 0
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	*n = NumResults(f)
	return nil
}

type SearchRequest struct {
	Query      string     `json:"query"`
	Language   string     `json:"language,omitempty"`
	NumResults NumResults `json:"num_results,omitempty"`
}

type SearchResponse struct {
	Query    string          `json:"query"`
	Language string          `json:"language"`
	Summary  string          `json:"summary"`
	Results  []search.Result `json:"results"`
}

// Config holds the tunables of one Service.
type Config struct {
	DefaultNumResults int
	MaxNumResults     int
	MaxTokens         int32
	Temperature       float32
}

func DefaultConfig() Config {
	return Config{
		DefaultNumResults: common.DEFAULT_SEARCH_NUM_RESULTS,
		MaxNumResults:     common.DEFAULT_SEARCH_MAX_NUM_RESULTS,
		MaxTokens:         common.DEFAULT_SUMMARY_MAX_TOKENS,
		Temperature:       common.DEFAULT_SUMMARY_TEMPERATURE,
	}
}

// ConfigFrom reads the search and summary sections. Zero values keep the defaults.
func ConfigFrom(searchCfg *configs.SearchConfig, summaryCfg *configs.SummaryConfig) Config {
	cfg := DefaultConfig()
	if searchCfg != nil {
		if searchCfg.NumResults > 0 {
			cfg.DefaultNumResults = searchCfg.NumResults
		}
		if searchCfg.MaxNumResults > 0 {
			cfg.MaxNumResults = searchCfg.MaxNumResults
		}
	}
	if summaryCfg != nil {
		if summaryCfg.MaxTokens > 0 {
			cfg.MaxTokens = int32(summaryCfg.MaxTokens)
		}
		if summaryCfg.Temperature >= 0 {
			cfg.Temperature = float32(summaryCfg.Temperature)
		}
	}
	return cfg
}

type Service struct {
	searcher  search.Provider
	completer completion.Completer
	guardrail Guardrail
	cfg       Config
}

type Option func(*Service)

func WithGuardrail(g Guardrail) Option {
	return func(s *Service) {
		if g != nil {
			s.guardrail = g
		}
	}
}

func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// NewService wires a search provider and a completer. Both must be safe for
// concurrent use.
func NewService(searcher search.Provider, completer completion.Completer, opts ...Option) *Service {
	s := &Service{
		searcher:  searcher,
		completer: completer,
		guardrail: Passthrough{},
		cfg:       DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProviderName is the active search backend.
func (s *Service) ProviderName() string {
	return s.searcher.Name()
}

// HealthCheck asks the search backend for its status when it supports it.
func (s *Service) HealthCheck(ctx context.Context) error {
	if hc, ok := s.searcher.(search.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// HandleSearch searches once, summarizes once, and returns both. On error
// the response is nil.
func (s *Service) HandleSearch(ctx context.Context, req *SearchRequest) (resp *SearchResponse, err error) {
	providerAttr := attribute.String(observability.AttrSearchProvider, s.searcher.Name())
	ctx, span := observability.StartSpan(ctx, observability.SpanHandle, observability.SpanKindWorkflow, providerAttr)
	defer func() {
		if err != nil {
			observability.RecordRequest(ctx, observability.StatusError, providerAttr)
			observability.RecordException(ctx, Stage(err), providerAttr)
			log.Warn("search request failed", "stage", Stage(err), "err", err)
		} else {
			observability.RecordRequest(ctx, observability.StatusSuccess, providerAttr)
		}
		observability.EndSpan(span, err)
	}()

	if req == nil || strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrInvalidRequest)
	}
	query := strings.TrimSpace(req.Query)
	n := s.numResults(int(req.NumResults))
	lang := prompts.ParseLanguage(req.Language)
	label := prompts.Label(req.Language)
	span.SetAttributes(
		attribute.String(observability.AttrSearchLanguage, string(lang)),
		attribute.Int(observability.AttrSearchNumResults, n),
	)

	results, err := s.retrieve(ctx, query, n)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarize(ctx, query, lang, results)
	if err != nil {
		return nil, err
	}

	summary, err = s.guardrail.Apply(ctx, summary)
	if err != nil {
		return nil, &GuardrailError{Err: err}
	}

	log.Debug("search request served", "provider", s.searcher.Name(), "results", len(results), "language", lang)
	return &SearchResponse{
		Query:    req.Query,
		Language: label,
		Summary:  summary,
		Results:  results,
	}, nil
}

func (s *Service) numResults(requested int) int {
	n := requested
	if n <= 0 {
		n = s.cfg.DefaultNumResults
	}
	if n <= 0 {
		n = common.DEFAULT_SEARCH_NUM_RESULTS
	}
	if s.cfg.MaxNumResults > 0 && n > s.cfg.MaxNumResults {
		n = s.cfg.MaxNumResults
	}
	return n
}

func (s *Service) retrieve(ctx context.Context, query string, n int) (results []search.Result, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSearch, observability.SpanKindRetriever,
		observability.SearchAttributes(s.searcher.Name(), query, n)...)
	start := time.Now()
	defer func() {
		observability.RecordSearchDuration(ctx, time.Since(start).Seconds(),
			attribute.String(observability.AttrSearchProvider, s.searcher.Name()))
		span.SetAttributes(attribute.Int(observability.AttrResultCount, len(results)))
		observability.EndSpan(span, err)
	}()

	results, err = s.searcher.Search(ctx, query, n)
	if err != nil {
		return nil, &SearchProviderError{Provider: s.searcher.Name(), Err: err}
	}
	if len(results) > n {
		results = results[:n]
	}
	if results == nil {
		results = []search.Result{}
	}
	return results, nil
}

func (s *Service) summarize(ctx context.Context, query string, lang prompts.Language, results []search.Result) (summary string, err error) {
	temperature := s.cfg.Temperature
	ctx, span := observability.StartSpan(ctx, observability.SpanCompletion, observability.SpanKindLLM,
		observability.LLMAttributes(completerName(s.completer), s.cfg.MaxTokens, temperature)...)
	start := time.Now()
	defer func() {
		observability.RecordOperationDuration(ctx, time.Since(start).Seconds(),
			attribute.String(observability.AttrGenAIOperationName, observability.OperationNameChat))
		observability.EndSpan(span, err)
	}()

	summary, err = s.completer.Complete(ctx, &completion.Request{
		Prompt:            prompts.SummaryPrompt(query, lang, results),
		SystemInstruction: prompts.SummarySystemInstruction(lang),
		MaxTokens:         s.cfg.MaxTokens,
		Temperature:       &temperature,
	})
	if err != nil {
		return "", &CompletionProviderError{Err: err}
	}
	return summary, nil
}

func completerName(c completion.Completer) string {
	if named, ok := c.(interface{ Name() string }); ok {
		return named.Name()
	}
	return ""
}

// RecordUsage is a completion.UsageObserver that feeds token metrics.
func RecordUsage(ctx context.Context, u completion.Usage) {
	observability.RecordTokenUsage(ctx, u.InputTokens, u.OutputTokens,
		attribute.String(observability.AttrGenAIResponseModel, u.Model))
}

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

// Package completion turns a prompt into text through any adk model.LLM.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/volcengine/vesearch-go/configs"
	vmodel "github.com/volcengine/vesearch-go/model"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

var ErrNoCandidates = errors.New("model returned no content")

type Request struct {
	Prompt            string
	SystemInstruction string
	MaxTokens         int32
	Temperature       *float32
}

// Completer is a completion provider.
type Completer interface {
	Complete(ctx context.Context, req *Request) (string, error)
}

// Usage is reported to observers after every successful call.
type Usage struct {
	Model        string
	InputTokens  int64
	OutputTokens int64
}

type UsageObserver func(ctx context.Context, u Usage)

type LLMCompleter struct {
	llm      model.LLM
	observer UsageObserver
}

type Option func(*LLMCompleter)

func WithUsageObserver(fn UsageObserver) Option {
	return func(c *LLMCompleter) {
		c.observer = fn
	}
}

func NewLLMCompleter(llm model.LLM, opts ...Option) *LLMCompleter {
	c := &LLMCompleter{llm: llm}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewFromConfig(ctx context.Context, cfg *configs.ModelConfig, httpClient *http.Client, opts ...Option) (*LLMCompleter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("model config is nil")
	}
	llm, err := vmodel.NewFromConfig(ctx, cfg.Agent, httpClient)
	if err != nil {
		return nil, err
	}
	return NewLLMCompleter(llm, opts...), nil
}

func (c *LLMCompleter) Name() string {
	return c.llm.Name()
}

// Complete issues one non-streaming call and joins the visible text.
func (c *LLMCompleter) Complete(ctx context.Context, req *Request) (string, error) {
	llmReq := &model.LLMRequest{
		Model:    c.llm.Name(),
		Contents: genai.Text(req.Prompt),
		Config: &genai.GenerateContentConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		},
	}
	if req.SystemInstruction != "" {
		llmReq.Config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	var (
		sb       strings.Builder
		seen     bool
		usage    Usage
		modelArg = c.llm.Name()
	)
	for resp, err := range c.llm.GenerateContent(ctx, llmReq, false) {
		if err != nil {
			return "", err
		}
		if resp == nil || resp.Partial {
			continue
		}
		seen = true
		if resp.ErrorCode != "" {
			return "", fmt.Errorf("model error %s: %s", resp.ErrorCode, resp.ErrorMessage)
		}
		if resp.Content != nil {
			for _, part := range resp.Content.Parts {
				if part != nil && !part.Thought {
					sb.WriteString(part.Text)
				}
			}
		}
		if u := resp.UsageMetadata; u != nil {
			usage.InputTokens += int64(u.PromptTokenCount)
			usage.OutputTokens += int64(u.CandidatesTokenCount)
		}
		if name, ok := resp.CustomMetadata["response_model"].(string); ok && name != "" {
			modelArg = name
		}
	}
	if !seen {
		return "", ErrNoCandidates
	}
	if c.observer != nil {
		usage.Model = modelArg
		c.observer(ctx, usage)
	}
	return sb.String(), nil
}

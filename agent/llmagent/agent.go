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

package llmagent

import (
	"context"
	"errors"
	"fmt"

	"github.com/volcengine/vesearch-go/common"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/model"
	"github.com/volcengine/vesearch-go/prompts"
	"github.com/volcengine/vesearch-go/search"
	"github.com/volcengine/vesearch-go/tool/web_search"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/genai"
)

type Persona string

const (
	PersonaAssistant Persona = "assistant"
	PersonaRedbook   Persona = "redbook"
	PersonaTutor     Persona = "tutor"
)

const defaultTemperature float32 = 0.3

type Config struct {
	llmagent.Config
	Persona  Persona
	Language prompts.Language

	// Search backs the web_search tool. Nil means no tool is attached.
	Search     search.Provider
	NumResults int

	// ModelConfig is used to build Model when it is nil.
	ModelConfig *configs.AgentConfig

	PromptManager  prompts.BasePromptManager
	PromptParam    *prompts.PromptGetParam
	DisableThought bool
}

func New(ctx context.Context, cfg *Config) (agent.Agent, error) {
	if cfg == nil {
		return nil, errors.New("agent config is nil")
	}
	if cfg.Name == "" {
		cfg.Name = common.DEFAULT_LLMAGENT_NAME
	}
	if cfg.Persona == "" {
		cfg.Persona = PersonaAssistant
	}
	if cfg.Language == "" {
		cfg.Language = prompts.Chinese
	}

	if cfg.Instruction == "" {
		fallback, err := personaInstruction(cfg.Persona, cfg.Language)
		if err != nil {
			return nil, err
		}
		if cfg.PromptManager != nil {
			fallback = cfg.PromptManager.GetPrompt(ctx, cfg.PromptParam, fallback)
		}
		cfg.Instruction = fallback
	}
	if cfg.Description == "" {
		cfg.Description = prompts.DEFAULT_DESCRIPTION
	}

	if cfg.GenerateContentConfig == nil {
		temperature := defaultTemperature
		cfg.GenerateContentConfig = &genai.GenerateContentConfig{Temperature: &temperature}
		if cfg.Persona == PersonaRedbook {
			cfg.GenerateContentConfig.MaxOutputTokens = common.DEFAULT_REDBOOK_MAX_TOKENS
		}
	}

	if cfg.Model == nil {
		var opts []model.FactoryOption
		if cfg.DisableThought {
			opts = append(opts, model.WithExtraBody(disableThoughtExtraBody()))
		}
		llm, err := model.NewFromConfig(ctx, cfg.ModelConfig, nil, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to build agent model: %w", err)
		}
		cfg.Model = llm
	}

	if cfg.Search != nil {
		searchTool, err := web_search.New(cfg.Search, cfg.NumResults)
		if err != nil {
			return nil, err
		}
		cfg.Tools = append(cfg.Tools, searchTool)
	}

	return llmagent.New(cfg.Config)
}

func personaInstruction(p Persona, lang prompts.Language) (string, error) {
	switch p {
	case PersonaAssistant:
		return prompts.SummarySystemInstruction(lang) + "\n" + prompts.DEFAULT_INSTRUCTION, nil
	case PersonaRedbook:
		return prompts.RedbookSystemInstruction(lang), nil
	case PersonaTutor:
		return prompts.TutorSystem, nil
	default:
		return "", fmt.Errorf("unknown persona %q", p)
	}
}

func disableThoughtExtraBody() map[string]any {
	return map[string]any{
		"extra_body": map[string]any{
			"thinking": map[string]any{"type": "disabled"},
		},
	}
}

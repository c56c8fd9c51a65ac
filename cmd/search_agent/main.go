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

package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/volcengine/vesearch-go/agent/llmagent"
	"github.com/volcengine/vesearch-go/apps"
	"github.com/volcengine/vesearch-go/apps/a2a_app"
	"github.com/volcengine/vesearch-go/apps/agent_app"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/log"
	"github.com/volcengine/vesearch-go/memory"
	"github.com/volcengine/vesearch-go/observability"
	"github.com/volcengine/vesearch-go/prompts"
	"github.com/volcengine/vesearch-go/search"
	"google.golang.org/adk/agent"
	adkllmagent "google.golang.org/adk/agent/llmagent"
)

func main() {
	persona := flag.String("persona", string(llmagent.PersonaAssistant), "assistant, redbook or tutor")
	lang := flag.String("lang", prompts.DefaultLanguageLabel, "instruction language, 中文 or English")
	protocol := flag.String("protocol", "http", "http (POST /invoke) or a2a")
	backend := flag.String("memory", string(memory.BackendFromEnv()), "session backend, local or postgresql")
	user := flag.String("user", "", "session owner for /invoke requests")
	thinking := flag.Bool("thinking", false, "keep model thinking enabled")
	port := flag.Int("port", 0, "listen port, overrides server.port")
	readTimeout := flag.Int64("read-timeout", 0, "read timeout in seconds, overrides server.read_timeout")
	writeTimeout := flag.Int64("write-timeout", 0, "write timeout in seconds, overrides server.write_timeout")
	idleTimeout := flag.Int64("idle-timeout", 0, "idle timeout in seconds, overrides server.idle_timeout")
	flag.Parse()

	ctx := context.Background()
	cfg := configs.GetGlobalConfig()

	if err := observability.Init(ctx, cfg.Observability); err != nil && !errors.Is(err, observability.ErrNoExporters) {
		log.Warn("observability init failed", "error", err)
	}

	provider, err := search.New(cfg.Search)
	if err != nil {
		log.Errorf("build search provider failed: %v", err)
		os.Exit(1)
	}

	var promptParam *prompts.PromptGetParam
	if pp := cfg.PromptPilot; pp != nil {
		promptParam = &prompts.PromptGetParam{PromptKey: pp.PromptKey, Version: pp.Version, Label: pp.Label}
	}
	rootAgent, err := llmagent.New(ctx, &llmagent.Config{
		Config:         adkllmagent.Config{Name: "search_agent"},
		Persona:        llmagent.Persona(*persona),
		Language:       prompts.ParseLanguage(*lang),
		Search:         provider,
		NumResults:     cfg.Search.NumResults,
		ModelConfig:    cfg.Model.Agent,
		PromptManager:  prompts.NewPromptManager(cfg),
		PromptParam:    promptParam,
		DisableThought: !*thinking,
	})
	if err != nil {
		log.Errorf("build agent failed: %v", err)
		os.Exit(1)
	}

	sessions, err := memory.NewShortTermMemory(memory.ShortTermBackendType(*backend), nil)
	if err != nil {
		log.Errorf("build session service failed: %v", err)
		os.Exit(1)
	}

	apiConfig := apps.ApiConfigFrom(cfg.Server)
	if *port > 0 {
		apiConfig.SetPort(*port)
	}
	if *readTimeout > 0 {
		apiConfig.SetReadTimeout(*readTimeout)
	}
	if *writeTimeout > 0 {
		apiConfig.SetWriteTimeout(*writeTimeout)
	}
	if *idleTimeout > 0 {
		apiConfig.SetIdleTimeout(*idleTimeout)
	}

	var app apps.BasicApp
	switch *protocol {
	case "a2a":
		app = a2a_app.NewA2AApp(apiConfig)
	case "http":
		var opts []agent_app.Option
		if *user != "" {
			opts = append(opts, agent_app.WithUserID(*user))
		}
		if llmagent.Persona(*persona) == llmagent.PersonaRedbook {
			opts = append(opts, agent_app.WithPromptBuilder(prompts.RedbookPrompt))
		}
		app = agent_app.NewAgentApp(apiConfig, opts...)
	default:
		log.Errorf("unknown protocol %q", *protocol)
		os.Exit(1)
	}

	runConfig := &apps.RunConfig{
		SessionService: sessions,
		AgentLoader:    agent.NewSingleLoader(rootAgent),
	}
	if err := app.Run(ctx, runConfig); err != nil {
		log.Errorf("Run failed: %v", err)
		os.Exit(1)
	}
}

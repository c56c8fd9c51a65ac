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

package agent_app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/volcengine/vesearch-go/apps"
	"github.com/volcengine/vesearch-go/log"
	"github.com/volcengine/vesearch-go/prompts"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const serverName = "vesearch agent server"

// PromptBuilder turns the caller's prompt into the user message sent to the
// agent.
type PromptBuilder func(prompt string, lang prompts.Language, now time.Time) string

func passthroughPrompt(prompt string, _ prompts.Language, _ time.Time) string {
	return prompt
}

type agentApp struct {
	*apps.ApiConfig
	appName     string
	userID      string
	buildPrompt PromptBuilder
	runner      *runner.Runner
	sessions    session.Service
	now         func() time.Time
}

type Option func(*agentApp)

func WithPromptBuilder(b PromptBuilder) Option {
	return func(a *agentApp) {
		if b != nil {
			a.buildPrompt = b
		}
	}
}

func WithUserID(id string) Option {
	return func(a *agentApp) {
		if id != "" {
			a.userID = id
		}
	}
}

func NewAgentApp(config *apps.ApiConfig, opts ...Option) apps.BasicApp {
	a := &agentApp{
		ApiConfig:   config,
		userID:      "vesearch_user",
		buildPrompt: passthroughPrompt,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *agentApp) SetupRouters(router *mux.Router, config *apps.RunConfig) error {
	rootAgent, err := config.RootAgent()
	if err != nil {
		return err
	}
	a.appName = rootAgent.Name()
	a.sessions = config.SessionService

	r, err := runner.New(runner.Config{
		AppName:         a.appName,
		Agent:           rootAgent,
		SessionService:  config.SessionService,
		ArtifactService: config.ArtifactService,
		MemoryService:   config.MemoryService,
		PluginConfig:    config.PluginConfig,
	})
	if err != nil {
		return fmt.Errorf("new runner error: %w", err)
	}
	a.runner = r

	router.NewRoute().Path("/invoke").Methods(http.MethodPost).HandlerFunc(a.newInvokeHandler())
	router.NewRoute().Path("/health").Methods(http.MethodGet).HandlerFunc(a.newHealthHandler())

	log.Infof("       invoke:  you can invoke agent using %s/invoke", a.GetWebUrl())
	log.Infof("       health:  you can get health status using: %s/health", a.GetWebUrl())

	return nil
}

func (a *agentApp) Run(ctx context.Context, config *apps.RunConfig) error {
	return apps.Run(ctx, config, a)
}

type Request struct {
	Prompt    string `json:"prompt"`
	Language  string `json:"language,omitempty"`
	SessionId string `json:"session_id,omitempty"`
}

type Response struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	SessionId string `json:"session_id"`
	Data      string `json:"data"`
}

func fail(w http.ResponseWriter, code int, msg string) {
	apps.WriteJSON(w, code, Response{Code: code, Message: msg})
}

// session returns the caller's session, or a new one when id is empty or unknown.
func (a *agentApp) session(ctx context.Context, id string) (string, error) {
	if id != "" {
		_, err := a.sessions.Get(ctx, &session.GetRequest{AppName: a.appName, UserID: a.userID, SessionID: id})
		if err == nil {
			return id, nil
		}
		log.Debug("session not found, creating a new one", "session_id", id)
	}
	resp, err := a.sessions.Create(ctx, &session.CreateRequest{
		AppName:   a.appName,
		UserID:    a.userID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", err
	}
	return resp.Session.ID(), nil
}

func (a *agentApp) newInvokeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, fmt.Sprintf("json unmarshal error: %v", err))
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			fail(w, http.StatusBadRequest, "prompt must not be empty")
			return
		}
		ctx := r.Context()
		lang := prompts.ParseLanguage(req.Language)

		sessionID, err := a.session(ctx, req.SessionId)
		if err != nil {
			fail(w, http.StatusInternalServerError, fmt.Sprintf("create session error: %v", err))
			return
		}

		userInput := genai.NewContentFromText(a.buildPrompt(strings.TrimSpace(req.Prompt), lang, a.now()), genai.RoleUser)

		var finalResponseText []string
		for event, err := range a.runner.Run(ctx, a.userID, sessionID, userInput, agent.RunConfig{StreamingMode: agent.StreamingModeNone}) {
			if err != nil {
				log.Errorf("Agent Run Error: %v", err)
				fail(w, http.StatusInternalServerError, fmt.Sprintf("agent run error: %v", err))
				return
			}
			if event.Content != nil && !event.Partial && event.Author != genai.RoleUser {
				for _, part := range event.Content.Parts {
					if !part.Thought && part.Text != "" {
						finalResponseText = append(finalResponseText, part.Text)
					}
				}
			}
		}

		data := strings.TrimSpace(strings.Join(finalResponseText, ""))
		if data == "" {
			data = prompts.Pick(lang, "未生成有效总结。", "No valid summary generated.")
		}
		apps.WriteJSON(w, http.StatusOK, Response{
			Code:      http.StatusOK,
			Message:   "success",
			SessionId: sessionID,
			Data:      data,
		})
	}
}

func (a *agentApp) newHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps.WriteJSON(w, http.StatusOK, Response{
			Code:    http.StatusOK,
			Message: "success",
			Data:    fmt.Sprintf("Service %s is running ...", a.appName),
		})
	}
}

func (a *agentApp) GetApiConfig() *apps.ApiConfig {
	return a.ApiConfig
}

func (a *agentApp) GetServerName() string {
	return serverName
}

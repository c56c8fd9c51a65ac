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

package a2a_app

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"testing"

	a2acore "github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2asrv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volcengine/vesearch-go/apps"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/session"
)

type nopLLM struct{}

func (nopLLM) Name() string { return "nop" }

func (nopLLM) GenerateContent(context.Context, *model.LLMRequest, bool) iter.Seq2[*model.LLMResponse, error] {
	return func(func(*model.LLMResponse, error) bool) {}
}

func runConfig(t *testing.T) *apps.RunConfig {
	t.Helper()
	a, err := llmagent.New(llmagent.Config{
		Name:        "search_agent",
		Description: "searches the web",
		Model:       nopLLM{},
	})
	require.NoError(t, err)
	return &apps.RunConfig{
		SessionService: session.InMemoryService(),
		AgentLoader:    agent.NewSingleLoader(a),
	}
}

func fetchCard(t *testing.T, app apps.BasicApp) *a2acore.AgentCard {
	t.Helper()
	router := apps.NewRouter()
	require.NoError(t, app.SetupRouters(router, runConfig(t)))
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + a2asrv.WellKnownAgentCardPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var card a2acore.AgentCard
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&card))
	return &card
}

func TestAgentCard(t *testing.T) {
	card := fetchCard(t, NewA2AApp(apps.DefaultApiConfig().SetPort(9100)))
	assert.Equal(t, "search_agent", card.Name)
	assert.Equal(t, "searches the web", card.Description)
	assert.Equal(t, "http://localhost:9100/", card.URL)
	assert.Equal(t, a2acore.TransportProtocolJSONRPC, card.PreferredTransport)
	assert.True(t, card.Capabilities.Streaming)
}

func TestAgentCard_PublicURL(t *testing.T) {
	card := fetchCard(t, NewA2AApp(apps.DefaultApiConfig(), WithPublicURL("https://search.example.com/a2a")))
	assert.Equal(t, "https://search.example.com/a2a/", card.URL)
}

func TestSetupRouters_NoAgent(t *testing.T) {
	err := NewA2AApp(apps.DefaultApiConfig()).SetupRouters(apps.NewRouter(), &apps.RunConfig{})
	assert.Error(t, err)
}

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
	"net/http"
	"net/url"

	a2acore "github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2asrv"
	"github.com/gorilla/mux"
	"github.com/volcengine/vesearch-go/apps"
	"github.com/volcengine/vesearch-go/log"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/server/adka2a"
)

const (
	serverName = "vesearch a2a server"
	apiPath    = "/"
)

type a2aApp struct {
	*apps.ApiConfig
	publicURL string
}

type Option func(*a2aApp)

// WithPublicURL sets the URL advertised in the agent card, for deployments
// behind a gateway.
func WithPublicURL(u string) Option {
	return func(a *a2aApp) {
		if u != "" {
			a.publicURL = u
		}
	}
}

func NewA2AApp(config *apps.ApiConfig, opts ...Option) apps.BasicApp {
	a := &a2aApp{ApiConfig: config}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *a2aApp) Run(ctx context.Context, config *apps.RunConfig) error {
	return apps.Run(ctx, config, a)
}

func (a *a2aApp) cardURL() (string, error) {
	base := a.publicURL
	if base == "" {
		base = a.GetWebUrl()
	}
	return url.JoinPath(base, apiPath)
}

func (a *a2aApp) SetupRouters(router *mux.Router, config *apps.RunConfig) error {
	rootAgent, err := config.RootAgent()
	if err != nil {
		return err
	}
	publicURL, err := a.cardURL()
	if err != nil {
		return err
	}

	agentCard := &a2acore.AgentCard{
		Name:                              rootAgent.Name(),
		Description:                       rootAgent.Description(),
		DefaultInputModes:                 []string{"text/plain"},
		DefaultOutputModes:                []string{"text/plain"},
		URL:                               publicURL,
		PreferredTransport:                a2acore.TransportProtocolJSONRPC,
		Skills:                            adka2a.BuildAgentSkills(rootAgent),
		Capabilities:                      a2acore.AgentCapabilities{Streaming: true},
		SupportsAuthenticatedExtendedCard: false,
	}
	router.Handle(a2asrv.WellKnownAgentCardPath, a2asrv.NewStaticAgentCardHandler(agentCard))

	executor := adka2a.NewExecutor(adka2a.ExecutorConfig{
		RunnerConfig: runner.Config{
			AppName:         rootAgent.Name(),
			Agent:           rootAgent,
			SessionService:  config.SessionService,
			ArtifactService: config.ArtifactService,
			MemoryService:   config.MemoryService,
			PluginConfig:    config.PluginConfig,
		},
	})
	reqHandler := a2asrv.NewHandler(executor, config.A2AOptions...)
	router.Handle(apiPath, a2asrv.NewJSONRPCHandler(reqHandler)).Methods(http.MethodPost)

	log.Infof("       a2a:     agent card at %s%s", a.GetWebUrl(), a2asrv.WellKnownAgentCardPath)
	log.Infof("       a2a:     json-rpc endpoint at %s", publicURL)
	return nil
}

func (a *a2aApp) GetApiConfig() *apps.ApiConfig {
	return a.ApiConfig
}

func (a *a2aApp) GetServerName() string {
	return serverName
}

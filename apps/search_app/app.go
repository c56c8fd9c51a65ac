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

// Package search_app serves the search proxy over REST, MCP and a small
// HTML form.
package search_app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/volcengine/vesearch-go/apps"
	"github.com/volcengine/vesearch-go/log"
	"github.com/volcengine/vesearch-go/proxy"
)

const (
	serverName    = "vesearch server"
	healthMessage = "MCP Web Search Server is running"
	maxBodyBytes  = 1 << 20
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type searchApp struct {
	*apps.ApiConfig
	service *proxy.Service
}

func NewSearchApp(config *apps.ApiConfig, service *proxy.Service) apps.BasicApp {
	return &searchApp{
		ApiConfig: config,
		service:   service,
	}
}

func (a *searchApp) Run(ctx context.Context, config *apps.RunConfig) error {
	return apps.Run(ctx, config, a)
}

func (a *searchApp) SetupRouters(router *mux.Router, _ *apps.RunConfig) error {
	if a.service == nil {
		return errors.New("search service is nil")
	}
	page, err := newPageHandler(a.service)
	if err != nil {
		return err
	}

	router.NewRoute().Path("/search").Methods(http.MethodPost).HandlerFunc(a.newSearchHandler())
	router.NewRoute().Path("/health").Methods(http.MethodGet).HandlerFunc(newHealthHandler(a.service))
	router.NewRoute().Path("/mcp").Handler(newMCPHandler(a.service))
	router.NewRoute().Path("/").Methods(http.MethodGet, http.MethodPost).Handler(page)

	log.Infof("       search:  POST %s/search", a.GetWebUrl())
	log.Infof("       mcp:     streamable http at %s/mcp", a.GetWebUrl())
	log.Infof("       web:     %s/", a.GetWebUrl())
	log.Infof("       health:  %s/health", a.GetWebUrl())
	return nil
}

func (a *searchApp) newSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req proxy.SearchRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&req); err != nil {
			apps.WriteJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body: " + err.Error()})
			return
		}

		resp, err := a.service.HandleSearch(r.Context(), &req)
		if err != nil {
			apps.WriteJSON(w, statusOf(err), errorResponse{Detail: err.Error()})
			return
		}
		apps.WriteJSON(w, http.StatusOK, resp)
	}
}

func statusOf(err error) int {
	if errors.Is(err, proxy.ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func newHealthHandler(service *proxy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.HealthCheck(r.Context()); err != nil {
			log.Warn("search backend health check failed", "provider", service.ProviderName(), "error", err)
			apps.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy", Message: err.Error()})
			return
		}
		apps.WriteJSON(w, http.StatusOK, healthResponse{Status: "healthy", Message: healthMessage})
	}
}

func (a *searchApp) GetApiConfig() *apps.ApiConfig {
	return a.ApiConfig
}

func (a *searchApp) GetServerName() string {
	return serverName
}

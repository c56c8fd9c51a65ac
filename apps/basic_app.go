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

package apps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/a2aproject/a2a-go/a2asrv"
	"github.com/gorilla/mux"
	"github.com/volcengine/vesearch-go/common"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/log"
	"github.com/volcengine/vesearch-go/observability"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/artifact"
	"google.golang.org/adk/memory"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
)

const shutdownTimeout = 30 * time.Second

// RunConfig carries the agent-side services. Apps that do not host an agent
// leave it empty.
type RunConfig struct {
	SessionService  session.Service
	ArtifactService artifact.Service
	MemoryService   memory.Service
	AgentLoader     agent.Loader
	A2AOptions      []a2asrv.RequestHandlerOption
	PluginConfig    runner.PluginConfig
}

// RootAgent returns the loaded root agent or an error when no loader is set.
func (cfg *RunConfig) RootAgent() (agent.Agent, error) {
	if cfg == nil || cfg.AgentLoader == nil {
		return nil, errors.New("agent loader is not configured")
	}
	return cfg.AgentLoader.RootAgent(), nil
}

type ApiConfig struct {
	Port         int
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
	IdleTimeout  time.Duration
	// Listener overrides Port when set. Used by tests.
	Listener net.Listener
}

type BasicApp interface {
	Run(ctx context.Context, config *RunConfig) error
	SetupRouters(router *mux.Router, config *RunConfig) error
	GetApiConfig() *ApiConfig
	GetServerName() string
}

func DefaultApiConfig() *ApiConfig {
	return &ApiConfig{
		Port:         common.DEFAULT_SERVER_PORT,
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 60,
		IdleTimeout:  time.Second * 120,
	}
}

// ApiConfigFrom applies the server section on top of the defaults.
func ApiConfigFrom(cfg *configs.ServerConfig) *ApiConfig {
	a := DefaultApiConfig()
	if cfg == nil {
		return a
	}
	if cfg.Port > 0 {
		a.Port = cfg.Port
	}
	if cfg.ReadTimeout > 0 {
		a.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		a.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.IdleTimeout > 0 {
		a.IdleTimeout = cfg.IdleTimeout
	}
	return a
}

func (a *ApiConfig) SetPort(port int) *ApiConfig {
	a.Port = port
	return a
}

func (a *ApiConfig) SetWriteTimeout(t int64) *ApiConfig {
	a.WriteTimeout = time.Second * time.Duration(t)
	return a
}

func (a *ApiConfig) SetReadTimeout(t int64) *ApiConfig {
	a.ReadTimeout = time.Second * time.Duration(t)
	return a
}

func (a *ApiConfig) SetIdleTimeout(t int64) *ApiConfig {
	a.IdleTimeout = time.Second * time.Duration(t)
	return a
}

func (a *ApiConfig) GetWebUrl() string {
	if a.Listener != nil {
		return "http://" + a.Listener.Addr().String()
	}
	return fmt.Sprintf("http://localhost:%d", a.Port)
}

// NewRouter returns the base router shared by every app.
func NewRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(accessLog)
	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming handlers (MCP, A2A) working behind the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug("http request", "method", r.Method, "path", r.URL.Path,
			"status", rec.status, "duration", time.Since(start).String())
	})
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Warn("write response failed", "error", err)
	}
}

// Run serves app until ctx is done or SIGINT/SIGTERM arrives. Request
// contexts derive from ctx, so shutdown cancels in-flight provider calls;
// Run then waits for handlers to return and flushes observability.
func Run(ctx context.Context, config *RunConfig, app BasicApp) error {
	if config == nil {
		config = &RunConfig{}
	}
	if config.SessionService == nil {
		config.SessionService = session.InMemoryService()
	}

	defer func() {
		if err := observability.Shutdown(context.Background()); err != nil {
			log.Errorf("shutting down observability error: %s", err.Error())
			return
		}
		log.Info("observability stopped")
	}()

	apiConfig := app.GetApiConfig()
	router := NewRouter()
	if err := app.SetupRouters(router, config); err != nil {
		return fmt.Errorf("setup %s routers failed: %w", app.GetServerName(), err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", apiConfig.Port),
		WriteTimeout: apiConfig.WriteTimeout,
		ReadTimeout:  apiConfig.ReadTimeout,
		IdleTimeout:  apiConfig.IdleTimeout,
		Handler:      router,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("%s starts on %s", app.GetServerName(), apiConfig.GetWebUrl())
		if apiConfig.Listener != nil {
			serveErr <- srv.Serve(apiConfig.Listener)
			return
		}
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s failed: %w", app.GetServerName(), err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infof("Received shutdown signal, gracefully stopping %s...", app.GetServerName())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s shutdown failed: %w", app.GetServerName(), err)
	}
	log.Infof("%s stopped gracefully", app.GetServerName())
	return nil
}

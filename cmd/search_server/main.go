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

	"github.com/volcengine/vesearch-go/apps"
	"github.com/volcengine/vesearch-go/apps/search_app"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/log"
	"github.com/volcengine/vesearch-go/observability"
	"github.com/volcengine/vesearch-go/proxy"
)

func main() {
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

	service, err := proxy.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Errorf("build search service failed: %v", err)
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
	app := search_app.NewSearchApp(apiConfig, service)
	if err := app.Run(ctx, &apps.RunConfig{}); err != nil {
		log.Errorf("Run failed: %v", err)
		os.Exit(1)
	}
}

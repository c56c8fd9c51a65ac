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
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/frontend"
	"github.com/volcengine/vesearch-go/log"
	"github.com/volcengine/vesearch-go/proxy"
)

func main() {
	cfg := configs.GetGlobalConfig()

	mode := flag.String("mode", cfg.Frontend.Mode, "direct (call providers in process) or proxy (call a search server)")
	lang := flag.String("lang", cfg.Frontend.Language, "answer language, 中文 or English")
	n := flag.Int("n", cfg.Search.NumResults, "number of search results")
	server := flag.String("server", cfg.Frontend.ServerURL, "search server URL in proxy mode")
	query := flag.String("q", "", "run a single query and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	searcher, err := frontend.NewSearcher(*mode, *server, func() (*proxy.Service, error) {
		return proxy.NewFromConfig(ctx, cfg)
	})
	if err != nil {
		log.Errorf("build searcher failed: %v", err)
		os.Exit(1)
	}
	renderer, err := frontend.NewRenderer(os.Stdout)
	if err != nil {
		log.Errorf("build renderer failed: %v", err)
		os.Exit(1)
	}

	repl := &frontend.REPL{
		Searcher:   searcher,
		Renderer:   renderer,
		Language:   *lang,
		NumResults: *n,
		In:         os.Stdin,
		Out:        os.Stdout,
	}
	if *query != "" {
		err = repl.Ask(ctx, *query)
	} else {
		fmt.Printf("vesearch (%s mode), type exit to quit\n", *mode)
		err = repl.Run(ctx)
	}
	if err != nil {
		log.Errorf("search cli failed: %v", err)
		os.Exit(1)
	}
}

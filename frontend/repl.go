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

package frontend

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/volcengine/vesearch-go/log"
	"github.com/volcengine/vesearch-go/prompts"
	"github.com/volcengine/vesearch-go/proxy"
)

var exitWords = map[string]struct{}{
	"exit": {},
	"quit": {},
	"bye":  {},
}

// REPL reads queries line by line and renders each answer.
type REPL struct {
	Searcher   Searcher
	Renderer   *Renderer
	Language   string
	NumResults int
	In         io.Reader
	Out        io.Writer
}

func (r *REPL) lang() prompts.Language {
	return prompts.ParseLanguage(r.Language)
}

// Ask runs a single query and renders the answer or the error inline.
func (r *REPL) Ask(ctx context.Context, query string) error {
	lang := r.lang()
	resp, err := r.Searcher.Search(ctx, &proxy.SearchRequest{
		Query:      query,
		Language:   prompts.Label(r.Language),
		NumResults: proxy.NumResults(r.NumResults),
	})
	if err != nil {
		log.Debug("search failed", "error", err)
		return r.Renderer.RenderError(err, lang)
	}
	return r.Renderer.Render(resp, lang)
}

// Run loops until an exit word, EOF, or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	lang := r.lang()
	prompt := prompts.Pick(lang, "请输入搜索内容", "Please enter a search query")
	scanner := bufio.NewScanner(r.In)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprintf(r.Out, "%s > ", prompt)
		if !scanner.Scan() {
			fmt.Fprintln(r.Out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if _, ok := exitWords[strings.ToLower(line)]; ok {
			fmt.Fprintln(r.Out, "Goodbye!")
			return nil
		}
		if line == "" {
			fmt.Fprintln(r.Out, prompt)
			continue
		}
		if err := r.Ask(ctx, line); err != nil {
			return err
		}
	}
}

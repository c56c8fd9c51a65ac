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

package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volcengine/vesearch-go/completion"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/prompts"
	"github.com/volcengine/vesearch-go/search"
)

type stubSearcher struct {
	results []search.Result
	err     error
	calls   int
	gotN    int
	gotQ    string
}

func (s *stubSearcher) Name() string { return "stub" }

func (s *stubSearcher) Search(_ context.Context, query string, n int) ([]search.Result, error) {
	s.calls++
	s.gotQ, s.gotN = query, n
	return s.results, s.err
}

type stubCompleter struct {
	summary string
	err     error
	calls   int
	got     *completion.Request
}

func (c *stubCompleter) Complete(_ context.Context, req *completion.Request) (string, error) {
	c.calls++
	c.got = req
	return c.summary, c.err
}

func results(n int) []search.Result {
	out := make([]search.Result, n)
	for i := range out {
		out[i] = search.Result{
			Title:   fmt.Sprintf("title %d", i+1),
			Content: fmt.Sprintf("content %d", i+1),
			URL:     fmt.Sprintf("https://example.com/%d", i+1),
		}
	}
	return out
}

func TestHandleSearch_ReturnsResultsInOrderAndSummary(t *testing.T) {
	searcher := &stubSearcher{results: results(3)}
	completer := &stubCompleter{summary: "T"}
	svc := NewService(searcher, completer)

	resp, err := svc.HandleSearch(context.Background(), &SearchRequest{Query: "golang", Language: "English", NumResults: 3})
	require.NoError(t, err)

	want := &SearchResponse{Query: "golang", Language: "English", Summary: "T", Results: results(3)}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("HandleSearch() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, searcher.calls)
	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, 3, searcher.gotN)
	assert.Equal(t, prompts.SummaryPrompt("golang", prompts.English, results(3)), completer.got.Prompt)
	assert.Equal(t, prompts.SummarySystemEN, completer.got.SystemInstruction)
	assert.Equal(t, int32(1000), completer.got.MaxTokens)
	assert.InDelta(t, 0.3, *completer.got.Temperature, 1e-6)
}

func TestHandleSearch_RecursionExample(t *testing.T) {
	searcher := &stubSearcher{results: []search.Result{
		{Title: "递归 - 维基百科", Content: "递归是指在函数的定义中使用函数自身的方法。", URL: "https://zh.wikipedia.org/wiki/递归"},
		{Title: "Python 递归", Content: "def fact(n): return 1 if n <= 1 else n * fact(n-1)", URL: "https://docs.python.org"},
	}}
	completer := &stubCompleter{summary: "递归是函数直接或间接调用自身的编程技巧。"}
	svc := NewService(searcher, completer)

	resp, err := svc.HandleSearch(context.Background(), &SearchRequest{Query: "请解释什么是递归"})
	require.NoError(t, err)

	assert.Equal(t, "中文", resp.Language)
	assert.Equal(t, 5, searcher.gotN)
	assert.Equal(t, prompts.SummarySystemZH, completer.got.SystemInstruction)
	assert.Equal(t, "以下是关于'请解释什么是递归'的搜索结果，请提供一个全面的总结:"+
		"\n\n结果 1:\n标题: 递归 - 维基百科\n内容: 递归是指在函数的定义中使用函数自身的方法。\n链接: https://zh.wikipedia.org/wiki/递归"+
		"\n\n结果 2:\n标题: Python 递归\n内容: def fact(n): return 1 if n <= 1 else n * fact(n-1)\n链接: https://docs.python.org",
		completer.got.Prompt)
	assert.Equal(t, completer.summary, resp.Summary)
	assert.Len(t, resp.Results, 2)
}

func TestHandleSearch_EmptyQueryMakesNoCalls(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		searcher := &stubSearcher{}
		completer := &stubCompleter{}
		resp, err := NewService(searcher, completer).HandleSearch(context.Background(), &SearchRequest{Query: q})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrInvalidRequest)
		assert.Equal(t, StageValidate, Stage(err))
		assert.Zero(t, searcher.calls)
		assert.Zero(t, completer.calls)
	}

	_, err := NewService(&stubSearcher{}, &stubCompleter{}).HandleSearch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestHandleSearch_SearchFailureSkipsCompletion(t *testing.T) {
	boom := errors.New("exa returned 401")
	searcher := &stubSearcher{err: boom}
	completer := &stubCompleter{summary: "never"}

	resp, err := NewService(searcher, completer).HandleSearch(context.Background(), &SearchRequest{Query: "q"})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, "search failed: exa returned 401", err.Error())
	assert.ErrorIs(t, err, boom)
	var spe *SearchProviderError
	require.ErrorAs(t, err, &spe)
	assert.Equal(t, "stub", spe.Provider)
	assert.Equal(t, StageSearch, Stage(err))
	assert.Zero(t, completer.calls)
}

func TestHandleSearch_CompletionFailureReturnsNoPartial(t *testing.T) {
	completer := &stubCompleter{summary: "partial text", err: errors.New("rate limited")}
	resp, err := NewService(&stubSearcher{results: results(2)}, completer).
		HandleSearch(context.Background(), &SearchRequest{Query: "q"})
	assert.Nil(t, resp)
	assert.EqualError(t, err, "summary failed: rate limited")
	assert.Equal(t, StageCompletion, Stage(err))
}

func TestHandleSearch_NumResults(t *testing.T) {
	cases := []struct {
		name      string
		requested NumResults
		cfg       Config
		want      int
	}{
		{name: "default", requested: 0, cfg: DefaultConfig(), want: 5},
		{name: "negative", requested: -3, cfg: DefaultConfig(), want: 5},
		{name: "explicit", requested: 7, cfg: DefaultConfig(), want: 7},
		{name: "clamped", requested: 50, cfg: DefaultConfig(), want: 10},
		{name: "configured default", requested: 0, cfg: Config{DefaultNumResults: 3, MaxNumResults: 10}, want: 3},
		{name: "no max", requested: 50, cfg: Config{DefaultNumResults: 5}, want: 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			searcher := &stubSearcher{results: results(20)}
			resp, err := NewService(searcher, &stubCompleter{}, WithConfig(tc.cfg)).
				HandleSearch(context.Background(), &SearchRequest{Query: "q", NumResults: tc.requested})
			require.NoError(t, err)
			assert.Equal(t, tc.want, searcher.gotN)
			assert.LessOrEqual(t, len(resp.Results), tc.want)
		})
	}
}

func TestHandleSearch_EmptyResultsStillSummarized(t *testing.T) {
	completer := &stubCompleter{summary: ""}
	resp, err := NewService(&stubSearcher{}, completer).HandleSearch(context.Background(), &SearchRequest{Query: "obscure"})
	require.NoError(t, err)
	assert.Equal(t, "", resp.Summary)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 1, completer.calls)
}

func TestHandleSearch_LanguageFallback(t *testing.T) {
	completer := &stubCompleter{}
	resp, err := NewService(&stubSearcher{}, completer).
		HandleSearch(context.Background(), &SearchRequest{Query: "q", Language: "klingon"})
	require.NoError(t, err)
	assert.Equal(t, "klingon", resp.Language)
	assert.Equal(t, prompts.SummarySystemZH, completer.got.SystemInstruction)
}

func TestHandleSearch_Guardrail(t *testing.T) {
	svc := NewService(&stubSearcher{}, &stubCompleter{summary: "buy cheap pills now"},
		WithGuardrail(NewKeywordGuardrail([]string{"cheap pills", " "})))
	resp, err := svc.HandleSearch(context.Background(), &SearchRequest{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, "buy *** now", resp.Summary)

	svc = NewService(&stubSearcher{}, &stubCompleter{summary: "buy cheap pills now"},
		WithGuardrail(&KeywordGuardrail{Terms: []string{"pills"}, Reject: true}))
	resp, err = svc.HandleSearch(context.Background(), &SearchRequest{Query: "q"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrBlockedContent)
	assert.Equal(t, StageGuardrail, Stage(err))

	svc = NewService(&stubSearcher{}, &stubCompleter{summary: "s"},
		WithGuardrail(GuardrailFunc(func(_ context.Context, s string) (string, error) { return s + "!", nil })))
	resp, err = svc.HandleSearch(context.Background(), &SearchRequest{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, "s!", resp.Summary)
}

func TestNumResults_UnmarshalJSON(t *testing.T) {
	cases := map[string]NumResults{
		`{"query":"q","num_results":3}`:     3,
		`{"query":"q","num_results":"4"}`:   4,
		`{"query":"q","num_results":2.0}`:   2,
		`{"query":"q","num_results":2.5}`:   0,
		`{"query":"q","num_results":"abc"}`: 0,
		`{"query":"q","num_results":null}`:  0,
		`{"query":"q","num_results":true}`:  0,
		`{"query":"q"}`:                     0,
	}
	for body, want := range cases {
		var req SearchRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		assert.Equal(t, want, req.NumResults, body)
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(&configs.SearchConfig{NumResults: 3, MaxNumResults: 8}, &configs.SummaryConfig{MaxTokens: 500, Temperature: 0.7})
	assert.Equal(t, Config{DefaultNumResults: 3, MaxNumResults: 8, MaxTokens: 500, Temperature: 0.7}, cfg)
	assert.Equal(t, DefaultConfig(), ConfigFrom(nil, nil))
}

func TestStage(t *testing.T) {
	assert.Equal(t, "", Stage(nil))
	assert.Equal(t, "", Stage(errors.New("other")))
	assert.Equal(t, StageSearch, Stage(fmt.Errorf("wrapped: %w", &SearchProviderError{Err: errors.New("x")})))
}

type healthSearcher struct {
	stubSearcher
	err error
}

func (h *healthSearcher) HealthCheck(context.Context) error { return h.err }

func TestService_HealthCheck(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, NewService(&stubSearcher{}, &stubCompleter{}).HealthCheck(ctx))
	assert.NoError(t, NewService(&healthSearcher{}, &stubCompleter{}).HealthCheck(ctx))

	down := errors.New("searxng unreachable")
	assert.ErrorIs(t, NewService(&healthSearcher{err: down}, &stubCompleter{}).HealthCheck(ctx), down)
}

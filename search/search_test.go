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

package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volcengine/vesearch-go/auth/veauth"
	"github.com/volcengine/vesearch-go/configs"
)

func TestNew(t *testing.T) {
	cfg := &configs.SearchConfig{
		Exa:        &configs.ExaConfig{APIKey: "k", BaseURL: "https://api.exa.ai"},
		ExaMCP:     &configs.ExaMCPConfig{Endpoint: "https://mcp.exa.ai/mcp", APIKey: "k", ToolName: "web_search_exa"},
		SearXNG:    &configs.SearXNGConfig{BaseURL: "http://localhost:8080"},
		Volcengine: &configs.VolcWebSearchConfig{Region: "cn-beijing"},
		DuckDuckGo: &configs.DuckDuckGoConfig{},
	}
	for _, name := range []string{ProviderExa, ProviderExaMCP, ProviderSearXNG, ProviderVolcengine, ProviderDuckDuckGo} {
		t.Run(name, func(t *testing.T) {
			cfg.Provider = name
			p, err := New(cfg)
			require.NoError(t, err)
			assert.Equal(t, name, p.Name())
		})
	}

	cfg.Provider = "bing"
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(&configs.SearchConfig{Provider: ProviderExa, Exa: &configs.ExaConfig{BaseURL: "https://api.exa.ai"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APIKey")

	_, err = New(&configs.SearchConfig{Provider: ProviderSearXNG, SearXNG: &configs.SearXNGConfig{}})
	require.Error(t, err)
}

func TestExaProviderSearch(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "exa-key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"results":[
			{"title":" Recursion ","url":"http://x","text":"a function calling itself"},
			{"title":"Loop","url":"http://y","highlights":["iterate"]},
			{"title":"Extra","url":"http://z","text":"dropped"}
		]}`))
	}))
	defer srv.Close()

	p, err := NewExaProvider(&configs.ExaConfig{APIKey: "exa-key", BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	results, err := p.Search(context.Background(), "递归", 2)
	require.NoError(t, err)
	want := []Result{
		{Title: "Recursion", Content: "a function calling itself", URL: "http://x"},
		{Title: "Loop", Content: "iterate", URL: "http://y"},
	}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "递归", got["query"])
	assert.EqualValues(t, 2, got["numResults"])
	assert.Equal(t, true, got["useAutoprompt"])
	assert.Equal(t, map[string]any{"text": true}, got["contents"])
}

func TestExaProviderStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	p, err := NewExaProvider(&configs.ExaConfig{APIKey: "bad", BaseURL: srv.URL, MaxCharacters: 100}, srv.Client())
	require.NoError(t, err)

	_, err = p.Search(context.Background(), "golang", 5)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestExaProviderHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	p, err := NewExaProvider(&configs.ExaConfig{APIKey: "k", BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Search(ctx, "golang", 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearXNGProviderSearch(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		queries = append(queries, r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"results":[
			{"title":"low","url":"http://low","content":"c1","score":0.5},
			{"title":"high","url":"http://high","content":"c2","score":2.0},
			{"title":"mid","url":"http://mid","content":"c3","score":1.0}
		]}`))
	}))
	defer srv.Close()

	p, err := NewSearXNGProvider(&configs.SearXNGConfig{BaseURL: srv.URL + "/"}, srv.Client())
	require.NoError(t, err)

	results, err := p.Search(context.Background(), "golang", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "high", results[0].Title)
	assert.Equal(t, "mid", results[1].Title)
	assert.NoError(t, p.HealthCheck(context.Background()))
	assert.Equal(t, []string{"golang", "test"}, queries)
}

func TestSearXNGProviderForbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p, err := NewSearXNGProvider(&configs.SearXNGConfig{BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	_, err = p.Search(context.Background(), "golang", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON API may not be enabled")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Error(t, p.HealthCheck(context.Background()))
}

func TestVolcengineProviderSearch(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "WebSearch", r.URL.Query().Get("Action"))
		assert.Equal(t, "sts", r.Header.Get("X-Security-Token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"Result":{"WebResults":[
			{"Title":"A","Url":"http://a","Summary":"summary a","Content":"content a"},
			{"Title":"B","Url":"http://b","Snippet":"snippet b"}
		]}}`))
	}))
	defer srv.Close()

	p, err := NewVolcengineProvider(&configs.VolcWebSearchConfig{Region: "cn-beijing"}, srv.Client())
	require.NoError(t, err)
	p.scheme = "http"
	p.host = strings.TrimPrefix(srv.URL, "http://")
	p.credential = func() (veauth.VeIAMCredential, error) {
		return veauth.VeIAMCredential{AccessKeyID: "ak", SecretAccessKey: "sk", SessionToken: "sts"}, nil
	}

	results, err := p.Search(context.Background(), "golang", 5)
	require.NoError(t, err)
	assert.Equal(t, []Result{
		{Title: "A", Content: "summary a", URL: "http://a"},
		{Title: "B", Content: "snippet b", URL: "http://b"},
	}, results)
	assert.Equal(t, "golang", body["Query"])
	assert.EqualValues(t, 5, body["Count"])
	assert.Equal(t, true, body["NeedSummary"])
}

func TestVolcengineProviderMissingCredential(t *testing.T) {
	p, err := NewVolcengineProvider(&configs.VolcWebSearchConfig{Region: "cn-beijing"}, nil)
	require.NoError(t, err)
	p.credential = func() (veauth.VeIAMCredential, error) {
		return veauth.VeIAMCredential{}, veauth.ErrNoCredential
	}
	_, err = p.Search(context.Background(), "golang", 5)
	assert.ErrorIs(t, err, ErrVolcWebSearchConfig)
	assert.ErrorIs(t, err, veauth.ErrNoCredential)
}

type fakeDDG struct {
	out string
	err error
}

func (f fakeDDG) Call(ctx context.Context, input string) (string, error) {
	return f.out, f.err
}

func TestDuckDuckGoProviderSearch(t *testing.T) {
	p, err := NewDuckDuckGoProvider(nil)
	require.NoError(t, err)

	var gotMax int
	p.newTool = func(maxResults int, userAgent string) (ddgTool, error) {
		gotMax = maxResults
		assert.Equal(t, defaultDuckDuckGoUserAgent, userAgent)
		return fakeDDG{out: "Title: Go\nDescription: The Go language\nURL: https://go.dev\n\n" +
			"Title: Tour\nDescription: A tour\nof Go\nURL: https://go.dev/tour\n\n"}, nil
	}

	results, err := p.Search(context.Background(), "golang", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, gotMax)
	assert.Equal(t, []Result{
		{Title: "Go", Content: "The Go language", URL: "https://go.dev"},
		{Title: "Tour", Content: "A tour\nof Go", URL: "https://go.dev/tour"},
	}, results)
}

func TestDuckDuckGoProviderNoResults(t *testing.T) {
	p, err := NewDuckDuckGoProvider(&configs.DuckDuckGoConfig{UserAgent: "ua"})
	require.NoError(t, err)
	p.newTool = func(int, string) (ddgTool, error) {
		return fakeDDG{out: duckDuckGoNoResult}, nil
	}
	results, err := p.Search(context.Background(), "golang", 3)
	require.NoError(t, err)
	assert.Empty(t, results)

	p.newTool = func(int, string) (ddgTool, error) {
		return fakeDDG{err: errors.New("rate limited")}, nil
	}
	_, err = p.Search(context.Background(), "golang", 3)
	assert.ErrorContains(t, err, "rate limited")
}

type exaMCPArgs struct {
	Query      string `json:"query"`
	NumResults int    `json:"numResults"`
}

func newExaMCPServer(t *testing.T, output string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := mcp.NewServer(&mcp.Implementation{Name: "exa-stub", Version: "v0.0.1"}, nil)
	mcp.AddTool(server, &mcp.Tool{Name: "web_search_exa", Description: "stub"},
		func(ctx context.Context, req *mcp.CallToolRequest, in exaMCPArgs) (*mcp.CallToolResult, any, error) {
			hits.Add(1)
			assert.Equal(t, "golang", in.Query)
			assert.Equal(t, 2, in.NumResults)
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: output}}}, nil, nil
		})
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, &mcp.StreamableHTTPOptions{Stateless: true})
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("exa-api-key") != "exa-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	}))
}

func TestExaMCPProviderSearch(t *testing.T) {
	var hits atomic.Int32
	long := strings.Repeat("x", 300)
	srv := newExaMCPServer(t, "Title: First\nURL: https://a\nText: "+long+"\n\nTitle: \nText: short", &hits)
	defer srv.Close()

	p, err := NewExaMCPProvider(&configs.ExaMCPConfig{
		Endpoint: srv.URL, APIKey: "exa-key", ToolName: "web_search_exa", ContentChars: 250,
	}, srv.Client())
	require.NoError(t, err)

	results, err := p.Search(context.Background(), "golang", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "First", results[0].Title)
	assert.Equal(t, strings.Repeat("x", 250)+"...", results[0].Content)
	assert.Equal(t, "Untitled", results[1].Title)
	assert.Equal(t, "#", results[1].URL)
	assert.Equal(t, "short", results[1].Content)
	assert.EqualValues(t, 1, hits.Load())
}

func TestParseExaMCPTextJSON(t *testing.T) {
	results, err := parseExaMCPText(`{"results":[{"title":"T","url":"https://t","text":"body"}]}`)
	require.NoError(t, err)
	assert.Equal(t, []Result{{Title: "T", Content: "body", URL: "https://t"}}, results)

	_, err = parseExaMCPText("no labels here")
	assert.ErrorIs(t, err, errUnrecognizedToolOutput)
}

func TestParseLabeledBlocks(t *testing.T) {
	blocks := parseLabeledBlocks("noise\nTitle: a\nURL: u1\nTitle: b\nDescription: d\nmore", "Title", "Title", "URL", "Description")
	assert.Equal(t, []map[string]string{
		{"Title": "a", "URL": "u1"},
		{"Title": "b", "Description": "d\nmore"},
	}, blocks)
}

func TestResolveEndpoint(t *testing.T) {
	assert.Equal(t, "https://api.exa.ai/search", resolveEndpoint("https://api.exa.ai/", "/search"))
	assert.Equal(t, "https://proxy/exa/search", resolveEndpoint("https://proxy/exa", "/search"))
	assert.Equal(t, "https://proxy/exa/search", resolveEndpoint("https://proxy/exa/search", "/search"))
	assert.Equal(t, "", resolveEndpoint(" ", "/search"))
}

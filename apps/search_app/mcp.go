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

package search_app

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/volcengine/vesearch-go/observability"
	"github.com/volcengine/vesearch-go/proxy"
)

const mcpToolName = "web_search_summary"

type mcpSearchArgs struct {
	Query      string `json:"query" jsonschema:"the search query"`
	Language   string `json:"language,omitempty" jsonschema:"answer language, 中文 or English"`
	NumResults int    `json:"num_results,omitempty" jsonschema:"number of results to retrieve"`
}

func newMCPServer(service *proxy.Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "vesearch",
		Version: observability.Version,
	}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        mcpToolName,
		Description: "Search the web and summarize the results with an LLM.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in mcpSearchArgs) (*mcp.CallToolResult, proxy.SearchResponse, error) {
		resp, err := service.HandleSearch(ctx, &proxy.SearchRequest{
			Query:      in.Query,
			Language:   in.Language,
			NumResults: proxy.NumResults(in.NumResults),
		})
		if err != nil {
			return nil, proxy.SearchResponse{}, err
		}
		return nil, *resp, nil
	})
	return server
}

func newMCPHandler(service *proxy.Service) http.Handler {
	server := newMCPServer(service)
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{Stateless: true})
}

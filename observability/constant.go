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

package observability

import (
	"runtime/debug"
)

// InstrumentationName is the name of this instrumentation package.
const (
	InstrumentationName = "github.com/volcengine/vesearch-go"
)

var (
	// Version is the version of this instrumentation package.
	Version = getVersion()
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == InstrumentationName && dep.Version != "" {
				return dep.Version
			}
		}
		if info.Main.Path == InstrumentationName && info.Main.Version != "" {
			return info.Main.Version
		}
	}
	return "<unknown>"
}

// Span names
const (
	SpanHandle     = "search_proxy.handle"
	SpanSearch     = "search_proxy.search"
	SpanCompletion = "search_proxy.completion"
)

// Metric names
const (
	MetricNameRequestCount      = "vesearch.request.count"
	MetricNameSearchDuration    = "vesearch.search.duration"
	MetricNameExceptions        = "vesearch.exceptions"
	MetricNameTokenUsage        = "gen_ai.client.token.usage"
	MetricNameOperationDuration = "gen_ai.client.operation.duration"
)

const (
	AttrServiceName     = "service.name"
	AttrInstrumentation = "openinference.instrumentation.vesearch"
	AttrStatus          = "status"
	AttrStage           = "stage"
	AttrErrorType       = "error.type"

	AttrSearchProvider   = "vesearch.search.provider"
	AttrSearchQuery      = "vesearch.search.query"
	AttrSearchNumResults = "vesearch.search.num_results"
	AttrSearchLanguage   = "vesearch.search.language"
	AttrResultCount      = "vesearch.search.result_count"

	AttrGenAISystem             = "gen_ai.system"
	AttrGenAISpanKind           = "gen_ai.span.kind"
	AttrGenAIOperationName      = "gen_ai.operation.name"
	AttrGenAIRequestModel       = "gen_ai.request.model"
	AttrGenAIResponseModel      = "gen_ai.response.model"
	AttrGenAIRequestMaxTokens   = "gen_ai.request.max_tokens"
	AttrGenAIRequestTemperature = "gen_ai.request.temperature"
	AttrGenAIUsageInputTokens   = "gen_ai.usage.input_tokens"
	AttrGenAIUsageOutputTokens  = "gen_ai.usage.output_tokens"
	AttrGenAITokenType          = "gen_ai_token_type" // metric label
)

const (
	FallbackServiceName = "<unknown_service>"

	SpanKindWorkflow  = "workflow"
	SpanKindLLM       = "llm"
	SpanKindRetriever = "retriever"

	OperationNameChat     = "chat"
	OperationNameRetrieve = "retrieve"

	StatusSuccess = "success"
	StatusError   = "error"
)

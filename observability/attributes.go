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
	"context"
	"os"

	"github.com/volcengine/vesearch-go/configs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns the package tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName, trace.WithInstrumentationVersion(Version))
}

// StartSpan opens a span of the given GenAI kind.
func StartSpan(ctx context.Context, name, kind string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String(AttrGenAISpanKind, kind))
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err, if any, and ends span.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// SearchAttributes describes one search provider call.
func SearchAttributes(provider, query string, numResults int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrSearchProvider, provider),
		attribute.String(AttrSearchQuery, query),
		attribute.Int(AttrSearchNumResults, numResults),
	}
}

// LLMAttributes describes one chat completion request.
func LLMAttributes(model string, maxTokens int32, temperature float32) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrGenAIOperationName, OperationNameChat),
		attribute.String(AttrGenAIRequestModel, model),
		attribute.Int(AttrGenAIRequestMaxTokens, int(maxTokens)),
		attribute.Float64(AttrGenAIRequestTemperature, float64(temperature)),
	}
}

func getServiceName(cfg *configs.OpenTelemetryConfig) string {
	if name := os.Getenv(configs.EnvOtelServiceName); name != "" {
		return name
	}
	if cfg != nil && cfg.ApmPlus != nil && cfg.ApmPlus.ServiceName != "" {
		return cfg.ApmPlus.ServiceName
	}
	return FallbackServiceName
}

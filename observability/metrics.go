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
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

var (
	// Token usage buckets (count)
	genAIClientTokenUsageBuckets = []float64{
		1, 4, 16, 64, 256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304,
	}

	// Operation duration buckets (seconds)
	genAIClientOperationDurationBuckets = []float64{
		0.01, 0.02, 0.04, 0.08, 0.16, 0.32, 0.64, 1.28, 2.56, 5.12, 10.24, 20.48, 40.96, 81.92,
	}
)

var (
	globalOnce          sync.Once
	instrumentsMu       sync.RWMutex
	globalMeterProvider *sdkmetric.MeterProvider

	requestCounters             []metric.Int64Counter
	exceptionCounters           []metric.Int64Counter
	searchDurationHistograms    []metric.Float64Histogram
	operationDurationHistograms []metric.Float64Histogram
	tokenUsageHistograms        []metric.Float64Histogram
)

func currentMeterProvider() *sdkmetric.MeterProvider {
	instrumentsMu.RLock()
	defer instrumentsMu.RUnlock()
	return globalMeterProvider
}

// registerGlobalMetrics installs a global MeterProvider over readers.
func registerGlobalMetrics(readers []sdkmetric.Reader) {
	globalOnce.Do(func() {
		options := make([]sdkmetric.Option, 0, len(readers))
		for _, r := range readers {
			options = append(options, sdkmetric.WithReader(r))
		}
		mp := sdkmetric.NewMeterProvider(options...)
		otel.SetMeterProvider(mp)

		instrumentsMu.Lock()
		globalMeterProvider = mp
		instrumentsMu.Unlock()
		initializeInstruments(mp.Meter(InstrumentationName))
	})
}

// initializeInstruments creates the instruments on m and appends them to the
// recording set.
func initializeInstruments(m metric.Meter) {
	instrumentsMu.Lock()
	defer instrumentsMu.Unlock()

	if c, err := m.Int64Counter(
		MetricNameRequestCount,
		metric.WithDescription("Number of search-summarize requests"),
		metric.WithUnit("1"),
	); err == nil {
		requestCounters = append(requestCounters, c)
	}

	if c, err := m.Int64Counter(
		MetricNameExceptions,
		metric.WithDescription("Number of failed requests by stage"),
		metric.WithUnit("1"),
	); err == nil {
		exceptionCounters = append(exceptionCounters, c)
	}

	if h, err := m.Float64Histogram(
		MetricNameSearchDuration,
		metric.WithDescription("Search provider call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(genAIClientOperationDurationBuckets...),
	); err == nil {
		searchDurationHistograms = append(searchDurationHistograms, h)
	}

	if h, err := m.Float64Histogram(
		MetricNameOperationDuration,
		metric.WithDescription("GenAI operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(genAIClientOperationDurationBuckets...),
	); err == nil {
		operationDurationHistograms = append(operationDurationHistograms, h)
	}

	if h, err := m.Float64Histogram(
		MetricNameTokenUsage,
		metric.WithDescription("Token consumption of LLM invocations"),
		metric.WithUnit("count"),
		metric.WithExplicitBucketBoundaries(genAIClientTokenUsageBuckets...),
	); err == nil {
		tokenUsageHistograms = append(tokenUsageHistograms, h)
	}
}

// RecordRequest counts one finished request.
func RecordRequest(ctx context.Context, status string, attrs ...attribute.KeyValue) {
	instrumentsMu.RLock()
	defer instrumentsMu.RUnlock()
	attrs = append(attrs, attribute.String(AttrStatus, status))
	for _, c := range requestCounters {
		c.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordException counts one failure attributed to stage.
func RecordException(ctx context.Context, stage string, attrs ...attribute.KeyValue) {
	instrumentsMu.RLock()
	defer instrumentsMu.RUnlock()
	attrs = append(attrs, attribute.String(AttrStage, stage))
	for _, c := range exceptionCounters {
		c.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func RecordSearchDuration(ctx context.Context, seconds float64, attrs ...attribute.KeyValue) {
	instrumentsMu.RLock()
	defer instrumentsMu.RUnlock()
	for _, h := range searchDurationHistograms {
		h.Record(ctx, seconds, metric.WithAttributes(attrs...))
	}
}

func RecordOperationDuration(ctx context.Context, seconds float64, attrs ...attribute.KeyValue) {
	instrumentsMu.RLock()
	defer instrumentsMu.RUnlock()
	for _, h := range operationDurationHistograms {
		h.Record(ctx, seconds, metric.WithAttributes(attrs...))
	}
}

// RecordTokenUsage records input and output tokens as separate points.
func RecordTokenUsage(ctx context.Context, input, output int64, attrs ...attribute.KeyValue) {
	instrumentsMu.RLock()
	defer instrumentsMu.RUnlock()
	for _, h := range tokenUsageHistograms {
		if input > 0 {
			h.Record(ctx, float64(input), metric.WithAttributes(
				append(attrs, attribute.String(AttrGenAITokenType, "input"))...))
		}
		if output > 0 {
			h.Record(ctx, float64(output), metric.WithAttributes(
				append(attrs, attribute.String(AttrGenAITokenType, "output"))...))
		}
	}
}

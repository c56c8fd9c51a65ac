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
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/log"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

const (
	OTELExporterOTLPProtocolEnvKey = "OTEL_EXPORTER_OTLP_PROTOCOL"
	OTELExporterOTLPEndpointEnvKey = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

var fileWriters sync.Map

func otlpTarget(url, protocol string) (string, string) {
	if protocol == "" {
		protocol = os.Getenv(OTELExporterOTLPProtocolEnvKey)
	}
	if url == "" {
		url = os.Getenv(OTELExporterOTLPEndpointEnvKey)
	}
	return url, protocol
}

func createTraceClient(ctx context.Context, url, protocol string, headers map[string]string) (trace.SpanExporter, error) {
	url, protocol = otlpTarget(url, protocol)
	if url == "" {
		return nil, errors.New("OTLP trace endpoint is not set")
	}
	if strings.HasPrefix(protocol, "http") {
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(url), otlptracehttp.WithHeaders(headers))
	}
	return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(url), otlptracegrpc.WithHeaders(headers))
}

func createMetricClient(ctx context.Context, url, protocol string, headers map[string]string) (sdkmetric.Exporter, error) {
	url, protocol = otlpTarget(url, protocol)
	if url == "" {
		return nil, errors.New("OTLP metric endpoint is not set")
	}
	if strings.HasPrefix(protocol, "http") {
		return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(url), otlpmetrichttp.WithHeaders(headers))
	}
	return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpointURL(url), otlpmetricgrpc.WithHeaders(headers))
}

// getFileWriter shares one append-mode handle per absolute path between the
// span and metric exporters.
func getFileWriter(path string) io.Writer {
	if path == "" {
		log.Warn("No path provided for file writer, using io.Discard")
		return io.Discard
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		log.Warn("Failed to resolve absolute path, using original", "path", path, "err", err)
		absPath = path
	}
	if w, ok := fileWriters.Load(absPath); ok {
		return w.(io.Writer)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		log.Warn("Failed to create directory for exporter", "path", absPath, "err", err)
	}
	f, err := os.OpenFile(absPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Warn("Failed to open file for exporter, will use io.Discard instead", "path", absPath, "err", err)
		return io.Discard
	}
	w, loaded := fileWriters.LoadOrStore(absPath, f)
	if loaded {
		_ = f.Close()
	}
	return w.(io.Writer)
}

func apmPlusHeaders(cfg *configs.ApmPlusConfig) map[string]string {
	return map[string]string{"X-ByteAPM-AppKey": cfg.APIKey}
}

// NewStdoutExporter creates a simple stdout exporter with pretty printing.
func NewStdoutExporter() (trace.SpanExporter, error) {
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}

// NewAPMPlusExporter creates an OTLP exporter for APMPlus.
func NewAPMPlusExporter(ctx context.Context, cfg *configs.ApmPlusConfig) (trace.SpanExporter, error) {
	return createTraceClient(ctx, cfg.Endpoint, cfg.Protocol, apmPlusHeaders(cfg))
}

// NewFileExporter creates a span exporter that writes traces to a file.
func NewFileExporter(cfg *configs.FileConfig) (trace.SpanExporter, error) {
	return stdouttrace.New(stdouttrace.WithWriter(getFileWriter(cfg.Path)), stdouttrace.WithPrettyPrint())
}

// NewMultiExporter fans spans out to every configured sink. It returns nil
// when nothing is configured.
func NewMultiExporter(ctx context.Context, cfg *configs.OpenTelemetryConfig) (trace.SpanExporter, error) {
	var (
		exporters []trace.SpanExporter
		errs      []error
	)
	add := func(name string, exp trace.SpanExporter, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		exporters = append(exporters, exp)
		log.Info("Exporting spans", "sink", name)
	}

	if cfg.Stdout != nil && cfg.Stdout.Enable {
		exp, err := NewStdoutExporter()
		add("stdout", exp, err)
	}
	if cfg.File != nil && cfg.File.Path != "" {
		exp, err := NewFileExporter(cfg.File)
		add("file:"+cfg.File.Path, exp, err)
	}
	if cfg.ApmPlus != nil && cfg.ApmPlus.APIKey != "" {
		exp, err := NewAPMPlusExporter(ctx, cfg.ApmPlus)
		add("apmplus:"+cfg.ApmPlus.Endpoint, exp, err)
	}

	switch len(exporters) {
	case 0:
		return nil, errors.Join(errs...)
	case 1:
		return exporters[0], errors.Join(errs...)
	}
	return &multiExporter{exporters: exporters}, errors.Join(errs...)
}

type multiExporter struct {
	exporters []trace.SpanExporter
}

func (m *multiExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	var errs []error
	for _, e := range m.exporters {
		if err := e.ExportSpans(ctx, spans); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiExporter) Shutdown(ctx context.Context) error {
	var errs []error
	for _, e := range m.exporters {
		if err := e.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewMetricReader creates one periodic reader per configured sink.
func NewMetricReader(ctx context.Context, cfg *configs.OpenTelemetryConfig) ([]sdkmetric.Reader, error) {
	var (
		readers []sdkmetric.Reader
		errs    []error
	)
	add := func(name string, exp sdkmetric.Exporter, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exp))
		log.Info("Exporting metrics", "sink", name)
	}

	if cfg.Stdout != nil && cfg.Stdout.Enable {
		exp, err := stdoutmetric.New()
		add("stdout", exp, err)
	}
	if cfg.File != nil && cfg.File.Path != "" {
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(getFileWriter(cfg.File.Path)), stdoutmetric.WithPrettyPrint())
		add("file:"+cfg.File.Path, exp, err)
	}
	if cfg.ApmPlus != nil && cfg.ApmPlus.APIKey != "" {
		exp, err := createMetricClient(ctx, cfg.ApmPlus.Endpoint, cfg.ApmPlus.Protocol, apmPlusHeaders(cfg.ApmPlus))
		add("apmplus:"+cfg.ApmPlus.Endpoint, exp, err)
	}
	return readers, errors.Join(errs...)
}

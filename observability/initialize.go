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
	"sync"

	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/log"
	"google.golang.org/adk/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var (
	initConfigOnce sync.Once
	initErr        error
	// ErrNoExporters is returned when no exporters are configured.
	ErrNoExporters = errors.New("observability disabled: no exporters configured")
)

// Init installs the trace and meter providers described by cfg. Only the
// first call has any effect.
func Init(ctx context.Context, cfg *configs.ObservabilityConfig) error {
	initConfigOnce.Do(func() {
		var otelCfg *configs.OpenTelemetryConfig
		if cfg != nil {
			otelCfg = cfg.OpenTelemetry
		}
		if otelCfg == nil {
			log.Info("No observability config found, observability data will not be exported")
			initErr = ErrNoExporters
			return
		}

		initErr = initWithConfig(ctx, otelCfg)
		if initErr == nil {
			log.Info("Initialized TracerProvider and MeterProvider", "service", getServiceName(otelCfg))
		}
	})
	return initErr
}

// Shutdown flushes and stops the installed providers.
func Shutdown(ctx context.Context) error {
	log.Info("Shut down TracerProvider and MeterProvider")
	var errs []error

	if sdkTP, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); ok {
		if err := sdkTP.ForceFlush(ctx); err != nil {
			log.Error("Failed to force flush TracerProvider", "err", err)
			errs = append(errs, err)
		}
		if err := sdkTP.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown TracerProvider", "err", err)
			errs = append(errs, err)
		}
	}

	if mp := currentMeterProvider(); mp != nil {
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func initWithConfig(ctx context.Context, cfg *configs.OpenTelemetryConfig) error {
	if cfg == nil {
		return nil
	}
	var errs []error

	exp, err := NewMultiExporter(ctx, cfg)
	if err != nil {
		errs = append(errs, err)
	}
	traced := exp != nil
	if traced {
		setGlobalTracerProvider(exp, getServiceName(cfg))
		// agent-mode spans are emitted on adk's own provider
		telemetry.RegisterSpanProcessor(sdktrace.NewBatchSpanProcessor(exp))
	}

	metered := false
	if cfg.MetricsEnabled() {
		readers, err := NewMetricReader(ctx, cfg)
		if err != nil {
			errs = append(errs, err)
		}
		if len(readers) > 0 {
			registerGlobalMetrics(readers)
			metered = true
		}
	} else {
		log.Debug("Meter provider is not enabled")
	}

	if !traced && !metered {
		log.Info("No observability exporters are configured, observability data will not be exported")
		return errors.Join(append(errs, ErrNoExporters)...)
	}
	return errors.Join(errs...)
}

// setGlobalTracerProvider registers exp on the global SDK provider, creating
// one when the global is still the no-op default.
func setGlobalTracerProvider(exp sdktrace.SpanExporter, serviceName string) {
	processor := sdktrace.NewBatchSpanProcessor(exp)
	if sdkTP, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); ok {
		log.Info("Registering span processor to existing global TracerProvider")
		sdkTP.RegisterSpanProcessor(processor)
		return
	}

	log.Info("Creating a new global TracerProvider")
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String(AttrServiceName, serviceName),
			attribute.String(AttrInstrumentation, Version),
		)),
	)
	otel.SetTracerProvider(tp)
}

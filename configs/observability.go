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

package configs

import (
	"os"
	"strings"
)

const (
	EnvOtelServiceName                   = "OTEL_SERVICE_NAME"
	EnvObservabilityEnableGlobalProvider = "OBSERVABILITY_OPENTELEMETRY_ENABLE_GLOBAL_PROVIDER"
	EnvObservabilityEnableMetrics        = "OBSERVABILITY_OPENTELEMETRY_ENABLE_METRICS"

	// APMPlus
	EnvObservabilityOpenTelemetryApmPlusProtocol    = "OBSERVABILITY_OPENTELEMETRY_APMPLUS_PROTOCOL"
	EnvObservabilityOpenTelemetryApmPlusEndpoint    = "OBSERVABILITY_OPENTELEMETRY_APMPLUS_ENDPOINT"
	EnvObservabilityOpenTelemetryApmPlusAPIKey      = "OBSERVABILITY_OPENTELEMETRY_APMPLUS_API_KEY"
	EnvObservabilityOpenTelemetryApmPlusServiceName = "OBSERVABILITY_OPENTELEMETRY_APMPLUS_SERVICE_NAME"

	EnvObservabilityOpenTelemetryFilePath     = "OBSERVABILITY_OPENTELEMETRY_FILE_PATH"
	EnvObservabilityOpenTelemetryStdoutEnable = "OBSERVABILITY_OPENTELEMETRY_STDOUT_ENABLE"
)

type ObservabilityConfig struct {
	OpenTelemetry *OpenTelemetryConfig `yaml:"opentelemetry"`
}

type OpenTelemetryConfig struct {
	EnableGlobalProvider bool  `yaml:"enable_global_tracer"`
	EnableMetrics        *bool `yaml:"enable_metrics"`

	File    *FileConfig    `yaml:"file"`
	Stdout  *StdoutConfig  `yaml:"stdout"`
	ApmPlus *ApmPlusConfig `yaml:"apmplus"`
}

type ApmPlusConfig struct {
	Protocol    string `yaml:"protocol"` // grpc by default
	Endpoint    string `yaml:"endpoint"`
	APIKey      string `yaml:"api_key"`
	ServiceName string `yaml:"service_name"`
}

type FileConfig struct {
	Path string `yaml:"path"`
}

type StdoutConfig struct {
	Enable bool `yaml:"enable"`
}

func (c *ObservabilityConfig) MapEnvToConfig() {
	if c.OpenTelemetry == nil {
		c.OpenTelemetry = &OpenTelemetryConfig{}
	}
	ot := c.OpenTelemetry

	if v := getEnv(EnvObservabilityOpenTelemetryApmPlusEndpoint, "", false); v != "" {
		ot.ApmPlus = &ApmPlusConfig{
			Endpoint:    v,
			Protocol:    getEnv(EnvObservabilityOpenTelemetryApmPlusProtocol, "grpc", false),
			APIKey:      getEnv(EnvObservabilityOpenTelemetryApmPlusAPIKey, "", false),
			ServiceName: getEnv(EnvObservabilityOpenTelemetryApmPlusServiceName, "", false),
		}
		if ot.EnableMetrics == nil {
			enabled := true
			ot.EnableMetrics = &enabled
		}
		if ot.ApmPlus.ServiceName != "" && os.Getenv(EnvOtelServiceName) == "" {
			_ = os.Setenv(EnvOtelServiceName, ot.ApmPlus.ServiceName)
		}
	}

	if v := getEnv(EnvObservabilityOpenTelemetryFilePath, "", false); v != "" {
		ot.File = &FileConfig{Path: v}
	}
	if v := getEnv(EnvObservabilityOpenTelemetryStdoutEnable, "", false); v != "" {
		ot.Stdout = &StdoutConfig{Enable: isTrue(v)}
	}
	if v := getEnv(EnvObservabilityEnableGlobalProvider, "", false); v != "" {
		ot.EnableGlobalProvider = isTrue(v)
	}
	if v := getEnv(EnvObservabilityEnableMetrics, "", false); v != "" {
		enabled := isTrue(v)
		ot.EnableMetrics = &enabled
	}
}

// MetricsEnabled reports whether a meter provider should be installed.
func (c *OpenTelemetryConfig) MetricsEnabled() bool {
	return c != nil && c.EnableMetrics != nil && *c.EnableMetrics
}

func (c *ObservabilityConfig) Clone() *ObservabilityConfig {
	if c == nil {
		return nil
	}
	return &ObservabilityConfig{
		OpenTelemetry: c.OpenTelemetry.Clone(),
	}
}

func (c *OpenTelemetryConfig) Clone() *OpenTelemetryConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.EnableMetrics != nil {
		enabled := *c.EnableMetrics
		out.EnableMetrics = &enabled
	}
	if c.ApmPlus != nil {
		apm := *c.ApmPlus
		out.ApmPlus = &apm
	}
	if c.File != nil {
		file := *c.File
		out.File = &file
	}
	if c.Stdout != nil {
		stdout := *c.Stdout
		out.Stdout = &stdout
	}
	return &out
}

func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volcengine/vesearch-go/common"
	"github.com/volcengine/vesearch-go/utils"
)

func Test_loadConfigFromProjectEnv(t *testing.T) {
	fd, _ := os.Create(".env")
	_, _ = fd.WriteString("MODEL_AGENT_NAME=doubao-seed-1-6-250615")
	_ = fd.Close()
	defer func() {
		_ = os.Remove(".env")
	}()
	defer func() {
		_ = os.Unsetenv(common.MODEL_AGENT_NAME)
	}()

	_ = loadConfigFromProjectEnv()
	assert.Equal(t, "doubao-seed-1-6-250615", os.Getenv(common.MODEL_AGENT_NAME))

	_ = os.Setenv(common.MODEL_AGENT_NAME, "test")
	_ = loadConfigFromProjectEnv()
	assert.Equal(t, "test", os.Getenv(common.MODEL_AGENT_NAME))
}

func Test_loadConfigFromProjectYaml(t *testing.T) {
	fd, _ := os.Create("config.yaml")
	_, _ = fd.WriteString(`search:
  provider: "searxng"
  num_results: 7
  exa:
    api_key: "exa-key"
summary:
  guardrail_blocked_terms:
    - foo
    - bar`)
	_ = fd.Close()
	defer func() {
		_ = os.Remove("config.yaml")
	}()
	defer func() {
		for _, k := range []string{common.SEARCH_PROVIDER, common.SEARCH_NUM_RESULTS, common.SEARCH_EXA_API_KEY, common.SUMMARY_GUARDRAIL_BLOCKED_TERMS} {
			_ = os.Unsetenv(k)
		}
	}()

	require.NoError(t, loadConfigFromProjectYaml())
	assert.Equal(t, "searxng", os.Getenv(common.SEARCH_PROVIDER))
	assert.Equal(t, "7", os.Getenv(common.SEARCH_NUM_RESULTS))
	assert.Equal(t, "exa-key", utils.GetEnvWithDefault(common.SEARCH_EXA_API_KEY))
	assert.Equal(t, "foo,bar", os.Getenv(common.SUMMARY_GUARDRAIL_BLOCKED_TERMS))

	_ = os.Setenv(common.SEARCH_PROVIDER, "exa")
	require.NoError(t, loadConfigFromProjectYaml())
	assert.Equal(t, "exa", os.Getenv(common.SEARCH_PROVIDER))
}

func Test_getEnv(t *testing.T) {
	t.Setenv("VESEARCH_TEST_EMPTY", "")
	assert.Equal(t, "fallback", getEnv("VESEARCH_TEST_EMPTY", "fallback", false))
	assert.Equal(t, "", getEnv("VESEARCH_TEST_EMPTY", "fallback", true))
	assert.Equal(t, "fallback", getEnv("VESEARCH_TEST_MISSING", "fallback", true))

	t.Setenv("VESEARCH_TEST_INT", "abc")
	assert.Equal(t, 3, getEnvInt("VESEARCH_TEST_INT", 3))
	t.Setenv("VESEARCH_TEST_INT", "12")
	assert.Equal(t, 12, getEnvInt("VESEARCH_TEST_INT", 3))

	t.Setenv("VESEARCH_TEST_DURATION", "15")
	assert.Equal(t, 15*time.Second, getEnvSeconds("VESEARCH_TEST_DURATION", time.Second))
	t.Setenv("VESEARCH_TEST_DURATION", "1m")
	assert.Equal(t, time.Minute, getEnvSeconds("VESEARCH_TEST_DURATION", time.Second))
}

func TestSearchConfig_MapEnvToConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &SearchConfig{}
		cfg.MapEnvToConfig()
		assert.Equal(t, common.DEFAULT_SEARCH_PROVIDER, cfg.Provider)
		assert.Equal(t, common.DEFAULT_SEARCH_NUM_RESULTS, cfg.NumResults)
		assert.Equal(t, common.DEFAULT_SEARCH_MAX_NUM_RESULTS, cfg.MaxNumResults)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Equal(t, common.DEFAULT_EXA_MCP_ENDPOINT, cfg.ExaMCP.Endpoint)
		assert.Equal(t, common.DEFAULT_EXA_MCP_CONTENT_CHARS, cfg.ExaMCP.ContentChars)
	})

	t.Run("exa key falls back to EXA_API_KEY", func(t *testing.T) {
		t.Setenv(common.EXA_API_KEY, "legacy")
		cfg := &SearchConfig{}
		cfg.MapEnvToConfig()
		assert.Equal(t, "legacy", cfg.Exa.APIKey)
		assert.Equal(t, "legacy", cfg.ExaMCP.APIKey)

		t.Setenv(common.SEARCH_EXA_API_KEY, "primary")
		cfg.MapEnvToConfig()
		assert.Equal(t, "primary", cfg.Exa.APIKey)
	})
}

func TestSummaryConfig_MapEnvToConfig(t *testing.T) {
	t.Setenv(common.SUMMARY_GUARDRAIL_BLOCKED_TERMS, " foo, ,bar ")
	cfg := &SummaryConfig{}
	cfg.MapEnvToConfig()
	assert.Equal(t, []string{"foo", "bar"}, cfg.GuardrailBlockedTerms)
	assert.Equal(t, common.DEFAULT_SUMMARY_MAX_TOKENS, cfg.MaxTokens)
	assert.InDelta(t, 0.3, cfg.Temperature, 1e-9)
}

func TestFrontendConfig_MapEnvToConfig(t *testing.T) {
	t.Setenv(common.MCP_SERVER_URL, "http://search.internal:9000")
	cfg := &FrontendConfig{}
	cfg.MapEnvToConfig()
	assert.Equal(t, "http://search.internal:9000", cfg.ServerURL)
	assert.Equal(t, "direct", cfg.Mode)
}

func TestObservabilityConfig_MapEnvToConfig(t *testing.T) {
	t.Setenv(EnvObservabilityOpenTelemetryApmPlusEndpoint, "apmplus:4317")
	t.Setenv(EnvObservabilityOpenTelemetryStdoutEnable, "TRUE")
	cfg := &ObservabilityConfig{}
	cfg.MapEnvToConfig()

	require.NotNil(t, cfg.OpenTelemetry.ApmPlus)
	assert.Equal(t, "grpc", cfg.OpenTelemetry.ApmPlus.Protocol)
	assert.True(t, cfg.OpenTelemetry.MetricsEnabled())
	assert.True(t, cfg.OpenTelemetry.Stdout.Enable)

	clone := cfg.Clone()
	*clone.OpenTelemetry.EnableMetrics = false
	assert.True(t, cfg.OpenTelemetry.MetricsEnabled())
}

func TestSetupVeSearchConfig(t *testing.T) {
	t.Setenv(common.SEARCH_PROVIDER, "duckduckgo")
	t.Setenv(common.SERVER_PORT, "9100")
	require.NoError(t, SetupVeSearchConfig())

	cfg := GetGlobalConfig()
	assert.Equal(t, "duckduckgo", cfg.Search.Provider)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, common.DEFAULT_LOGGING_LEVEL, cfg.LOGGING.Level)
}

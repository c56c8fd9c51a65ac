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
	"time"

	"github.com/volcengine/vesearch-go/common"
	"github.com/volcengine/vesearch-go/utils"
)

type SearchConfig struct {
	Provider      string        `yaml:"provider"`
	NumResults    int           `yaml:"num_results"`
	MaxNumResults int           `yaml:"max_num_results"`
	Timeout       time.Duration `yaml:"timeout"`

	Exa        *ExaConfig           `yaml:"exa"`
	ExaMCP     *ExaMCPConfig        `yaml:"exa_mcp"`
	SearXNG    *SearXNGConfig       `yaml:"searxng"`
	Volcengine *VolcWebSearchConfig `yaml:"volcengine"`
	DuckDuckGo *DuckDuckGoConfig    `yaml:"duckduckgo"`
}

type ExaConfig struct {
	APIKey        string `yaml:"api_key" validate:"required"`
	BaseURL       string `yaml:"base_url" validate:"required"`
	Type          string `yaml:"type"`
	MaxCharacters int    `yaml:"max_characters" validate:"min=0"`
}

type ExaMCPConfig struct {
	Endpoint     string `yaml:"endpoint" validate:"required"`
	APIKey       string `yaml:"api_key" validate:"required"`
	ToolName     string `yaml:"tool_name" validate:"required"`
	ContentChars int    `yaml:"content_chars" validate:"min=0"`
}

type SearXNGConfig struct {
	BaseURL string `yaml:"base_url" validate:"required"`
}

type VolcWebSearchConfig struct {
	Region string `yaml:"region" validate:"required"`
}

type DuckDuckGoConfig struct {
	UserAgent string `yaml:"user_agent"`
}

func (c *SearchConfig) MapEnvToConfig() {
	c.Provider = getEnv(common.SEARCH_PROVIDER, common.DEFAULT_SEARCH_PROVIDER, false)
	c.NumResults = getEnvInt(common.SEARCH_NUM_RESULTS, common.DEFAULT_SEARCH_NUM_RESULTS)
	c.MaxNumResults = getEnvInt(common.SEARCH_MAX_NUM_RESULTS, common.DEFAULT_SEARCH_MAX_NUM_RESULTS)
	c.Timeout = getEnvSeconds(common.SEARCH_TIMEOUT, common.DEFAULT_SEARCH_TIMEOUT_SECONDS*time.Second)

	if c.Exa == nil {
		c.Exa = &ExaConfig{}
	}
	c.Exa.APIKey = getEnv(common.SEARCH_EXA_API_KEY, getEnv(common.EXA_API_KEY, "", false), false)
	c.Exa.BaseURL = getEnv(common.SEARCH_EXA_BASE_URL, common.DEFAULT_EXA_BASE_URL, false)
	c.Exa.Type = getEnv(common.SEARCH_EXA_TYPE, "", false)
	c.Exa.MaxCharacters = getEnvInt(common.SEARCH_EXA_MAX_CHARACTERS, 0)

	if c.ExaMCP == nil {
		c.ExaMCP = &ExaMCPConfig{}
	}
	c.ExaMCP.Endpoint = getEnv(common.SEARCH_EXA_MCP_ENDPOINT, common.DEFAULT_EXA_MCP_ENDPOINT, false)
	c.ExaMCP.APIKey = getEnv(common.SEARCH_EXA_MCP_API_KEY, c.Exa.APIKey, false)
	c.ExaMCP.ToolName = getEnv(common.SEARCH_EXA_MCP_TOOL_NAME, common.DEFAULT_EXA_MCP_TOOL_NAME, false)
	c.ExaMCP.ContentChars = getEnvInt(common.SEARCH_EXA_MCP_CONTENT_CHARS, common.DEFAULT_EXA_MCP_CONTENT_CHARS)

	if c.SearXNG == nil {
		c.SearXNG = &SearXNGConfig{}
	}
	c.SearXNG.BaseURL = getEnv(common.SEARCH_SEARXNG_BASE_URL, common.DEFAULT_SEARXNG_BASE_URL, false)

	if c.Volcengine == nil {
		c.Volcengine = &VolcWebSearchConfig{}
	}
	c.Volcengine.Region = getEnv(common.SEARCH_VOLCENGINE_REGION, common.DEFAULT_WEB_SEARCH_REGION, false)

	if c.DuckDuckGo == nil {
		c.DuckDuckGo = &DuckDuckGoConfig{}
	}
	c.DuckDuckGo.UserAgent = getEnv(common.SEARCH_DUCKDUCKGO_USER_AGENT, "", false)
}

type SummaryConfig struct {
	MaxTokens             int      `yaml:"max_tokens"`
	Temperature           float64  `yaml:"temperature"`
	GuardrailBlockedTerms []string `yaml:"guardrail_blocked_terms"`
}

func (c *SummaryConfig) MapEnvToConfig() {
	c.MaxTokens = getEnvInt(common.SUMMARY_MAX_TOKENS, common.DEFAULT_SUMMARY_MAX_TOKENS)
	c.Temperature = getEnvFloat(common.SUMMARY_TEMPERATURE, common.DEFAULT_SUMMARY_TEMPERATURE)
	c.GuardrailBlockedTerms = utils.SplitAndTrim(getEnv(common.SUMMARY_GUARDRAIL_BLOCKED_TERMS, "", false))
}

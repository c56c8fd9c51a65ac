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

package common

const (
	DEFAULT_MODEL_AGENT_NAME     = "doubao-seed-1-6-250615"
	DEFAULT_MODEL_AGENT_PROVIDER = "openai"
	DEFAULT_MODEL_AGENT_API_BASE = "https://ark.cn-beijing.volces.com/api/v3/"
	DEFAULT_MODEL_REGION         = "cn-beijing"
)

// LOGGING
const (
	DEFAULT_LOGGING_LEVEL = "info"
)

const VEFAAS_IAM_CRIDENTIAL_PATH = "/var/run/secrets/iam/credential"

// SEARCH
const (
	DEFAULT_SEARCH_PROVIDER        = "exa"
	DEFAULT_SEARCH_NUM_RESULTS     = 5
	DEFAULT_SEARCH_MAX_NUM_RESULTS = 10
	DEFAULT_SEARCH_TIMEOUT_SECONDS = 30

	DEFAULT_EXA_BASE_URL          = "https://api.exa.ai"
	DEFAULT_EXA_MCP_ENDPOINT      = "https://mcp.exa.ai/mcp"
	DEFAULT_EXA_MCP_TOOL_NAME     = "web_search_exa"
	DEFAULT_EXA_MCP_CONTENT_CHARS = 250

	DEFAULT_WEB_SEARCH_REGION = "cn-beijing"

	DEFAULT_SEARXNG_BASE_URL = "http://localhost:8080"
)

// SUMMARY
const (
	DEFAULT_SUMMARY_MAX_TOKENS  = 1000
	DEFAULT_SUMMARY_TEMPERATURE = 0.3
	DEFAULT_REDBOOK_MAX_TOKENS  = 8000
)

// SERVER
const (
	DEFAULT_SERVER_PORT = 8000
	DEFAULT_SERVER_URL  = "http://localhost:8000"
)

const DEFAULT_LLMAGENT_NAME = "veSearchAgent"

// MEMORY
const (
	DEFAULT_SHORT_TERM_MEMORY_BACKEND = "local"
)

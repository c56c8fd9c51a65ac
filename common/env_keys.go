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

// Volcengine
const (
	VOLCENGINE_ACCESS_KEY = "VOLCENGINE_ACCESS_KEY"
	VOLCENGINE_SECRET_KEY = "VOLCENGINE_SECRET_KEY"
)

// Model
const (
	MODEL_AGENT_NAME     = "MODEL_AGENT_NAME"
	MODEL_AGENT_PROVIDER = "MODEL_AGENT_PROVIDER"
	MODEL_AGENT_API_BASE = "MODEL_AGENT_API_BASE"
	MODEL_AGENT_API_KEY  = "MODEL_AGENT_API_KEY"
	MODEL_AGENT_REGION   = "MODEL_AGENT_REGION"
)

// Search
const (
	SEARCH_PROVIDER        = "SEARCH_PROVIDER"
	SEARCH_NUM_RESULTS     = "SEARCH_NUM_RESULTS"
	SEARCH_MAX_NUM_RESULTS = "SEARCH_MAX_NUM_RESULTS"
	SEARCH_TIMEOUT         = "SEARCH_TIMEOUT"

	SEARCH_EXA_API_KEY        = "SEARCH_EXA_API_KEY"
	SEARCH_EXA_BASE_URL       = "SEARCH_EXA_BASE_URL"
	SEARCH_EXA_TYPE           = "SEARCH_EXA_TYPE"
	SEARCH_EXA_MAX_CHARACTERS = "SEARCH_EXA_MAX_CHARACTERS"
	EXA_API_KEY               = "EXA_API_KEY"

	SEARCH_EXA_MCP_ENDPOINT      = "SEARCH_EXA_MCP_ENDPOINT"
	SEARCH_EXA_MCP_API_KEY       = "SEARCH_EXA_MCP_API_KEY"
	SEARCH_EXA_MCP_TOOL_NAME     = "SEARCH_EXA_MCP_TOOL_NAME"
	SEARCH_EXA_MCP_CONTENT_CHARS = "SEARCH_EXA_MCP_CONTENT_CHARS"

	SEARCH_SEARXNG_BASE_URL = "SEARCH_SEARXNG_BASE_URL"

	SEARCH_VOLCENGINE_REGION = "SEARCH_VOLCENGINE_REGION"

	SEARCH_DUCKDUCKGO_USER_AGENT = "SEARCH_DUCKDUCKGO_USER_AGENT"
)

// Summary
const (
	SUMMARY_MAX_TOKENS              = "SUMMARY_MAX_TOKENS"
	SUMMARY_TEMPERATURE             = "SUMMARY_TEMPERATURE"
	SUMMARY_GUARDRAIL_BLOCKED_TERMS = "SUMMARY_GUARDRAIL_BLOCKED_TERMS"
)

// Server
const (
	SERVER_PORT          = "SERVER_PORT"
	SERVER_READ_TIMEOUT  = "SERVER_READ_TIMEOUT"
	SERVER_WRITE_TIMEOUT = "SERVER_WRITE_TIMEOUT"
	SERVER_IDLE_TIMEOUT  = "SERVER_IDLE_TIMEOUT"
)

// Frontend
const (
	FRONTEND_MODE       = "FRONTEND_MODE"
	FRONTEND_LANGUAGE   = "FRONTEND_LANGUAGE"
	FRONTEND_SERVER_URL = "FRONTEND_SERVER_URL"
	MCP_SERVER_URL      = "MCP_SERVER_URL"
)

// Database
const (
	DATABASE_POSTGRESQL_USERNAME = "DATABASE_POSTGRESQL_USERNAME"
	DATABASE_POSTGRESQL_PASSWORD = "DATABASE_POSTGRESQL_PASSWORD"
	DATABASE_POSTGRESQL_HOST     = "DATABASE_POSTGRESQL_HOST"
	DATABASE_POSTGRESQL_PORT     = "DATABASE_POSTGRESQL_PORT"
	DATABASE_POSTGRESQL_SCHEMA   = "DATABASE_POSTGRESQL_SCHEMA"
	DATABASE_POSTGRESQL_DBURL    = "DATABASE_POSTGRESQL_DBURL"

	SHORT_TERM_MEMORY_BACKEND = "SHORT_TERM_MEMORY_BACKEND"
)

// CozeLoop / PromptPilot
const (
	COZELOOP_WORKSPACE_ID = "COZELOOP_WORKSPACE_ID"
	COZELOOP_API_TOKEN    = "COZELOOP_API_TOKEN"

	PROMPT_PILOT_PROMPT_KEY = "PROMPT_PILOT_PROMPT_KEY"
	PROMPT_PILOT_VERSION    = "PROMPT_PILOT_VERSION"
	PROMPT_PILOT_LABEL      = "PROMPT_PILOT_LABEL"
)

// LOGGING
const (
	LOGGING_LEVEL = "LOGGING_LEVEL"
)

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
	"github.com/volcengine/vesearch-go/common"
)

type CommonModelConfig struct {
	Name     string `yaml:"name"`
	Provider string `yaml:"provider"`
	ApiBase  string `yaml:"api_base"`
	ApiKey   string `yaml:"api_key"`
	Region   string `yaml:"region"`
}

type AgentConfig struct {
	CommonModelConfig
}

type ModelConfig struct {
	Agent *AgentConfig `yaml:"agent"`
}

func (c *ModelConfig) MapEnvToConfig() {
	c.Agent.Name = getEnv(common.MODEL_AGENT_NAME, common.DEFAULT_MODEL_AGENT_NAME, false)
	c.Agent.Provider = getEnv(common.MODEL_AGENT_PROVIDER, common.DEFAULT_MODEL_AGENT_PROVIDER, false)
	c.Agent.ApiBase = getEnv(common.MODEL_AGENT_API_BASE, common.DEFAULT_MODEL_AGENT_API_BASE, false)
	c.Agent.ApiKey = getEnv(common.MODEL_AGENT_API_KEY, "", false)
	c.Agent.Region = getEnv(common.MODEL_AGENT_REGION, common.DEFAULT_MODEL_REGION, false)
}

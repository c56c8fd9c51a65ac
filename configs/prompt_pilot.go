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
	"github.com/volcengine/vesearch-go/utils"
)

// PromptPilotConfig selects which managed prompt the agent pulls from CozeLoop.
type PromptPilotConfig struct {
	PromptKey string `yaml:"prompt_key"`
	Version   string `yaml:"version"`
	Label     string `yaml:"label"`
}

func (v *PromptPilotConfig) MapEnvToConfig() {
	v.PromptKey = utils.GetEnvWithDefault(common.PROMPT_PILOT_PROMPT_KEY)
	v.Version = utils.GetEnvWithDefault(common.PROMPT_PILOT_VERSION)
	v.Label = utils.GetEnvWithDefault(common.PROMPT_PILOT_LABEL)
}

type CozeLoopConfig struct {
	WorkspaceId string `yaml:"workspace_id"`
	ApiToken    string `yaml:"api_token"`
}

func (v *CozeLoopConfig) MapEnvToConfig() {
	v.WorkspaceId = utils.GetEnvWithDefault(common.COZELOOP_WORKSPACE_ID)
	v.ApiToken = utils.GetEnvWithDefault(common.COZELOOP_API_TOKEN)
}

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
)

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

func (c *ServerConfig) MapEnvToConfig() {
	c.Port = getEnvInt(common.SERVER_PORT, common.DEFAULT_SERVER_PORT)
	c.ReadTimeout = getEnvSeconds(common.SERVER_READ_TIMEOUT, 60*time.Second)
	c.WriteTimeout = getEnvSeconds(common.SERVER_WRITE_TIMEOUT, 60*time.Second)
	c.IdleTimeout = getEnvSeconds(common.SERVER_IDLE_TIMEOUT, 120*time.Second)
}

type FrontendConfig struct {
	Mode      string `yaml:"mode"`
	Language  string `yaml:"language"`
	ServerURL string `yaml:"server_url"`
}

func (c *FrontendConfig) MapEnvToConfig() {
	c.Mode = getEnv(common.FRONTEND_MODE, "direct", false)
	c.Language = getEnv(common.FRONTEND_LANGUAGE, "中文", false)
	c.ServerURL = getEnv(common.FRONTEND_SERVER_URL, getEnv(common.MCP_SERVER_URL, common.DEFAULT_SERVER_URL, false), false)
}

type Logging struct {
	Level string `yaml:"level"`
}

func (c *Logging) MapEnvToConfig() {
	c.Level = getEnv(common.LOGGING_LEVEL, common.DEFAULT_LOGGING_LEVEL, false)
}

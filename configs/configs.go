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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type VeSearchConfig struct {
	Volcengine     *Volcengine          `yaml:"volcengine"`
	Model          *ModelConfig         `yaml:"model"`
	Search         *SearchConfig        `yaml:"search"`
	Summary        *SummaryConfig       `yaml:"summary"`
	Server         *ServerConfig        `yaml:"server"`
	Frontend       *FrontendConfig      `yaml:"frontend"`
	PromptPilot    *PromptPilotConfig   `yaml:"prompt_pilot"`
	CozeLoopConfig *CozeLoopConfig      `yaml:"coze_loop"`
	Database       *DatabaseConfig      `yaml:"database"`
	LOGGING        *Logging             `yaml:"LOGGING"`
	Observability  *ObservabilityConfig `yaml:"observability"`
}

type EnvConfigMaptoStruct interface {
	MapEnvToConfig() // 用于映射环境变量到结构体字段
}

var (
	globalConfig *VeSearchConfig
	configOnce   sync.Once
)

func GetGlobalConfig() *VeSearchConfig {
	configOnce.Do(func() {
		if err := SetupVeSearchConfig(); err != nil {
			panic(err)
		}
	})
	return globalConfig
}

// SetupVeSearchConfig rebuilds the global configuration.
// Priority: process env > .env > config.yaml > built-in defaults.
func SetupVeSearchConfig() error {
	if err := loadConfigFromProjectEnv(); err != nil {
		return err
	}
	if err := loadConfigFromProjectYaml(); err != nil {
		return err
	}

	cfg := &VeSearchConfig{
		Volcengine: &Volcengine{},
		Model: &ModelConfig{
			Agent: &AgentConfig{},
		},
		Search: &SearchConfig{
			Exa:        &ExaConfig{},
			ExaMCP:     &ExaMCPConfig{},
			SearXNG:    &SearXNGConfig{},
			Volcengine: &VolcWebSearchConfig{},
			DuckDuckGo: &DuckDuckGoConfig{},
		},
		Summary:        &SummaryConfig{},
		Server:         &ServerConfig{},
		Frontend:       &FrontendConfig{},
		PromptPilot:    &PromptPilotConfig{},
		CozeLoopConfig: &CozeLoopConfig{},
		Database: &DatabaseConfig{
			Postgresql: &CommonDatabaseConfig{},
		},
		LOGGING: &Logging{},
		Observability: &ObservabilityConfig{
			OpenTelemetry: &OpenTelemetryConfig{
				EnableGlobalProvider: true,
			},
		},
	}
	for _, section := range []EnvConfigMaptoStruct{
		cfg.Volcengine,
		cfg.Model,
		cfg.Search,
		cfg.Summary,
		cfg.Server,
		cfg.Frontend,
		cfg.PromptPilot,
		cfg.CozeLoopConfig,
		cfg.Database,
		cfg.LOGGING,
		cfg.Observability,
	} {
		section.MapEnvToConfig()
	}
	globalConfig = cfg
	return nil
}

func loadConfigFromProjectEnv() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	envFilePath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFilePath); err == nil {
		// godotenv.Load 默认不会覆盖已存在的环境变量
		if err := godotenv.Load(envFilePath); err != nil {
			return fmt.Errorf("加载 .env 文件失败: %v", err)
		}
	}
	return nil
}

func loadConfigFromProjectYaml() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	var yamlConfig map[string]interface{}
	configYamlPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configYamlPath); err != nil {
		return nil
	}
	data, err := os.ReadFile(configYamlPath)
	if err != nil {
		return fmt.Errorf("读取 config.yaml 失败: %v", err)
	}
	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("解析 config.yaml 失败: %v", err)
	}

	// search.exa.api_key -> SEARCH_EXA_API_KEY，不覆盖已有变量
	setYamlToEnv(yamlConfig, "")
	return nil
}

func setYamlToEnv(data map[string]interface{}, prefix string) {
	for key, val := range data {
		fullKey := key
		if prefix != "" {
			fullKey = fmt.Sprintf("%s_%s", prefix, key)
		}
		fullKey = strings.ToUpper(fullKey)

		var str string
		switch v := val.(type) {
		case map[string]interface{}:
			setYamlToEnv(v, fullKey)
			continue
		case []interface{}:
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, fmt.Sprint(item))
			}
			str = strings.Join(items, ",")
		case string:
			str = v
		case int:
			str = strconv.Itoa(v)
		case float64:
			str = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			str = strconv.FormatBool(v)
		default:
			continue
		}
		if os.Getenv(fullKey) == "" {
			_ = os.Setenv(fullKey, str)
		}
	}
}

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

package prompts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coze-dev/cozeloop-go"
	"github.com/volcengine/vesearch-go/common"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/log"
	"github.com/volcengine/vesearch-go/utils"
)

var (
	ErrNilCozeLoopWorkspaceID = errors.New("coze loop workspace id is nil, Please configure it via environment COZELOOP_WORKSPACE_ID")
	ErrNilCozeLoopApiToken    = errors.New("coze loop api token is nil, Please configure it via environment COZELOOP_API_TOKEN")
)

type PromptGetParam struct {
	PromptKey string
	Version   string
	Label     string
}

// BasePromptManager returns fallback when the managed prompt is unavailable.
type BasePromptManager interface {
	GetPrompt(ctx context.Context, args *PromptGetParam, fallback string) string
}

// StaticPromptManager always returns the fallback.
type StaticPromptManager struct{}

func (StaticPromptManager) GetPrompt(_ context.Context, _ *PromptGetParam, fallback string) string {
	return fallback
}

type fetchFunc func(ctx context.Context, args *PromptGetParam) (string, error)

type CozeLoopPromptManager struct {
	fetch fetchFunc
}

// NewCozeLoopPromptManager builds a manager from cfg, with the COZELOOP_*
// environment taking precedence.
func NewCozeLoopPromptManager(cfg *configs.CozeLoopConfig) (*CozeLoopPromptManager, error) {
	if cfg == nil {
		cfg = &configs.CozeLoopConfig{}
	}
	workspaceId := utils.GetEnvWithDefault(common.COZELOOP_WORKSPACE_ID, cfg.WorkspaceId)
	if strings.TrimSpace(workspaceId) == "" {
		return nil, ErrNilCozeLoopWorkspaceID
	}
	apiToken := utils.GetEnvWithDefault(common.COZELOOP_API_TOKEN, cfg.ApiToken)
	if strings.TrimSpace(apiToken) == "" {
		return nil, ErrNilCozeLoopApiToken
	}

	client, err := cozeloop.NewClient(
		cozeloop.WithPromptTrace(true),
		cozeloop.WithWorkspaceID(workspaceId),
		cozeloop.WithAPIToken(apiToken),
	)
	if err != nil {
		return nil, fmt.Errorf("NewCozeLoopPromptManager failed: %v", err)
	}

	return &CozeLoopPromptManager{fetch: func(ctx context.Context, args *PromptGetParam) (string, error) {
		pmt, err := client.GetPrompt(ctx, cozeloop.GetPromptParam{
			PromptKey: args.PromptKey,
			Version:   args.Version,
			Label:     args.Label,
		})
		if err != nil {
			return "", err
		}
		if pmt == nil || pmt.PromptTemplate == nil || len(pmt.PromptTemplate.Messages) == 0 ||
			pmt.PromptTemplate.Messages[0].Content == nil {
			return "", nil
		}
		return *pmt.PromptTemplate.Messages[0].Content, nil
	}}, nil
}

// GetPrompt retrieves the first message of the prompt from CozeLoop.
// 参数说明 ：https://loop.coze.cn/open/docs/cozeloop/prompt-version-tag-for-go-sdk
func (m *CozeLoopPromptManager) GetPrompt(ctx context.Context, args *PromptGetParam, fallback string) string {
	if m == nil || m.fetch == nil || args == nil || args.PromptKey == "" {
		return fallback
	}
	content, err := m.fetch(ctx, args)
	if err == nil && strings.TrimSpace(content) != "" {
		return content
	}
	log.Warn("managed prompt unavailable, using default instruction",
		"prompt_key", args.PromptKey, "version", args.Version, "label", args.Label, "err", err)
	return fallback
}

// NewPromptManager returns a CozeLoop manager when prompt_pilot names a key
// and credentials are present, otherwise a static one.
func NewPromptManager(cfg *configs.VeSearchConfig) BasePromptManager {
	if cfg == nil || cfg.PromptPilot == nil || cfg.PromptPilot.PromptKey == "" {
		return StaticPromptManager{}
	}
	m, err := NewCozeLoopPromptManager(cfg.CozeLoopConfig)
	if err != nil {
		log.Warn("CozeLoop prompt manager disabled", "err", err)
		return StaticPromptManager{}
	}
	return m
}

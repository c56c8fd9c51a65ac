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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volcengine/vesearch-go/common"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/search"
)

func TestParseLanguage(t *testing.T) {
	for _, label := range []string{"中文", "zh", "ZH-CN", "zh_cn", "Chinese", "", "  ", "français"} {
		assert.Equal(t, Chinese, ParseLanguage(label), label)
	}
	for _, label := range []string{"English", "en", "EN-us", "en_US", " english ", "英文"} {
		assert.Equal(t, English, ParseLanguage(label), label)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "中文", Label(""))
	assert.Equal(t, "English", Label(" English "))
	assert.Equal(t, "français", Label("français"))
}

func TestSummaryPrompt(t *testing.T) {
	results := []search.Result{
		{Title: "Recursion", Content: "A function calling itself", URL: "https://a"},
		{Title: "递归", Content: "函数调用自身", URL: "https://b"},
	}

	zh := SummaryPrompt("什么是递归", Chinese, results)
	assert.Equal(t, "以下是关于'什么是递归'的搜索结果，请提供一个全面的总结:"+
		"\n\n结果 1:\n标题: Recursion\n内容: A function calling itself\n链接: https://a"+
		"\n\n结果 2:\n标题: 递归\n内容: 函数调用自身\n链接: https://b", zh)

	en := SummaryPrompt("recursion", English, nil)
	assert.Equal(t, "Here are the search results for 'recursion', please provide a comprehensive summary:", en)

	assert.Equal(t, SummarySystemZH, SummarySystemInstruction(Chinese))
	assert.Equal(t, SummarySystemEN, SummarySystemInstruction(English))
}

func TestRedbookPrompt(t *testing.T) {
	now := time.Date(2025, time.June, 9, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "以下是关于'露营'的搜索结果，你要确保是最新的消息，现在时间是2025年6月9日，生成1个小红书风格文案:",
		RedbookPrompt("露营", Chinese, now))
	assert.Equal(t, "Here are the search results for 'camping', please provide a comprehensive summary:",
		RedbookPrompt("camping", English, now))
	assert.Equal(t, RedbookSystemZH, RedbookSystemInstruction(Chinese))
	assert.Equal(t, SummarySystemEN, RedbookSystemInstruction(English))
}

func TestCozeLoopPromptManager_GetPrompt(t *testing.T) {
	args := &PromptGetParam{PromptKey: "vesearch.agent", Label: "production"}

	m := &CozeLoopPromptManager{fetch: func(_ context.Context, got *PromptGetParam) (string, error) {
		assert.Equal(t, args, got)
		return "managed instruction", nil
	}}
	assert.Equal(t, "managed instruction", m.GetPrompt(context.Background(), args, "fallback"))

	m = &CozeLoopPromptManager{fetch: func(context.Context, *PromptGetParam) (string, error) {
		return "", errors.New("not found")
	}}
	assert.Equal(t, "fallback", m.GetPrompt(context.Background(), args, "fallback"))
	assert.Equal(t, "fallback", m.GetPrompt(context.Background(), &PromptGetParam{}, "fallback"))

	var nilManager *CozeLoopPromptManager
	assert.Equal(t, "fallback", nilManager.GetPrompt(context.Background(), args, "fallback"))
}

func TestNewCozeLoopPromptManager_MissingCredentials(t *testing.T) {
	t.Setenv(common.COZELOOP_WORKSPACE_ID, "")
	t.Setenv(common.COZELOOP_API_TOKEN, "")

	_, err := NewCozeLoopPromptManager(nil)
	assert.ErrorIs(t, err, ErrNilCozeLoopWorkspaceID)

	_, err = NewCozeLoopPromptManager(&configs.CozeLoopConfig{WorkspaceId: "ws"})
	assert.ErrorIs(t, err, ErrNilCozeLoopApiToken)
}

func TestNewPromptManager(t *testing.T) {
	t.Setenv(common.COZELOOP_WORKSPACE_ID, "")
	t.Setenv(common.COZELOOP_API_TOKEN, "")

	assert.IsType(t, StaticPromptManager{}, NewPromptManager(nil))
	m := NewPromptManager(&configs.VeSearchConfig{
		PromptPilot:    &configs.PromptPilotConfig{PromptKey: "k"},
		CozeLoopConfig: &configs.CozeLoopConfig{},
	})
	require.IsType(t, StaticPromptManager{}, m)
	assert.Equal(t, "x", m.GetPrompt(context.Background(), &PromptGetParam{PromptKey: "k"}, "x"))
}

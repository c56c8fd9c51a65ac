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

package model

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/bytedance/mockey"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	arkmodel "github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime/utils"
	"github.com/volcengine/volcengine-go-sdk/volcengine"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func newTestArkModel(t *testing.T) *arkModel {
	t.Helper()
	return &arkModel{
		name:   "doubao-seed-1-6",
		config: &ArkClientConfig{APIKey: "test-api-key"},
		client: arkruntime.NewClientWithApiKey("test-api-key"),
	}
}

func TestNewArkModel(t *testing.T) {
	llm, err := NewArkModel(context.Background(), "doubao-seed-1-6", &ArkClientConfig{APIKey: "k", Region: "cn-beijing"})
	require.NoError(t, err)
	assert.Equal(t, "doubao-seed-1-6", llm.Name())

	_, err = NewArkModel(context.Background(), "m", &ArkClientConfig{AK: "ak", SK: "sk"})
	assert.NoError(t, err)

	_, err = NewArkModel(context.Background(), "m", &ArkClientConfig{AK: "ak"})
	assert.ErrorContains(t, err, "API key or AK/SK pair is required")

	_, err = NewArkModel(context.Background(), "m", nil)
	assert.Error(t, err)
}

func TestArkModel_Generate(t *testing.T) {
	mockey.PatchConvey("summary with reasoning and usage", t, func() {
		am := newTestArkModel(t)
		mockey.Mock((*arkruntime.Client).CreateChatCompletion).Return(
			arkmodel.ChatCompletionResponse{
				Model: "doubao-seed-1-6-250615",
				Choices: []*arkmodel.ChatCompletionChoice{{
					Message: arkmodel.ChatCompletionMessage{
						Role:             arkmodel.ChatMessageRoleAssistant,
						Content:          newArkStringContent("递归是函数调用自身。"),
						ReasoningContent: volcengine.String("先看搜索结果"),
					},
					FinishReason: arkmodel.FinishReasonStop,
				}},
				Usage: arkmodel.Usage{PromptTokens: 120, CompletionTokens: 30},
			}, nil,
		).Build()

		req := &model.LLMRequest{
			Contents: genai.Text("总结递归"),
			Config:   &genai.GenerateContentConfig{Temperature: float32Ptr(0.3), MaxOutputTokens: 512},
		}
		want := &model.LLMResponse{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{
				{Text: "先看搜索结果", Thought: true},
				{Text: "递归是函数调用自身。"},
			}},
			UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
				PromptTokenCount:     120,
				CandidatesTokenCount: 30,
				TotalTokenCount:      150,
			},
			CustomMetadata: map[string]any{"response_model": "doubao-seed-1-6-250615"},
			FinishReason:   genai.FinishReasonStop,
		}

		for got, err := range am.GenerateContent(context.Background(), req, false) {
			assert.NoError(t, err)
			if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(genai.Content{}, genai.Part{})); diff != "" {
				t.Errorf("GenerateContent() mismatch (-want +got):\n%s", diff)
			}
		}
	})

	mockey.PatchConvey("malformed tool arguments", t, func() {
		am := newTestArkModel(t)
		mockey.Mock((*arkruntime.Client).CreateChatCompletion).Return(
			arkmodel.ChatCompletionResponse{
				Choices: []*arkmodel.ChatCompletionChoice{{
					Message: arkmodel.ChatCompletionMessage{
						ToolCalls: []*arkmodel.ToolCall{{ID: "c1", Function: arkmodel.FunctionCall{Name: "web_search", Arguments: "{"}}},
					},
				}},
			}, nil,
		).Build()

		for _, err := range am.GenerateContent(context.Background(), &model.LLMRequest{Contents: genai.Text("q")}, false) {
			assert.ErrorContains(t, err, "failed to unmarshal tool arguments")
		}
	})
}

func TestArkModel_GenerateStream(t *testing.T) {
	mockey.PatchConvey("text and tool call deltas", t, func() {
		am := newTestArkModel(t)
		idx := 0
		chunks := []arkmodel.ChatCompletionStreamResponse{
			{Choices: []*arkmodel.ChatCompletionStreamChoice{{Delta: arkmodel.ChatCompletionStreamChoiceDelta{Content: "正在"}}}},
			{Choices: []*arkmodel.ChatCompletionStreamChoice{{Delta: arkmodel.ChatCompletionStreamChoiceDelta{Content: "搜索"}}}},
			{Choices: []*arkmodel.ChatCompletionStreamChoice{{Delta: arkmodel.ChatCompletionStreamChoiceDelta{
				ToolCalls: []*arkmodel.ToolCall{{ID: "call_1", Index: &idx, Function: arkmodel.FunctionCall{Name: "web_search", Arguments: `{"query":`}}},
			}}}},
			{Choices: []*arkmodel.ChatCompletionStreamChoice{{Delta: arkmodel.ChatCompletionStreamChoiceDelta{
				ToolCalls: []*arkmodel.ToolCall{{Index: &idx, Function: arkmodel.FunctionCall{Arguments: `"递归"}`}}},
			}, FinishReason: "tool_calls"}}},
			{Usage: &arkmodel.Usage{PromptTokens: 8, CompletionTokens: 4, TotalTokens: 12}},
		}

		next := 0
		mockey.Mock((*arkruntime.Client).CreateChatCompletionStream).Return(&utils.ChatCompletionStreamReader{}, nil).Build()
		mockey.Mock((*utils.ChatCompletionStreamReader).Recv).To(func(_ *utils.ChatCompletionStreamReader) (arkmodel.ChatCompletionStreamResponse, error) {
			if next >= len(chunks) {
				return arkmodel.ChatCompletionStreamResponse{}, io.EOF
			}
			next++
			return chunks[next-1], nil
		}).Build()
		mockey.Mock((*utils.ChatCompletionStreamReader).Close).Return(nil).Build()

		var partial string
		var final *model.LLMResponse
		for resp, err := range am.GenerateContent(context.Background(), &model.LLMRequest{Contents: genai.Text("q")}, true) {
			require.NoError(t, err)
			if resp.Partial {
				partial += resp.Content.Parts[0].Text
				continue
			}
			final = resp
		}

		assert.Equal(t, "正在搜索", partial)
		require.NotNil(t, final)
		require.Len(t, final.Content.Parts, 2)
		fc := final.Content.Parts[1].FunctionCall
		require.NotNil(t, fc)
		assert.Equal(t, "call_1", fc.ID)
		assert.Equal(t, map[string]any{"query": "递归"}, fc.Args)
		assert.Equal(t, int32(12), final.UsageMetadata.TotalTokenCount)
		assert.Equal(t, "doubao-seed-1-6", final.CustomMetadata["response_model"])
	})
}

func TestArkModel_ConvertRequest(t *testing.T) {
	am := &arkModel{name: "m", config: &ArkClientConfig{ExtraBody: map[string]any{
		"extra_body": map[string]any{
			"thinking":         map[string]any{"type": "disabled"},
			"reasoning_effort": "low",
		},
	}}}

	history := []*genai.Content{
		genai.NewContentFromText("搜索递归", "user"),
		{Role: "model", Parts: []*genai.Part{
			{Text: "skip me", Thought: true},
			genai.NewPartFromFunctionCall("web_search", map[string]any{"query": "递归"}),
		}},
		{Role: "user", Parts: []*genai.Part{genai.NewPartFromFunctionResponse("web_search", map[string]any{"results": []any{}})}},
	}
	history[2].Parts[0].FunctionResponse.ID = "call_abc"

	arkReq, err := am.convertArkRequest(&model.LLMRequest{
		Contents: history,
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("你是搜索助手", "system"),
			TopP:              float32Ptr(0.9),
			StopSequences:     []string{"END"},
			Tools: []*genai.Tool{{FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name: "web_search",
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{"query": {Type: genai.TypeString}},
					Required:   []string{"query"},
				},
			}}}},
		},
	})
	require.NoError(t, err)

	require.Len(t, arkReq.Messages, 4)
	assert.Equal(t, arkmodel.ChatMessageRoleSystem, arkReq.Messages[0].Role)
	assert.Equal(t, arkmodel.ChatMessageRoleAssistant, arkReq.Messages[2].Role)
	assert.Nil(t, arkReq.Messages[2].Content)
	require.Len(t, arkReq.Messages[2].ToolCalls, 1)
	assert.JSONEq(t, `{"query":"递归"}`, arkReq.Messages[2].ToolCalls[0].Function.Arguments)
	assert.Equal(t, arkmodel.ChatMessageRoleTool, arkReq.Messages[3].Role)
	assert.Equal(t, "call_abc", arkReq.Messages[3].ToolCallID)

	require.Len(t, arkReq.Tools, 1)
	params, err := json.Marshal(arkReq.Tools[0].Function.Parameters)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{"query":{"type":"string"}},"required":["query"]}`, string(params))

	assert.Equal(t, arkmodel.ThinkingTypeDisabled, arkReq.Thinking.Type)
	assert.Equal(t, arkmodel.ReasoningEffort("low"), *arkReq.ReasoningEffort)
	assert.InDelta(t, float32(0.9), *arkReq.TopP, 0.001)
	assert.Equal(t, []string{"END"}, arkReq.Stop)
}

func TestArkUsageMetadata(t *testing.T) {
	assert.Nil(t, arkUsageMetadata(nil))

	u := &arkmodel.Usage{PromptTokens: 10, CompletionTokens: 5}
	u.PromptTokensDetails.CachedTokens = 3
	meta := arkUsageMetadata(u)
	assert.Equal(t, int32(15), meta.TotalTokenCount)
	assert.Equal(t, int32(3), meta.CachedContentTokenCount)
}

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
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	arkmodel "github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
	"github.com/volcengine/volcengine-go-sdk/volcengine"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

type ArkClientConfig struct {
	APIKey    string
	AK        string // alternative to APIKey
	SK        string
	BaseURL   string
	Region    string
	ExtraBody map[string]any
}

type arkModel struct {
	name   string
	config *ArkClientConfig
	client *arkruntime.Client
}

func NewArkModel(ctx context.Context, modelName string, config *ArkClientConfig) (model.LLM, error) {
	_ = ctx

	if config == nil {
		config = &ArkClientConfig{}
	}

	var opts []arkruntime.ConfigOption
	if config.BaseURL != "" {
		opts = append(opts, arkruntime.WithBaseUrl(config.BaseURL))
	}
	if config.Region != "" {
		opts = append(opts, arkruntime.WithRegion(config.Region))
	}

	var client *arkruntime.Client
	switch {
	case config.APIKey != "":
		client = arkruntime.NewClientWithApiKey(config.APIKey, opts...)
	case config.AK != "" && config.SK != "":
		client = arkruntime.NewClientWithAkSk(config.AK, config.SK, opts...)
	default:
		return nil, fmt.Errorf("ark: API key or AK/SK pair is required")
	}
	return &arkModel{name: modelName, config: config, client: client}, nil
}

func (m *arkModel) Name() string {
	return m.name
}

func (m *arkModel) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	maybeAppendUserContent(req)

	arkReq, err := m.convertArkRequest(req)
	if err != nil {
		return func(yield func(*model.LLMResponse, error) bool) {
			yield(nil, fmt.Errorf("ark: failed to convert request: %w", err))
		}
	}
	if stream {
		return m.generateStream(ctx, arkReq)
	}
	return m.generate(ctx, arkReq)
}

func (m *arkModel) convertArkRequest(req *model.LLMRequest) (*arkmodel.CreateChatCompletionRequest, error) {
	arkReq := &arkmodel.CreateChatCompletionRequest{
		Model:         m.name,
		Messages:      make([]*arkmodel.ChatCompletionMessage, 0),
		StreamOptions: &arkmodel.StreamOptions{IncludeUsage: true},
	}

	cfg := req.Config
	if cfg != nil && cfg.SystemInstruction != nil {
		if sys := extractTextFromContent(cfg.SystemInstruction); sys != "" {
			arkReq.Messages = append(arkReq.Messages, &arkmodel.ChatCompletionMessage{
				Role:    arkmodel.ChatMessageRoleSystem,
				Content: newArkStringContent(sys),
			})
		}
	}
	for _, content := range req.Contents {
		msgs, err := convertGenAIContentToArk(content)
		if err != nil {
			return nil, fmt.Errorf("failed to convert content: %w", err)
		}
		arkReq.Messages = append(arkReq.Messages, msgs...)
	}

	if cfg != nil {
		for _, t := range cfg.Tools {
			if t == nil {
				continue
			}
			for _, fn := range t.FunctionDeclarations {
				arkReq.Tools = append(arkReq.Tools, &arkmodel.Tool{
					Type: arkmodel.ToolTypeFunction,
					Function: &arkmodel.FunctionDefinition{
						Name:        fn.Name,
						Description: fn.Description,
						Parameters:  convertFunctionParameters(fn),
					},
				})
			}
		}
		if cfg.Temperature != nil {
			temp := *cfg.Temperature
			arkReq.Temperature = &temp
		}
		if cfg.MaxOutputTokens > 0 {
			maxTokens := int(cfg.MaxOutputTokens)
			arkReq.MaxTokens = &maxTokens
		}
		if cfg.TopP != nil {
			topP := *cfg.TopP
			arkReq.TopP = &topP
		}
		if len(cfg.StopSequences) > 0 {
			arkReq.Stop = cfg.StopSequences
		}
		if cfg.ResponseMIMEType == "application/json" {
			arkReq.ResponseFormat = &arkmodel.ResponseFormat{Type: arkmodel.ResponseFormatJsonObject}
		}
	}

	// thinking and reasoning_effort are the only extra_body keys Ark understands
	if eb, ok := m.config.ExtraBody["extra_body"].(map[string]any); ok {
		if thinking, ok := eb["thinking"].(map[string]any); ok {
			if t, ok := thinking["type"].(string); ok {
				arkReq.Thinking = &arkmodel.Thinking{Type: arkmodel.ThinkingType(t)}
			}
		}
		if effort, ok := eb["reasoning_effort"].(string); ok {
			re := arkmodel.ReasoningEffort(effort)
			arkReq.ReasoningEffort = &re
		}
	}
	return arkReq, nil
}

func convertGenAIContentToArk(content *genai.Content) ([]*arkmodel.ChatCompletionMessage, error) {
	if content == nil || len(content.Parts) == 0 {
		return nil, nil
	}

	var toolMessages []*arkmodel.ChatCompletionMessage
	for _, part := range content.Parts {
		if part == nil || part.FunctionResponse == nil {
			continue
		}
		responseJSON, err := json.Marshal(part.FunctionResponse.Response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal function response: %w", err)
		}
		id := part.FunctionResponse.ID
		if id == "" {
			id = newToolCallID()
		}
		toolMessages = append(toolMessages, &arkmodel.ChatCompletionMessage{
			Role:       arkmodel.ChatMessageRoleTool,
			Content:    newArkStringContent(string(responseJSON)),
			ToolCallID: id,
		})
	}
	if len(toolMessages) > 0 {
		return toolMessages, nil
	}

	role := content.Role
	if role == "model" {
		role = arkmodel.ChatMessageRoleAssistant
	}
	msg := &arkmodel.ChatCompletionMessage{Role: role}
	var texts []string
	for _, part := range content.Parts {
		switch {
		case part == nil || part.Thought:
		case part.Text != "":
			texts = append(texts, part.Text)
		case part.FunctionCall != nil:
			argsJSON, err := json.Marshal(part.FunctionCall.Args)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal function args: %w", err)
			}
			id := part.FunctionCall.ID
			if id == "" {
				id = newToolCallID()
			}
			msg.ToolCalls = append(msg.ToolCalls, &arkmodel.ToolCall{
				ID:       id,
				Type:     arkmodel.ToolTypeFunction,
				Function: arkmodel.FunctionCall{Name: part.FunctionCall.Name, Arguments: string(argsJSON)},
			})
		}
	}
	if len(texts) > 0 {
		msg.Content = newArkStringContent(strings.Join(texts, "\n"))
	}
	return []*arkmodel.ChatCompletionMessage{msg}, nil
}

func newArkStringContent(s string) *arkmodel.ChatCompletionMessageContent {
	return &arkmodel.ChatCompletionMessageContent{StringValue: volcengine.String(s)}
}

func (m *arkModel) generate(ctx context.Context, arkReq *arkmodel.CreateChatCompletionRequest) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := m.client.CreateChatCompletion(ctx, *arkReq)
		if err != nil {
			yield(nil, fmt.Errorf("ark: chat completion failed: %w", err))
			return
		}
		llmResp, err := m.convertArkResponse(&resp)
		yield(llmResp, err)
	}
}

func (m *arkModel) generateStream(ctx context.Context, arkReq *arkmodel.CreateChatCompletionRequest) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		stream, err := m.client.CreateChatCompletionStream(ctx, *arkReq)
		if err != nil {
			yield(nil, fmt.Errorf("ark: stream creation failed: %w", err))
			return
		}
		defer stream.Close()

		var (
			text, reasoning strings.Builder
			calls           callAccumulator
			finalUsage      *arkmodel.Usage
			finishReason    arkmodel.FinishReason
		)
		for {
			chunk, err := stream.Recv()
			if err == io.EOF {
				break
			}
			if err != nil {
				yield(nil, fmt.Errorf("ark: stream recv failed: %w", err))
				return
			}
			if chunk.Usage != nil {
				finalUsage = chunk.Usage
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			c := chunk.Choices[0]
			if c.FinishReason != "" && c.FinishReason != arkmodel.FinishReasonNull {
				finishReason = c.FinishReason
			}
			delta := c.Delta
			if delta.ReasoningContent != nil && *delta.ReasoningContent != "" {
				reasoning.WriteString(*delta.ReasoningContent)
				if !yield(partialResponse(*delta.ReasoningContent, true), nil) {
					return
				}
			}
			if delta.Content != "" {
				text.WriteString(delta.Content)
				if !yield(partialResponse(delta.Content, false), nil) {
					return
				}
			}
			for _, tc := range delta.ToolCalls {
				calls.add(tc.Index, tc.ID, tc.Function.Name, tc.Function.Arguments)
			}
		}

		if text.Len() == 0 && len(calls.calls) == 0 && finishReason == "" && finalUsage == nil {
			return
		}
		if finishReason == "" {
			finishReason = arkmodel.FinishReasonStop
		}
		parts, _ := buildParts(reasoning.String(), text.String(), calls.calls, false)
		yield(&model.LLMResponse{
			Content:        &genai.Content{Role: "model", Parts: parts},
			FinishReason:   mapFinishReason(string(finishReason)),
			UsageMetadata:  arkUsageMetadata(finalUsage),
			CustomMetadata: map[string]any{responseModelKey: m.name},
		}, nil)
	}
}

func (m *arkModel) convertArkResponse(resp *arkmodel.ChatCompletionResponse) (*model.LLMResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("ark: no choices in response")
	}
	c := resp.Choices[0]
	msg := &c.Message

	text, reasoning := "", ""
	if msg.Content != nil && msg.Content.StringValue != nil {
		text = *msg.Content.StringValue
	}
	if msg.ReasoningContent != nil {
		reasoning = *msg.ReasoningContent
	}
	calls := make([]pendingCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		calls = append(calls, pendingCall{ID: tc.ID, Name: tc.Function.Name, Arguments: tc.Function.Arguments})
	}
	parts, err := buildParts(reasoning, text, calls, true)
	if err != nil {
		return nil, fmt.Errorf("ark: failed to unmarshal tool arguments: %w", err)
	}

	return &model.LLMResponse{
		Content:        &genai.Content{Role: "model", Parts: parts},
		FinishReason:   mapFinishReason(string(c.FinishReason)),
		UsageMetadata:  arkUsageMetadata(&resp.Usage),
		CustomMetadata: map[string]any{responseModelKey: resp.Model},
	}, nil
}

func arkUsageMetadata(u *arkmodel.Usage) *genai.GenerateContentResponseUsageMetadata {
	if u == nil {
		return nil
	}
	return usageMetadata(u.PromptTokens, u.CompletionTokens, u.TotalTokens, u.PromptTokensDetails.CachedTokens)
}

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
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"os"
	"strings"

	"github.com/volcengine/vesearch-go/common"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// ClientConfig configures an OpenAI-compatible chat completions endpoint.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	ExtraBody  map[string]any
	HTTPClient *http.Client
}

type openAIModel struct {
	name       string
	config     *ClientConfig
	httpClient *http.Client
}

func NewOpenAIModel(ctx context.Context, modelName string, config *ClientConfig) (model.LLM, error) {
	_ = ctx

	if config == nil {
		config = &ClientConfig{}
	}
	if config.APIKey == "" {
		config.APIKey = os.Getenv(common.MODEL_AGENT_API_KEY)
		if config.APIKey == "" {
			return nil, fmt.Errorf("openai: API key not found, set MODEL_AGENT_API_KEY environment variable or provide config.APIKey")
		}
	}
	if config.BaseURL == "" {
		config.BaseURL = os.Getenv(common.MODEL_AGENT_API_BASE)
		if config.BaseURL == "" {
			return nil, fmt.Errorf("openai: base URL not found, set MODEL_AGENT_API_BASE environment variable or provide config.BaseURL")
		}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &openAIModel{name: modelName, config: config, httpClient: httpClient}, nil
}

func (m *openAIModel) Name() string {
	return m.name
}

func (m *openAIModel) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	maybeAppendUserContent(req)

	openaiReq, err := m.convertOpenAIRequest(req)
	if err != nil {
		return func(yield func(*model.LLMResponse, error) bool) {
			yield(nil, fmt.Errorf("failed to convert request: %w", err))
		}
	}
	if stream {
		return m.generateStream(ctx, openaiReq)
	}
	return m.generate(ctx, openaiReq)
}

type openAIRequest struct {
	Model          string
	Messages       []message
	Tools          []tool
	Temperature    *float64
	MaxTokens      *int
	TopP           *float64
	Stop           []string
	Stream         bool
	ResponseFormat *responseFormat
	ExtraBody      map[string]any
}

// MarshalJSON flattens ExtraBody into the top-level object.
func (r openAIRequest) MarshalJSON() ([]byte, error) {
	body := map[string]any{
		"model":    r.Model,
		"messages": r.Messages,
	}
	if len(r.Tools) > 0 {
		body["tools"] = r.Tools
	}
	if r.Temperature != nil {
		body["temperature"] = *r.Temperature
	}
	if r.MaxTokens != nil {
		body["max_tokens"] = *r.MaxTokens
	}
	if r.TopP != nil {
		body["top_p"] = *r.TopP
	}
	if len(r.Stop) > 0 {
		body["stop"] = r.Stop
	}
	if r.ResponseFormat != nil {
		body["response_format"] = r.ResponseFormat
	}
	if r.Stream {
		body["stream"] = true
		body["stream_options"] = map[string]any{"include_usage": true}
	}
	for k, v := range r.ExtraBody {
		body[k] = v
	}
	return json.Marshal(body)
}

type responseFormat struct {
	Type string `json:"type"`
}

type message struct {
	Role             string     `json:"role"`
	Content          any        `json:"content,omitempty"`
	ToolCalls        []toolCall `json:"tool_calls,omitempty"`
	ToolCallID       string     `json:"tool_call_id,omitempty"`
	ReasoningContent any        `json:"reasoning_content,omitempty"`
}

type toolCall struct {
	ID       string       `json:"id"`
	Index    *int         `json:"index,omitempty"`
	Type     string       `json:"type"`
	Function functionCall `json:"function"`
}

type functionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type tool struct {
	Type     string   `json:"type"`
	Function function `json:"function"`
}

type function struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type response struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage,omitempty"`
}

type choice struct {
	Index        int      `json:"index"`
	Message      *message `json:"message,omitempty"`
	Delta        *message `json:"delta,omitempty"`
	FinishReason string   `json:"finish_reason,omitempty"`
}

type usage struct {
	PromptTokens        int `json:"prompt_tokens"`
	InputTokens         int `json:"input_tokens"` // Ark-compatible field
	CompletionTokens    int `json:"completion_tokens"`
	OutputTokens        int `json:"output_tokens"` // Ark-compatible field
	TotalTokens         int `json:"total_tokens"`
	PromptTokensDetails *struct {
		CachedTokens int `json:"cached_tokens,omitempty"`
	} `json:"prompt_tokens_details,omitempty"`
}

func (u *usage) metadata() *genai.GenerateContentResponseUsageMetadata {
	if u == nil {
		return nil
	}
	prompt := u.PromptTokens
	if prompt == 0 {
		prompt = u.InputTokens
	}
	completion := u.CompletionTokens
	if completion == 0 {
		completion = u.OutputTokens
	}
	cached := 0
	if u.PromptTokensDetails != nil {
		cached = u.PromptTokensDetails.CachedTokens
	}
	return usageMetadata(prompt, completion, u.TotalTokens, cached)
}

func (m *openAIModel) convertOpenAIRequest(req *model.LLMRequest) (*openAIRequest, error) {
	openaiReq := &openAIRequest{Model: m.name}
	if extra, ok := m.config.ExtraBody["extra_body"].(map[string]any); ok {
		openaiReq.ExtraBody = extra
	}

	cfg := req.Config
	if cfg != nil && cfg.SystemInstruction != nil {
		if sys := extractTextFromContent(cfg.SystemInstruction); sys != "" {
			openaiReq.Messages = append(openaiReq.Messages, message{Role: "system", Content: sys})
		}
	}
	for _, content := range req.Contents {
		msgs, err := convertGenAIContent(content)
		if err != nil {
			return nil, fmt.Errorf("failed to convert content: %w", err)
		}
		openaiReq.Messages = append(openaiReq.Messages, msgs...)
	}
	if cfg == nil {
		return openaiReq, nil
	}

	for _, t := range cfg.Tools {
		if t == nil {
			continue
		}
		for _, fn := range t.FunctionDeclarations {
			openaiReq.Tools = append(openaiReq.Tools, tool{
				Type: "function",
				Function: function{
					Name:        fn.Name,
					Description: fn.Description,
					Parameters:  convertFunctionParameters(fn),
				},
			})
		}
	}
	if cfg.Temperature != nil {
		temp := float64(*cfg.Temperature)
		openaiReq.Temperature = &temp
	}
	if cfg.MaxOutputTokens > 0 {
		maxTokens := int(cfg.MaxOutputTokens)
		openaiReq.MaxTokens = &maxTokens
	}
	if cfg.TopP != nil {
		topP := float64(*cfg.TopP)
		openaiReq.TopP = &topP
	}
	if len(cfg.StopSequences) > 0 {
		openaiReq.Stop = cfg.StopSequences
	}
	if cfg.ResponseMIMEType == "application/json" {
		openaiReq.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	return openaiReq, nil
}

// convertGenAIContent maps one genai turn to chat messages. Function
// responses become one tool message each.
func convertGenAIContent(content *genai.Content) ([]message, error) {
	if content == nil || len(content.Parts) == 0 {
		return nil, nil
	}

	var toolMessages []message
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
		toolMessages = append(toolMessages, message{Role: "tool", Content: string(responseJSON), ToolCallID: id})
	}
	if len(toolMessages) > 0 {
		return toolMessages, nil
	}

	role := content.Role
	if role == "model" {
		role = "assistant"
	}
	msg := message{Role: role}
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
			msg.ToolCalls = append(msg.ToolCalls, toolCall{
				ID:       id,
				Type:     "function",
				Function: functionCall{Name: part.FunctionCall.Name, Arguments: string(argsJSON)},
			})
		}
	}
	if len(texts) > 0 {
		msg.Content = strings.Join(texts, "\n")
	}
	return []message{msg}, nil
}

func (m *openAIModel) generate(ctx context.Context, openaiReq *openAIRequest) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		httpResp, err := m.sendRequest(ctx, openaiReq)
		if err != nil {
			yield(nil, err)
			return
		}
		defer httpResp.Body.Close()

		var resp response
		if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
			yield(nil, fmt.Errorf("failed to decode response: %w", err))
			return
		}
		llmResp, err := m.convertResponse(&resp)
		yield(llmResp, err)
	}
}

func (m *openAIModel) convertResponse(resp *response) (*model.LLMResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}
	c := resp.Choices[0]
	if c.Message == nil {
		return nil, fmt.Errorf("no message in choice")
	}

	text, _ := c.Message.Content.(string)
	reasoning, _ := c.Message.ReasoningContent.(string)
	calls := make([]pendingCall, 0, len(c.Message.ToolCalls))
	for _, tc := range c.Message.ToolCalls {
		calls = append(calls, pendingCall{ID: tc.ID, Name: tc.Function.Name, Arguments: tc.Function.Arguments})
	}
	parts, err := buildParts(reasoning, text, calls, true)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal tools arguments: %w", err)
	}

	return &model.LLMResponse{
		Content:        &genai.Content{Role: "model", Parts: parts},
		UsageMetadata:  resp.Usage.metadata(),
		FinishReason:   mapFinishReason(c.FinishReason),
		CustomMetadata: map[string]any{responseModelKey: resp.Model},
	}, nil
}

func (m *openAIModel) generateStream(ctx context.Context, openaiReq *openAIRequest) iter.Seq2[*model.LLMResponse, error] {
	openaiReq.Stream = true

	return func(yield func(*model.LLMResponse, error) bool) {
		httpResp, err := m.sendRequest(ctx, openaiReq)
		if err != nil {
			yield(nil, err)
			return
		}
		defer httpResp.Body.Close()

		scanner := bufio.NewScanner(httpResp.Body)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)

		var (
			text, reasoning strings.Builder
			calls           callAccumulator
			finalUsage      *usage
			finishReason    string
		)
		for scanner.Scan() {
			data, ok := strings.CutPrefix(scanner.Text(), "data: ")
			if !ok {
				continue
			}
			if data == "[DONE]" {
				break
			}
			var chunk response
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}
			if chunk.Usage != nil {
				finalUsage = chunk.Usage
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			c := chunk.Choices[0]
			if c.FinishReason != "" {
				finishReason = c.FinishReason
			}
			if c.Delta == nil {
				continue
			}
			if s, _ := c.Delta.ReasoningContent.(string); s != "" {
				reasoning.WriteString(s)
				if !yield(partialResponse(s, true), nil) {
					return
				}
			}
			if s, _ := c.Delta.Content.(string); s != "" {
				text.WriteString(s)
				if !yield(partialResponse(s, false), nil) {
					return
				}
			}
			for _, tc := range c.Delta.ToolCalls {
				calls.add(tc.Index, tc.ID, tc.Function.Name, tc.Function.Arguments)
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("stream error: %w", err))
			return
		}

		if text.Len() == 0 && len(calls.calls) == 0 && finishReason == "" && finalUsage == nil {
			return
		}
		if finishReason == "" {
			finishReason = "stop"
		}
		parts, _ := buildParts(reasoning.String(), text.String(), calls.calls, false)
		yield(&model.LLMResponse{
			Content:        &genai.Content{Role: "model", Parts: parts},
			FinishReason:   mapFinishReason(finishReason),
			UsageMetadata:  finalUsage.metadata(),
			CustomMetadata: map[string]any{responseModelKey: m.name},
		}, nil)
	}
}

func (m *openAIModel) sendRequest(ctx context.Context, openaiReq *openAIRequest) (*http.Response, error) {
	reqBody, err := json.Marshal(openaiReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	baseURL := strings.TrimSuffix(m.config.BaseURL, "/")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+m.config.APIKey)

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		_ = httpResp.Body.Close()
		return nil, fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, string(body))
	}
	return httpResp, nil
}

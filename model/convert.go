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
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const responseModelKey = "response_model"

// mapFinishReason converts an OpenAI/ARK finish reason string to a genai.FinishReason.
func mapFinishReason(reason string) genai.FinishReason {
	switch reason {
	case "stop", "tool_calls", "function_call":
		return genai.FinishReasonStop
	case "length":
		return genai.FinishReasonMaxTokens
	case "content_filter":
		return genai.FinishReasonSafety
	default:
		return genai.FinishReasonOther
	}
}

// maybeAppendUserContent ensures the request ends with a user message,
// which is required by some models.
func maybeAppendUserContent(req *model.LLMRequest) {
	if len(req.Contents) == 0 {
		req.Contents = append(req.Contents, genai.NewContentFromText("Handle the requests as specified in the System Instruction.", "user"))
		return
	}
	if last := req.Contents[len(req.Contents)-1]; last != nil && last.Role != "user" {
		req.Contents = append(req.Contents, genai.NewContentFromText("Continue processing previous requests as instructed. Exit or provide a summary if no more outputs are needed.", "user"))
	}
}

func extractTextFromContent(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var texts []string
	for _, part := range content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "\n")
}

func newToolCallID() string {
	return "call_" + uuid.New().String()[:8]
}

// convertFunctionParameters converts a genai.FunctionDeclaration's parameters to a map.
func convertFunctionParameters(fn *genai.FunctionDeclaration) map[string]any {
	if fn.ParametersJsonSchema != nil {
		if params := tryConvertJsonSchema(fn.ParametersJsonSchema); params != nil {
			return params
		}
	}
	if fn.Parameters != nil {
		params := schemaToMap(fn.Parameters)
		params["type"] = "object"
		return params
	}
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func tryConvertJsonSchema(schema any) map[string]any {
	if params, ok := schema.(map[string]any); ok {
		return params
	}
	jsonBytes, err := json.Marshal(schema)
	if err != nil {
		return nil
	}
	var params map[string]any
	if err := json.Unmarshal(jsonBytes, &params); err != nil {
		return nil
	}
	return params
}

func schemaToMap(schema *genai.Schema) map[string]any {
	result := make(map[string]any)
	if schema.Type != genai.TypeUnspecified {
		result["type"] = strings.ToLower(string(schema.Type))
	}
	if schema.Description != "" {
		result["description"] = schema.Description
	}
	if schema.Items != nil {
		result["items"] = schemaToMap(schema.Items)
	}
	if schema.Properties != nil {
		props := make(map[string]any, len(schema.Properties))
		for k, v := range schema.Properties {
			props[k] = schemaToMap(v)
		}
		result["properties"] = props
	}
	if len(schema.Required) > 0 {
		result["required"] = schema.Required
	}
	if len(schema.Enum) > 0 {
		result["enum"] = schema.Enum
	}
	return result
}

// pendingCall is a tool call as it comes off the wire, arguments still encoded.
type pendingCall struct {
	ID        string
	Name      string
	Arguments string
}

func (c pendingCall) empty() bool {
	return c.ID == "" && c.Name == "" && c.Arguments == ""
}

// callAccumulator stitches streamed tool-call deltas back together by index.
type callAccumulator struct {
	calls []pendingCall
}

func (a *callAccumulator) add(index *int, id, name, args string) {
	idx := 0
	if index != nil {
		idx = *index
	}
	for len(a.calls) <= idx {
		a.calls = append(a.calls, pendingCall{})
	}
	if id != "" {
		a.calls[idx].ID = id
	}
	a.calls[idx].Name += name
	a.calls[idx].Arguments += args
}

// buildParts assembles the final response parts. With strict set a malformed
// argument payload is an error, otherwise the call is dropped.
func buildParts(reasoning, text string, calls []pendingCall, strict bool) ([]*genai.Part, error) {
	var parts []*genai.Part
	if reasoning != "" {
		parts = append(parts, &genai.Part{Text: reasoning, Thought: true})
	}
	if text != "" {
		parts = append(parts, genai.NewPartFromText(text))
	}
	for _, tc := range calls {
		if tc.empty() {
			continue
		}
		args := map[string]any{}
		if strings.TrimSpace(tc.Arguments) != "" {
			if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
				if strict {
					return nil, err
				}
				continue
			}
		}
		part := genai.NewPartFromFunctionCall(tc.Name, args)
		part.FunctionCall.ID = tc.ID
		parts = append(parts, part)
	}
	return parts, nil
}

func partialResponse(text string, thought bool) *model.LLMResponse {
	return &model.LLMResponse{
		Content: &genai.Content{
			Role:  "model",
			Parts: []*genai.Part{{Text: text, Thought: thought}},
		},
		Partial: true,
	}
}

func usageMetadata(prompt, completion, total, cached int) *genai.GenerateContentResponseUsageMetadata {
	if total == 0 && (prompt > 0 || completion > 0) {
		total = prompt + completion
	}
	return &genai.GenerateContentResponseUsageMetadata{
		PromptTokenCount:        int32(prompt),
		CandidatesTokenCount:    int32(completion),
		TotalTokenCount:         int32(total),
		CachedContentTokenCount: int32(cached),
	}
}

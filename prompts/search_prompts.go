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
	"fmt"
	"strings"
	"time"

	"github.com/volcengine/vesearch-go/search"
)

const (
	SummarySystemZH = "你是一个专业的搜索助手。请根据搜索结果提供简洁明了的总结。"
	SummarySystemEN = "You are a professional search assistant. Please provide a concise summary based on the search results."

	RedbookSystemZH = "你是一个专业文案写手，基于我输入的内容生成一个小红书风格文案。"

	TutorSystem = `你是一个计算机科学教育专家，擅长用简单易懂的语言和实用例子解释计算机科学概念。
当用户提问时，请给出清晰、准确的回答，并尽量用代码或生活实例帮助理解。`

	// DEFAULT_INSTRUCTION is the agent instruction when nothing else is configured.
	DEFAULT_INSTRUCTION = `You are a web search assistant. Use the web_search tool to look up current information, then answer based only on what the results say and cite the links you used.`

	DEFAULT_DESCRIPTION = `A search agent that retrieves web results and summarizes them.`
)

const (
	summaryHeaderZH = "以下是关于'%s'的搜索结果，请提供一个全面的总结:"
	summaryHeaderEN = "Here are the search results for '%s', please provide a comprehensive summary:"
	redbookHeaderZH = "以下是关于'%s'的搜索结果，你要确保是最新的消息，现在时间是%s，生成1个小红书风格文案:"
	resultBlock     = "\n\n结果 %d:\n标题: %s\n内容: %s\n链接: %s"
)

// SummarySystemInstruction is the system prompt for the summarize call.
func SummarySystemInstruction(lang Language) string {
	return Pick(lang, SummarySystemZH, SummarySystemEN)
}

// SummaryPrompt renders the header and one block per result, in order.
func SummaryPrompt(query string, lang Language, results []search.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(Pick(lang, summaryHeaderZH, summaryHeaderEN), query))
	for i, r := range results {
		sb.WriteString(fmt.Sprintf(resultBlock, i+1, r.Title, r.Content, r.URL))
	}
	return sb.String()
}

// RedbookSystemInstruction falls back to the summary prompt in English.
func RedbookSystemInstruction(lang Language) string {
	return Pick(lang, RedbookSystemZH, SummarySystemEN)
}

// RedbookPrompt is the user turn for the copywriter agent. now is rendered
// as a Chinese calendar date.
func RedbookPrompt(query string, lang Language, now time.Time) string {
	if lang == English {
		return fmt.Sprintf(summaryHeaderEN, query)
	}
	date := fmt.Sprintf("%d年%d月%d日", now.Year(), int(now.Month()), now.Day())
	return fmt.Sprintf(redbookHeaderZH, query, date)
}

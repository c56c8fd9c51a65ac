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

import "strings"

// Language selects which template set is used.
type Language string

const (
	Chinese Language = "zh"
	English Language = "en"
)

// DefaultLanguageLabel is the label echoed back when a caller sends none.
const DefaultLanguageLabel = "中文"

var languageAliases = map[string]Language{
	"中文":      Chinese,
	"zh":      Chinese,
	"zh-cn":   Chinese,
	"zh_cn":   Chinese,
	"chinese": Chinese,
	"english": English,
	"en":      English,
	"en-us":   English,
	"en_us":   English,
	"英文":      English,
}

// ParseLanguage maps a free-form label to a Language. Unknown labels are Chinese.
func ParseLanguage(label string) Language {
	if lang, ok := languageAliases[strings.ToLower(strings.TrimSpace(label))]; ok {
		return lang
	}
	return Chinese
}

// Label returns the trimmed label, or DefaultLanguageLabel when it is blank.
func Label(label string) string {
	if l := strings.TrimSpace(label); l != "" {
		return l
	}
	return DefaultLanguageLabel
}

// Pick returns zh or en depending on lang.
func Pick(lang Language, zh, en string) string {
	if lang == English {
		return en
	}
	return zh
}

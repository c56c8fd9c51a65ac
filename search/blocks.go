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

package search

import (
	"strings"
)

// parseLabeledBlocks splits "Label: value" text into records. A new record
// starts at every startLabel line; unlabeled lines continue the last field.
func parseLabeledBlocks(text, startLabel string, labels ...string) []map[string]string {
	var (
		blocks  []map[string]string
		current map[string]string
		lastKey string
	)
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
		}
		current, lastKey = nil, ""
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		label, value, ok := matchLabel(trimmed, labels)
		switch {
		case ok:
			if label == startLabel {
				flush()
			}
			if current == nil {
				current = map[string]string{}
			}
			current[label] = value
			lastKey = label
		case trimmed != "" && lastKey != "":
			current[lastKey] = strings.TrimSpace(current[lastKey] + "\n" + trimmed)
		}
	}
	flush()
	return blocks
}

func matchLabel(line string, labels []string) (string, string, bool) {
	for _, l := range labels {
		if strings.HasPrefix(line, l+":") {
			return l, strings.TrimSpace(line[len(l)+1:]), true
		}
	}
	return "", "", false
}

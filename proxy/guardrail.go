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

package proxy

import (
	"context"
	"errors"
	"strings"
)

var ErrBlockedContent = errors.New("summary contains blocked content")

// Guardrail inspects a summary before it is returned. It may rewrite the
// text or reject it with an error.
type Guardrail interface {
	Apply(ctx context.Context, summary string) (string, error)
}

type GuardrailFunc func(ctx context.Context, summary string) (string, error)

func (f GuardrailFunc) Apply(ctx context.Context, summary string) (string, error) {
	return f(ctx, summary)
}

// Passthrough returns the summary unchanged.
type Passthrough struct{}

func (Passthrough) Apply(_ context.Context, summary string) (string, error) {
	return summary, nil
}

const mask = "***"

// KeywordGuardrail masks every occurrence of a blocked term. With Reject set
// it fails instead.
type KeywordGuardrail struct {
	Terms  []string
	Reject bool
}

func NewKeywordGuardrail(terms []string) *KeywordGuardrail {
	kept := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	return &KeywordGuardrail{Terms: kept}
}

func (g *KeywordGuardrail) Apply(_ context.Context, summary string) (string, error) {
	for _, term := range g.Terms {
		if !strings.Contains(summary, term) {
			continue
		}
		if g.Reject {
			return "", ErrBlockedContent
		}
		summary = strings.ReplaceAll(summary, term, mask)
	}
	return summary, nil
}

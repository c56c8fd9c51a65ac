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
	"errors"
	"fmt"
)

// Stage names reported by Stage.
const (
	StageValidate   = "validate"
	StageSearch     = "search"
	StageCompletion = "completion"
	StageGuardrail  = "guardrail"
)

var ErrInvalidRequest = errors.New("invalid request")

// SearchProviderError wraps any failure of the retrieve step.
type SearchProviderError struct {
	Provider string
	Err      error
}

func (e *SearchProviderError) Error() string {
	return fmt.Sprintf("search failed: %v", e.Err)
}

func (e *SearchProviderError) Unwrap() error {
	return e.Err
}

// CompletionProviderError wraps any failure of the summarize step.
type CompletionProviderError struct {
	Err error
}

func (e *CompletionProviderError) Error() string {
	return fmt.Sprintf("summary failed: %v", e.Err)
}

func (e *CompletionProviderError) Unwrap() error {
	return e.Err
}

type GuardrailError struct {
	Err error
}

func (e *GuardrailError) Error() string {
	return fmt.Sprintf("guardrail rejected summary: %v", e.Err)
}

func (e *GuardrailError) Unwrap() error {
	return e.Err
}

// Stage reports which pipeline step produced err, or "" if none did.
func Stage(err error) string {
	var (
		searchErr     *SearchProviderError
		completionErr *CompletionProviderError
		guardrailErr  *GuardrailError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRequest):
		return StageValidate
	case errors.As(err, &searchErr):
		return StageSearch
	case errors.As(err, &completionErr):
		return StageCompletion
	case errors.As(err, &guardrailErr):
		return StageGuardrail
	default:
		return ""
	}
}

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

package ve_sign

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/volcengine/volc-sdk-golang/base"
)

const HttpClientTimeoutTime = 10

const HttpsSchema = "https"

var VeRequestParamErr = errors.New("VeRequest Param Invalid Error")

// VeRequest is a single signed call against a Volcengine OpenAPI endpoint.
type VeRequest struct {
	AK      string
	SK      string
	Method  string
	Scheme  string
	Host    string
	Path    string
	Service string
	Region  string
	Action  string
	Version string
	Header  map[string]string
	Queries map[string]string
	Body    interface{}

	// Client overrides the default 10s client.
	Client *http.Client
}

func (v VeRequest) validate() error {
	if v.AK == "" || v.SK == "" {
		return VeRequestParamErr
	}
	m := strings.ToUpper(v.Method)
	switch m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodHead, http.MethodOptions:
	default:
		return VeRequestParamErr
	}
	if v.Host == "" || strings.Contains(v.Host, "/") {
		return VeRequestParamErr
	}
	if v.Path == "" || !strings.HasPrefix(v.Path, "/") {
		return VeRequestParamErr
	}
	if v.Service == "" || v.Region == "" {
		return VeRequestParamErr
	}
	if (m == http.MethodPost || m == http.MethodPut || m == http.MethodPatch) && v.Body == nil {
		return VeRequestParamErr
	}
	return nil
}

// DoRequest signs and sends the request. On a non-200 status the body is
// still returned together with the error.
func (v VeRequest) DoRequest(ctx context.Context) ([]byte, error) {
	req, err := v.buildSignRequest(ctx)
	if err != nil {
		return nil, err
	}
	client := v.Client
	if client == nil {
		client = &http.Client{Timeout: HttpClientTimeoutTime * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return respBody, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func (v VeRequest) buildSignRequest(ctx context.Context) (*http.Request, error) {
	if err := v.validate(); err != nil {
		return nil, err
	}

	var body io.Reader = http.NoBody
	if v.Body != nil {
		paramsBytes, err := serializeToJsonBytes(v.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(paramsBytes)
	}

	scheme := v.Scheme
	if scheme == "" {
		scheme = HttpsSchema
	}
	queries := make(url.Values)
	for key, value := range v.Queries {
		queries.Set(key, value)
	}
	if v.Action != "" {
		queries.Set("Action", v.Action)
	}
	if v.Version != "" {
		queries.Set("Version", v.Version)
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     v.Host,
		Path:     v.Path,
		RawQuery: queries.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(v.Method), u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range v.Header {
		req.Header.Set(key, value)
	}
	credential := base.Credentials{
		AccessKeyID:     v.AK,
		SecretAccessKey: v.SK,
		Service:         v.Service,
		Region:          v.Region,
	}
	return credential.Sign(req), nil
}

func serializeToJsonBytes(source interface{}) ([]byte, error) {
	if raw, ok := source.([]byte); ok {
		return raw, nil
	}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(source); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOK(t *testing.T) {
	v := VeRequest{
		AK:      "ak",
		SK:      "sk",
		Method:  "POST",
		Scheme:  HttpsSchema,
		Host:    "open.volcengineapi.com",
		Path:    "/v1/test",
		Service: "open",
		Region:  "cn-beijing",
		Body:    []byte("{}"),
	}
	assert.NoError(t, v.validate())
}

func TestValidateInvalid(t *testing.T) {
	base := VeRequest{AK: "ak", SK: "sk", Method: "GET", Host: "h.com", Path: "/p", Service: "s", Region: "r"}
	cases := map[string]func(v *VeRequest){
		"empty ak":          func(v *VeRequest) { v.AK = "" },
		"invalid method":    func(v *VeRequest) { v.Method = "FOO" },
		"empty host":        func(v *VeRequest) { v.Host = "" },
		"host with path":    func(v *VeRequest) { v.Host = "h.com/extra" },
		"relative path":     func(v *VeRequest) { v.Path = "p" },
		"missing region":    func(v *VeRequest) { v.Region = "" },
		"post without body": func(v *VeRequest) { v.Method = http.MethodPost },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			v := base
			mutate(&v)
			assert.ErrorIs(t, v.validate(), VeRequestParamErr)
		})
	}
}

func TestDoRequest(t *testing.T) {
	var gotQuery url.Values
	var gotBody map[string]any
	var gotAuth, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		gotToken = r.Header.Get("X-Security-Token")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"Result":{"ok":true}}`))
	}))
	defer srv.Close()

	req := VeRequest{
		AK:      "ak",
		SK:      "sk",
		Method:  http.MethodPost,
		Scheme:  "http",
		Host:    strings.TrimPrefix(srv.URL, "http://"),
		Path:    "/",
		Service: "volc_torchlight_api",
		Region:  "cn-beijing",
		Action:  "WebSearch",
		Version: "2025-01-01",
		Header:  map[string]string{"X-Security-Token": "token"},
		Body:    map[string]any{"Query": "golang"},
		Client:  srv.Client(),
	}
	body, err := req.DoRequest(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"Result":{"ok":true}}`, string(body))
	assert.Equal(t, "WebSearch", gotQuery.Get("Action"))
	assert.Equal(t, "2025-01-01", gotQuery.Get("Version"))
	assert.Equal(t, "golang", gotBody["Query"])
	assert.Contains(t, gotAuth, "HMAC-SHA256")
	assert.Equal(t, "token", gotToken)
}

func TestDoRequestNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`denied`))
	}))
	defer srv.Close()

	req := VeRequest{
		AK: "ak", SK: "sk", Method: http.MethodGet, Scheme: "http",
		Host: strings.TrimPrefix(srv.URL, "http://"), Path: "/", Service: "s", Region: "r",
	}
	body, err := req.DoRequest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Equal(t, "denied", string(body))
}

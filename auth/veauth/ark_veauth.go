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

package veauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/volcengine/vesearch-go/common"
	"github.com/volcengine/vesearch-go/integrations/ve_sign"
	"github.com/volcengine/vesearch-go/log"
)

const (
	arkOpenAPIHost    = "open.volcengineapi.com"
	arkOpenAPIVersion = "2024-01-01"
)

type getRawApiKeyResponse struct {
	Result struct {
		ApiKey string `json:"ApiKey"`
	} `json:"Result"`
}

type listApiKeysResponse struct {
	Result struct {
		Items []struct {
			ID   int    `json:"Id"`
			Name string `json:"Name"`
		} `json:"Items"`
	} `json:"Result"`
}

// arkRequest is overridable so tests can point the OpenAPI calls at a stub.
var arkRequest = func(cred VeIAMCredential, region, action string, body map[string]interface{}) ve_sign.VeRequest {
	return ve_sign.VeRequest{
		AK:      cred.AccessKeyID,
		SK:      cred.SecretAccessKey,
		Method:  http.MethodPost,
		Host:    arkOpenAPIHost,
		Path:    "/",
		Service: "ark",
		Region:  region,
		Action:  action,
		Version: arkOpenAPIVersion,
		Header:  cred.SecurityHeader(),
		Body:    body,
	}
}

// GetArkToken exchanges the account AK/SK for the first Ark API key of the
// default project. Used when MODEL_AGENT_API_KEY is not set.
func GetArkToken(ctx context.Context, region string) (string, error) {
	if region == "" {
		region = common.DEFAULT_MODEL_REGION
	}
	log.Info("Fetching ARK token", "region", region)

	cred, err := ResolveCredential()
	if err != nil {
		return "", fmt.Errorf("failed to get credential: %w", err)
	}

	listBody, err := arkRequest(cred, region, "ListApiKeys", map[string]interface{}{
		"ProjectName": "default",
		"Filter":      map[string]interface{}{"AllowAll": true},
	}).DoRequest(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list api keys: %w", err)
	}
	var listResp listApiKeysResponse
	if err := json.Unmarshal(listBody, &listResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal list api keys response: %w", err)
	}
	if len(listResp.Result.Items) == 0 {
		return "", fmt.Errorf("failed to get ARK api key list: empty items")
	}

	first := listResp.Result.Items[0]
	log.Debug("using first ARK api key", "name", first.Name)

	rawBody, err := arkRequest(cred, region, "GetRawApiKey", map[string]interface{}{
		"Id": first.ID,
	}).DoRequest(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get raw api key: %w", err)
	}
	var getResp getRawApiKeyResponse
	if err := json.Unmarshal(rawBody, &getResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal get raw api key response: %w", err)
	}
	if getResp.Result.ApiKey == "" {
		return "", fmt.Errorf("failed to get ARK api key: key not found in response")
	}

	log.Info("Successfully fetched ARK API Key")
	return getResp.Result.ApiKey, nil
}

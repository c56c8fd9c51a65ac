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
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/volcengine/vesearch-go/common"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/utils"
)

var ErrNoCredential = errors.New("volcengine credential not found")

type VeIAMCredential struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token"`
}

// SecurityHeader returns the STS header to attach to signed calls, if any.
func (c VeIAMCredential) SecurityHeader() map[string]string {
	if c.SessionToken == "" {
		return nil
	}
	return map[string]string{"X-Security-Token": c.SessionToken}
}

var iamCredentialPath = common.VEFAAS_IAM_CRIDENTIAL_PATH

func GetCredentialFromVeFaaSIAM() (VeIAMCredential, error) {
	b, err := os.ReadFile(iamCredentialPath)
	if err != nil {
		return VeIAMCredential{}, err
	}
	var cred VeIAMCredential
	if err := json.Unmarshal(b, &cred); err != nil {
		return VeIAMCredential{}, err
	}
	return cred, nil
}

func RefreshAKSK(accessKey string, secretKey string) (VeIAMCredential, error) {
	if strings.TrimSpace(accessKey) != "" && strings.TrimSpace(secretKey) != "" {
		return VeIAMCredential{AccessKeyID: accessKey, SecretAccessKey: secretKey}, nil
	}
	return GetCredentialFromVeFaaSIAM()
}

// ResolveCredential tries the environment, then the loaded config, then the
// veFaaS IAM file.
func ResolveCredential() (VeIAMCredential, error) {
	var ak, sk string
	if cfg := configs.GetGlobalConfig(); cfg != nil && cfg.Volcengine != nil {
		ak, sk = cfg.Volcengine.AK, cfg.Volcengine.SK
	}
	ak = utils.GetEnvWithDefault(common.VOLCENGINE_ACCESS_KEY, ak)
	sk = utils.GetEnvWithDefault(common.VOLCENGINE_SECRET_KEY, sk)

	cred, err := RefreshAKSK(ak, sk)
	if err != nil {
		return VeIAMCredential{}, errors.Join(ErrNoCredential, err)
	}
	if cred.AccessKeyID == "" || cred.SecretAccessKey == "" {
		return VeIAMCredential{}, ErrNoCredential
	}
	return cred, nil
}

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

package memory

import (
	"fmt"
	"strings"

	"github.com/volcengine/vesearch-go/common"
	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/memory/short_term_memory_backends"
	"github.com/volcengine/vesearch-go/utils"
	"google.golang.org/adk/session"
)

type ShortTermBackendType string

const (
	BackendShortTermLocal      ShortTermBackendType = "local"
	BackendShortTermPostgreSQL ShortTermBackendType = "postgresql"
)

// NewShortTermMemory returns the session service that keeps agent
// conversations. db may be nil, in which case the global database config
// is used for the postgresql backend.
func NewShortTermMemory(backend ShortTermBackendType, db *configs.CommonDatabaseConfig) (session.Service, error) {
	switch ShortTermBackendType(strings.ToLower(string(backend))) {
	case "", BackendShortTermLocal:
		return session.InMemoryService(), nil
	case BackendShortTermPostgreSQL:
		if db == nil {
			if global := configs.GetGlobalConfig(); global != nil && global.Database != nil {
				db = global.Database.Postgresql
			}
		}
		if db == nil {
			return nil, fmt.Errorf("postgresql backend selected but database.postgresql is not configured")
		}
		return short_term_memory_backends.NewPostgreSqlSTMBackend(
			&short_term_memory_backends.PostgresqlBackendConfig{CommonDatabaseConfig: db},
		)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", backend)
	}
}

// BackendFromEnv reads the backend name, defaulting to local.
func BackendFromEnv() ShortTermBackendType {
	return ShortTermBackendType(utils.GetEnvWithDefault(common.SHORT_TERM_MEMORY_BACKEND, common.DEFAULT_SHORT_TERM_MEMORY_BACKEND))
}

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

package short_term_memory_backends

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/volcengine/vesearch-go/configs"
	"github.com/volcengine/vesearch-go/log"
	"go.uber.org/zap/zapcore"
	"google.golang.org/adk/session"
	"google.golang.org/adk/session/database"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var ErrMissingHost = errors.New("postgresql host is required when db_url is empty")

type PostgresqlBackendConfig struct {
	*configs.CommonDatabaseConfig
}

// DSN returns DBUrl when set, otherwise a postgresql:// URL assembled from
// the individual fields with the credentials escaped.
func (c *PostgresqlBackendConfig) DSN() (string, error) {
	if c == nil || c.CommonDatabaseConfig == nil {
		return "", errors.New("postgresql config is nil")
	}
	if c.DBUrl != "" {
		if _, err := url.Parse(c.DBUrl); err != nil {
			log.Warn("database url does not parse, special characters in user_name or password must be escaped",
				"error", err)
		}
		return c.DBUrl, nil
	}
	if c.Host == "" {
		return "", ErrMissingHost
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(c.UserName, c.Password),
		Host:   c.Host,
		Path:   "/" + c.Schema,
	}
	if c.Port != "" {
		u.Host = c.Host + ":" + c.Port
	}
	return u.String(), nil
}

func NewPostgreSqlSTMBackend(config *PostgresqlBackendConfig) (session.Service, error) {
	dsn, err := config.DSN()
	if err != nil {
		return nil, err
	}

	svc, err := database.NewSessionService(
		postgres.Open(dsn),
		&gorm.Config{PrepareStmt: true, Logger: log.NewLogger(zapcore.WarnLevel)},
	)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	if err := database.AutoMigrate(svc); err != nil {
		log.Error("session schema migration failed", "error", err)
	}
	log.Info("agent sessions stored in postgresql", "host", config.Host)
	return svc, nil
}

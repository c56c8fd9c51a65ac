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

package log

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	gormlog "gorm.io/gorm/logger"
)

func TestToZapFields(t *testing.T) {
	fields, err := toZapFields("query", "golang", "num", 3, "ok", true)
	assert.NoError(t, err)
	assert.Len(t, fields, 3)

	_, err = toZapFields("dangling")
	assert.Error(t, err)

	_, err = toZapFields(1, "value")
	assert.Error(t, err)
}

func TestToZapField(t *testing.T) {
	var nilPtr *int
	assert.Equal(t, zapcore.StringType, toZapField("k", nil).Type)
	assert.Equal(t, zapcore.StringType, toZapField("k", nilPtr).Type)
	assert.Equal(t, zapcore.Int64Type, toZapField("k", int32(1)).Type)
	assert.Equal(t, zapcore.Float64Type, toZapField("k", 0.5).Type)
	assert.Equal(t, zapcore.DurationType, toZapField("k", time.Second).Type)
	assert.Equal(t, zapcore.ErrorType, toZapField("k", errors.New("boom")).Type)
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(zapcore.WarnLevel, &buf)

	l.Info(context.Background(), "hidden")
	l.Warn(context.Background(), "visible", "provider", "exa")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "exa")
}

func TestPackageLevelHelpers(t *testing.T) {
	var buf bytes.Buffer
	prev := SetDefault(NewLoggerWithWriter(zapcore.DebugLevel, &buf))
	defer SetDefault(prev)

	Infof("search %q returned %d results", "golang", 5)
	Default().With("request_id", "r-1").Error(context.Background(), "failed")
	out := buf.String()
	assert.Contains(t, out, `search "golang" returned 5 results`)
	assert.Contains(t, out, "r-1")
}

func TestLogModeAndTrace(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(zapcore.DebugLevel, &buf)

	silent := l.LogMode(gormlog.Silent)
	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("db down"))
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("db down"))
	assert.Contains(t, buf.String(), "db down")
	assert.Contains(t, buf.String(), "SELECT 1")
}

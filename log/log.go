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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/volcengine/vesearch-go/configs"
	gormlog "gorm.io/gorm/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var gLogger *Logger

// Logger wraps zap and doubles as the gorm logger for the session store.
type Logger struct {
	logger    *zap.Logger
	level     zapcore.Level
	gormLevel gormlog.LogLevel
}

func init() {
	gLogger = NewLogger(-2)
}

// NewLogger builds a console logger on stdout. Levels below debug mean
// "take the level from LOGGING_LEVEL".
func NewLogger(level zapcore.Level) *Logger {
	return NewLoggerWithWriter(level, os.Stdout)
}

func NewLoggerWithWriter(level zapcore.Level, w io.Writer) *Logger {
	if level < zapcore.DebugLevel {
		level = configuredLevel()
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)

	return &Logger{
		logger:    zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)),
		level:     level,
		gormLevel: gormLevelOf(level),
	}
}

// SetDefault replaces the package level logger and returns the previous one.
func SetDefault(l *Logger) *Logger {
	prev := gLogger
	gLogger = l
	return prev
}

func Default() *Logger {
	return gLogger
}

// With returns a child logger that always carries the given key/value pairs.
func (l *Logger) With(args ...interface{}) *Logger {
	fields, err := toZapFields(args...)
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return &Logger{logger: l.logger.With(fields...), level: l.level, gormLevel: l.gormLevel}
}

func (l *Logger) Sync() error {
	return l.logger.Sync()
}

func configuredLevel() zapcore.Level {
	cfg := configs.GetGlobalConfig()
	if cfg == nil || cfg.LOGGING == nil {
		return zapcore.InfoLevel
	}
	level, err := zapcore.ParseLevel(cfg.LOGGING.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func gormLevelOf(level zapcore.Level) gormlog.LogLevel {
	switch level {
	case zapcore.WarnLevel:
		return gormlog.Warn
	case zapcore.ErrorLevel:
		return gormlog.Error
	case zapcore.FatalLevel:
		return gormlog.Silent
	default:
		return gormlog.Info
	}
}

func (l *Logger) LogMode(level gormlog.LogLevel) gormlog.Interface {
	var zapLevel zapcore.Level
	switch level {
	case gormlog.Info:
		zapLevel = zapcore.InfoLevel
	case gormlog.Warn:
		zapLevel = zapcore.WarnLevel
	case gormlog.Error:
		zapLevel = zapcore.ErrorLevel
	case gormlog.Silent:
		zapLevel = zapcore.FatalLevel
	default:
		return l
	}
	return &Logger{logger: l.logger.WithOptions(zap.IncreaseLevel(zapLevel)), level: zapLevel, gormLevel: level}
}

func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.gormLevel <= gormlog.Silent {
		return
	}

	cost := float64(time.Since(begin).Nanoseconds()) / 1e6
	switch {
	case err != nil && !errors.Is(err, gormlog.ErrRecordNotFound):
		sql, rows := fc()
		l.Error(ctx, err.Error(), "cost", cost, "rows", rows, "sql", sql)
	case l.gormLevel == gormlog.Info:
		sql, rows := fc()
		l.Debug(ctx, "gorm", "cost", cost, "rows", rows, "sql", sql)
	}
}

func (l *Logger) log(level zapcore.Level, msg string, args ...interface{}) {
	ce := l.logger.Check(level, msg)
	if ce == nil {
		return
	}
	fields, err := toZapFields(args...)
	if err != nil {
		fields = append(fields, zap.NamedError("log_args", err))
	}
	ce.Write(fields...)
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.log(zapcore.DebugLevel, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.log(zapcore.InfoLevel, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.log(zapcore.WarnLevel, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.log(zapcore.ErrorLevel, msg, args...)
}

func Debug(msg string, args ...interface{}) { gLogger.log(zapcore.DebugLevel, msg, args...) }
func Info(msg string, args ...interface{})  { gLogger.log(zapcore.InfoLevel, msg, args...) }
func Warn(msg string, args ...interface{})  { gLogger.log(zapcore.WarnLevel, msg, args...) }
func Error(msg string, args ...interface{}) { gLogger.log(zapcore.ErrorLevel, msg, args...) }

func Debugf(format string, args ...interface{}) {
	gLogger.log(zapcore.DebugLevel, fmt.Sprintf(format, args...))
}

func Infof(format string, args ...interface{}) {
	gLogger.log(zapcore.InfoLevel, fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...interface{}) {
	gLogger.log(zapcore.WarnLevel, fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...interface{}) {
	gLogger.log(zapcore.ErrorLevel, fmt.Sprintf(format, args...))
}

func toZapFields(args ...interface{}) ([]zapcore.Field, error) {
	var fields []zapcore.Field
	if len(args)%2 != 0 {
		return fields, errors.New("invalid number of arguments: must be even (key-value pairs)")
	}

	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			return fields, fmt.Errorf("argument at index %d is not a string key", i)
		}
		fields = append(fields, toZapField(key, args[i+1]))
	}
	return fields, nil
}

func toZapField(key string, value interface{}) zapcore.Field {
	if value == nil {
		return zap.String(key, "nil")
	}
	if err, ok := value.(error); ok {
		return zap.NamedError(key, err)
	}
	if d, ok := value.(time.Duration); ok {
		return zap.Duration(key, d)
	}

	val := reflect.ValueOf(value)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return zap.String(key, "nil")
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.String:
		return zap.String(key, val.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return zap.Int64(key, val.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return zap.Uint64(key, val.Uint())
	case reflect.Float32, reflect.Float64:
		return zap.Float64(key, val.Float())
	case reflect.Bool:
		return zap.Bool(key, val.Bool())
	default:
		return zap.Any(key, value)
	}
}

package logger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Field = zap.Field

type fieldsKey struct{}

// FieldsKey 上下文中日志字段的 key
var FieldsKey = fieldsKey{}

// Logger 日志接口, Context 变体会附带上下文中的字段
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	DebugContext(ctx context.Context, msg string, fields ...Field)
	InfoContext(ctx context.Context, msg string, fields ...Field)
	WarnContext(ctx context.Context, msg string, fields ...Field)
	ErrorContext(ctx context.Context, msg string, fields ...Field)

	With(fields ...Field) Logger
}

// New 根据级别和格式创建 zap 日志
func New(level, format string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339Nano)
	return cfg.Build(zap.AddCallerSkip(1))
}

type zapLogger struct {
	l *zap.Logger
}

var _ Logger = (*zapLogger)(nil)

// NewZapLogger 包装 zap.Logger
func NewZapLogger(l *zap.Logger) Logger {
	return &zapLogger{l: l}
}

// NewNop 不输出任何内容的日志
func NewNop() Logger {
	return &zapLogger{l: zap.NewNop()}
}

func (z *zapLogger) Debug(msg string, fields ...Field) { z.l.Debug(msg, fields...) }
func (z *zapLogger) Info(msg string, fields ...Field) { z.l.Info(msg, fields...) }
func (z *zapLogger) Warn(msg string, fields ...Field) { z.l.Warn(msg, fields...) }
func (z *zapLogger) Error(msg string, fields ...Field) { z.l.Error(msg, fields...) }

func (z *zapLogger) DebugContext(ctx context.Context, msg string, fields ...Field) {
	z.l.Debug(msg, withContextFields(ctx, fields)...)
}

func (z *zapLogger) InfoContext(ctx context.Context, msg string, fields ...Field) {
	z.l.Info(msg, withContextFields(ctx, fields)...)
}

func (z *zapLogger) WarnContext(ctx context.Context, msg string, fields ...Field) {
	z.l.Warn(msg, withContextFields(ctx, fields)...)
}

func (z *zapLogger) ErrorContext(ctx context.Context, msg string, fields ...Field) {
	z.l.Error(msg, withContextFields(ctx, fields)...)
}

func (z *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{l: z.l.With(fields...)}
}

func withContextFields(ctx context.Context, fields []Field) []Field {
	ctxFields := FieldsFromContext(ctx)
	if len(ctxFields) == 0 {
		return fields
	}
	out := make([]Field, 0, len(ctxFields)+len(fields))
	out = append(out, ctxFields...)
	return append(out, fields...)
}

// FieldsFromContext 取出上下文中的日志字段
func FieldsFromContext(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(FieldsKey).([]Field)
	return fields
}

// ContextWithFields 在上下文已有字段的基础上追加字段
func ContextWithFields(ctx context.Context, fields ...Field) context.Context {
	existing := FieldsFromContext(ctx)
	merged := make([]Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, FieldsKey, merged)
}

func String(key, val string) Field { return zap.String(key, val) }
func Strings(key string, val []string) Field { return zap.Strings(key, val) }
func Int(key string, val int) Field { return zap.Int(key, val) }
func Int64(key string, val int64) Field { return zap.Int64(key, val) }
func Bool(key string, val bool) Field { return zap.Bool(key, val) }
func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }
func Any(key string, val any) Field { return zap.Any(key, val) }
func Error(err error) Field { return zap.Error(err) }

package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var global = zap.NewNop().Sugar()

// Init настраивает глобальный логгер. level: debug|info|warn|error.
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("zapcore.ParseLevel: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("zap build: %w", err)
	}

	global = l.Sugar()
	return nil
}

// Sync flushes buffered entries; call before exit.
func Sync() {
	_ = global.Sync()
}

// WithFields returns a context whose log lines carry the given key/value pairs.
func WithFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	fields := append(fieldsFrom(ctx), keysAndValues...)
	return context.WithValue(ctx, ctxKey{}, fields)
}

func fieldsFrom(ctx context.Context) []interface{} {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).([]interface{})
	// copy so that sibling contexts never share a backing array
	return append([]interface{}(nil), fields...)
}

func from(ctx context.Context) *zap.SugaredLogger {
	fields := fieldsFrom(ctx)
	if len(fields) == 0 {
		return global
	}
	return global.With(fields...)
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Errorf(format, args...)
}

func Error(ctx context.Context, msg string) {
	from(ctx).Error(msg)
}

func Fatal(ctx context.Context, err error) {
	from(ctx).Fatal(err)
}

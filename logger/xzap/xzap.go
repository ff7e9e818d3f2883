package xzap

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level string `toml:"level" mapstructure:"level"`
	Mode  string `toml:"mode" mapstructure:"mode"`
}

var logger = zap.NewNop()

// SetUp 初始化全局日志
func SetUp(c Config) error {
	level := zapcore.InfoLevel
	if c.Level != "" {
		var err error
		level, err = zapcore.ParseLevel(c.Level)
		if err != nil {
			return err
		}
	}

	var cfg zap.Config
	if c.Mode == "dev" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// WithContext 返回带上下文信息的logger
func WithContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return logger
	}
	if traceID, ok := ctx.Value(traceIDKey).(string); ok && traceID != "" {
		return logger.With(zap.String("trace_id", traceID))
	}
	return logger
}

type ctxKey string

const traceIDKey ctxKey = "trace_id"

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func Sync() {
	_ = logger.Sync()
}

package logger

import (
	"context"

	"go.uber.org/zap"

	"lifedrop/pkg/trace"
)

// Log 进程级 logger，NewLogger 之后可用
var Log = zap.NewNop()

// NewLogger 按运行环境创建 logger：local 使用开发配置，其余使用生产配置
func NewLogger(env string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if env == "local" || env == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	Log = l
	return l
}

// WithTrace 从 context 中提取 trace_id 并添加到 logger
func WithTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if traceID := trace.FromContext(ctx); traceID != "" {
		return logger.With(zap.String("trace_id", traceID))
	}
	return logger
}

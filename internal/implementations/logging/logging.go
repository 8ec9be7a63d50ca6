package logging

import (
	"context"
	"medportal/internal/core/domain/logging"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ZapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

func NewZapLogger(debug bool) *ZapLogger {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("Could not create Zap logger.")
	}
	return newZapLogger(logger)
}

func newZapLogger(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger, sugar: logger.Sugar()}
}

func (l *ZapLogger) Sync() {
	l.logger.Sync()
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Debugw(msg, prepareArgs(ctx, entries...)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Infow(msg, prepareArgs(ctx, entries...)...)
}

func (l *ZapLogger) Warning(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Warnw(msg, prepareArgs(ctx, entries...)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Errorw(msg, prepareArgs(ctx, entries...)...)
}

func prepareArgs(ctx context.Context, entries ...logging.LogEntry) []interface{} {
	args := make([]interface{}, 0, len(entries)*2+2)
	if requestID := middleware.GetReqID(ctx); requestID != "" {
		args = append(args, "requestId", requestID)
	}
	for _, e := range entries {
		args = append(args, e.Key, e.Value)
	}
	return args
}

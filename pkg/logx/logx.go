package logx

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var lg *zap.SugaredLogger

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// Init builds the process logger. service is attached to every entry.
func Init(service string) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(os.Getenv("LOG_LEVEL")))
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if service != "" {
		cfg.InitialFields = map[string]any{"service": service}
	}

	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}
	lg = z.Sugar()
}

// Use replaces the process logger, mostly for tests.
func Use(l *zap.SugaredLogger) { lg = l }

func L() *zap.SugaredLogger {
	if lg == nil {
		Init("")
	}
	return lg
}

func Sync() { _ = L().Sync() }

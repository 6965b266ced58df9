// Package logging builds the application logger. Logging is silent unless
// debug mode is on, in which case JSON lines are written to a file so the
// terminal board is not disturbed.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugLogPath is the fixed path for debug logs.
const DebugLogPath = "scheduler-debug.log"

// New returns a no-op logger when debug is false. Otherwise it returns a
// debug-level JSON logger writing to path (DebugLogPath when empty).
// The returned func flushes the logger and must be called before exit.
func New(debug bool, path string) (*zap.Logger, func(), error) {
	if !debug {
		return zap.NewNop(), func() {}, nil
	}
	if path == "" {
		path = DebugLogPath
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.Sampling = nil
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("creating debug log: %w", err)
	}
	logger.Debug("debug logging started", zap.String("log_file", path))

	return logger, func() {
		logger.Debug("debug logging stopped")
		_ = logger.Sync()
	}, nil
}

// Or returns l, or a no-op logger when l is nil.
func Or(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

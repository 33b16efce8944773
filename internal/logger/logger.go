// Package logger wraps zap logger initialization for the server.
package logger

import (
	"go.uber.org/zap"
)

// Logger holds the underlying zap logger.
type Logger struct {
	// Log is the configured zap logger instance.
	Log *zap.Logger
}

// New creates a Logger with a no-op zap instance. Call Init to
// configure it with a real level before use.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init configures the logger at the given level ("Debug", "Info",
// "Warn", "Error"). Returns an error if the level cannot be parsed
// or the logger cannot be built.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	l.Log = logger
	return nil
}

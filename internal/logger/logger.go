// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger owns the process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// log is the global zap logger instance. It is a no-op until
// Initialize runs, so library code can log unconditionally.
var log = zap.NewNop()

// Config holds logger configuration.
type Config struct {
	// Debug switches to the human-readable development encoder and
	// enables debug-level output.
	Debug bool
}

// Initialize builds the global logger.
func Initialize(cfg Config) error {
	var zapConfig zap.Config
	if cfg.Debug {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	built, err := zapConfig.Build()
	if err != nil {
		return err
	}
	log = built
	return nil
}

// L returns the global logger.
func L() *zap.Logger {
	return log
}

// Sync flushes buffered log entries. Called on process exit.
func Sync() {
	_ = log.Sync()
}

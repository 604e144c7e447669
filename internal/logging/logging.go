// Package logging builds the zap loggers shared by configkeys components.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a named console logger writing to stderr. Verbose enables
// debug output; otherwise only info and above are written.
func New(name string, verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = !verbose
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.EncoderConfig.TimeKey = ""
	}

	logger, err := cfg.Build()
	if err != nil {
		// Fall back to nop logger
		return zap.NewNop()
	}
	if name != "" {
		logger = logger.Named(name)
	}
	return logger
}

// OrNop returns l, or a nop logger when l is nil
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// Package logger constructs the application zap logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a zap logger configured for the given environment. Local and
// development environments get a human-readable console logger at debug
// level; everything else gets the production JSON logger.
func New(env string) *zap.Logger {
	switch env {
	case "local", "development":
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		log, err := cfg.Build()
		if err != nil {
			return zap.NewNop()
		}
		return log
	default:
		log, err := zap.NewProduction()
		if err != nil {
			return zap.NewNop()
		}
		return log
	}
}

// Package logging builds the zap loggers used by the gouncertain binaries.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger.
type Logger struct {
	*zap.Logger
}

// Config selects the level and the encoder: JSON in production, colored
// console output in development.
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Development bool
}

// New builds a stderr logger for cfg.
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: logger}, nil
}

// NewDefault creates an info-level production logger, or a no-op logger if
// that cannot be built.
func NewDefault() *Logger {
	return FromLevel("info", false)
}

// FromLevel builds a logger for the given level, falling back to info on an
// unknown level name.
func FromLevel(level string, development bool) *Logger {
	if _, err := parseLevel(level); err != nil {
		level = "info"
	}
	logger, err := New(Config{Level: level, Development: development})
	if err != nil {
		return &Logger{Logger: zap.NewNop()}
	}
	return logger
}

func parseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}

// Package logger holds the process-wide zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global *zap.SugaredLogger
)

// Init builds the global logger. Production uses JSON output, anything else
// the colored development encoder. An unparsable level means info.
func Init(level, env string) error {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return err
	}
	Set(l.Sugar())
	return nil
}

// Set replaces the global logger.
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	global = l
	mu.Unlock()
}

// Get returns the global logger, falling back to a development logger.
func Get() *zap.SugaredLogger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	dev, err := zap.NewDevelopment()
	if err != nil {
		dev = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = dev.Sugar()
	}
	return global
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Get().Sync()
}

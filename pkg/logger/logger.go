package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once     sync.Once
	mu       sync.RWMutex
	instance *zap.Logger
)

// New builds a zap logger. format "console" gives the development encoder,
// anything else the JSON production encoder.
func New(level, format string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(format, "console") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// Set replaces the process logger.
func Set(l *zap.Logger) {
	mu.Lock()
	instance = l
	mu.Unlock()
	once.Do(func() {})
}

// GetLogger returns the process logger, building a production logger on first use.
func GetLogger() *zap.Logger {
	once.Do(func() {
		l, err := New("info", "json")
		if err != nil {
			panic(err)
		}
		mu.Lock()
		instance = l
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

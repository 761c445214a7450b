// Package logging provides config-driven categorized logging for digitsort.
// Every category is a named child of one zap root logger; categories switched
// off in config.LoggingConfig get a no-op logger.
package logging

import (
	"fmt"
	"sync"

	"digitsort/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot   Category = "boot"   // Startup, config loading
	CategoryCLI    Category = "cli"    // Command execution
	CategoryRadix  Category = "radix"  // Per-pass sorter activity
	CategoryBatch  Category = "batch"  // Concurrent batch runs
	CategoryServer Category = "server" // HTTP API
	CategoryIngest Category = "ingest" // Input parsing
)

var (
	root    = zap.NewNop()
	cfg     config.LoggingConfig
	loggers = make(map[Category]*zap.Logger)
	mu      sync.RWMutex
)

// New builds a zap logger from the logging config. verbose forces debug level.
func New(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	var zc zap.Config
	if lc.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := parseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Initialize installs the root logger used by Get. Previously handed out
// category loggers are discarded.
func Initialize(logger *zap.Logger, lc config.LoggingConfig) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	root = logger
	cfg = lc
	loggers = make(map[Category]*zap.Logger)
}

// Get returns the logger for a category.
func Get(category Category) *zap.Logger {
	mu.RLock()
	l, ok := loggers[category]
	mu.RUnlock()
	if ok {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	if cfg.IsCategoryEnabled(string(category)) {
		l = root.Named(string(category))
	} else {
		l = zap.NewNop()
	}
	loggers[category] = l
	return l
}

// Sync flushes the root logger.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}

func parseLevel(s string) (zapcore.Level, error) {
	switch s {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level: %q", s)
	}
}

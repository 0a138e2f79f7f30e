// Package log is a thin key-value logging facade over zap.
package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	mu     sync.Mutex
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger *zap.SugaredLogger
)

func init() {
	// Safe no-op default so early callers never hit a nil logger.
	logger = zap.NewNop().Sugar()
}

// Initialize builds the process logger. Console output goes to stderr in the
// development format; jsonOutput switches to the production JSON encoder.
func Initialize(jsonOutput bool) error {
	mu.Lock()
	defer mu.Unlock()

	var cfg zap.Config
	if jsonOutput {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = level
	cfg.OutputPaths = []string{"stderr"}
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = zl.Sugar()
	return nil
}

func SetLevel(l Level) {
	switch l {
	case LevelDebug:
		level.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		level.SetLevel(zapcore.InfoLevel)
	case LevelError:
		level.SetLevel(zapcore.ErrorLevel)
	}
}

func Debug(msg string, kv ...any) {
	logger.Debugw(msg, kv...)
}

func Info(msg string, kv ...any) {
	logger.Infow(msg, kv...)
}

// Error logs msg with err prepended to the key-value list.
func Error(msg string, err error, kv ...any) {
	extended := append([]any{"err", err}, kv...)
	logger.Errorw(msg, extended...)
}

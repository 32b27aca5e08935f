// Package synclog provides structured logging for the analysis core: a
// slog-based logger for the ambient application log, and a line-oriented
// ProgressSink adapter used by the chunk orchestrator.
package synclog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger         *slog.Logger
	loggerMu       sync.RWMutex
	outputCloser   io.Closer
	currentLevel   = new(slog.LevelVar)
	initOnce       sync.Once
	initialized    bool
)

// LevelTrace is a custom level below slog.LevelDebug.
const LevelTrace = slog.Level(-8)

var levelNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		a.Value = slog.StringValue(a.Value.Time().Format("2006-01-02T15:04:05Z07:00"))
	}
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			if label, exists := levelNames[level]; exists {
				a.Value = slog.StringValue(label)
			}
		}
	}
	if a.Value.Kind() == slog.KindFloat64 {
		truncated := math.Trunc(a.Value.Float64()*100) / 100.0
		a.Value = slog.Float64Value(truncated)
	}
	return a
}

// Init sets up the default logger writing to stdout at Info level. Safe to
// call multiple times; only the first call takes effect.
func Init() {
	initOnce.Do(func() {
		currentLevel.Set(slog.LevelInfo)
		handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:       currentLevel,
			ReplaceAttr: replaceAttr,
		})
		loggerMu.Lock()
		logger = slog.New(handler)
		loggerMu.Unlock()
		initialized = true
	})
}

// IsInitialized reports whether Init has run.
func IsInitialized() bool {
	return initialized
}

// SetLevel changes the logging level for the default logger.
func SetLevel(level slog.Level) {
	currentLevel.Set(level)
}

// SetOutput redirects the default logger's output, closing any previously
// opened closer.
func SetOutput(w io.Writer) error {
	if w == nil {
		return fmt.Errorf("output writer cannot be nil")
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if outputCloser != nil {
		if err := outputCloser.Close(); err != nil {
			return fmt.Errorf("closing previous output: %w", err)
		}
		outputCloser = nil
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       currentLevel,
		ReplaceAttr: replaceAttr,
	})
	logger = slog.New(handler)
	if c, ok := w.(io.Closer); ok {
		outputCloser = c
	}
	return nil
}

// Default returns the package's default logger, initializing it if needed.
func Default() *slog.Logger {
	Init()
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// ForComponent returns a logger with a "component" attribute attached.
func ForComponent(component string) *slog.Logger {
	return Default().With("component", component)
}

// Trace logs at LevelTrace using the default logger.
func Trace(msg string, args ...any) {
	Default().Log(context.Background(), LevelTrace, msg, args...)
}

// NewFileLogger creates a slog.Logger writing JSON lines to filePath via
// lumberjack rotation, returning the logger and a close function.
func NewFileLogger(filePath, component string, levelVar *slog.LevelVar) (*slog.Logger, func() error, error) {
	dir := filepath.Dir(filePath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory %s: %w", dir, err)
		}
	}

	lj := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   false,
	}

	level := levelVar
	if level == nil {
		level = currentLevel
	}

	handler := slog.NewJSONHandler(lj, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	})

	l := slog.New(handler).With("component", component)
	return l, lj.Close, nil
}

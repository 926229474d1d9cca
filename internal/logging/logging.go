// Package logging configures the application's slog loggers: a structured
// JSON logger on stdout, a human-readable logger on stderr, and per-service
// file loggers with rotation.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var structuredLogger *slog.Logger
var humanReadableLogger *slog.Logger

const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

var levelNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
	LevelFatal: "FATAL",
}

// replaceLevelNames renames the custom TRACE/FATAL levels in log output.
func replaceLevelNames(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		level := a.Value.Any().(slog.Level)
		if label, ok := levelNames[level]; ok {
			a.Value = slog.StringValue(label)
		}
	}
	return a
}

func newHandlerOptions(level slog.Leveler) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevelNames,
	}
}

// Init initializes the logging system with structured and human-readable
// loggers. JSON goes to stdout, text to stderr.
func Init() {
	SetLevel(slog.LevelInfo)
}

// SetLevel sets the minimum logging level for both default loggers.
func SetLevel(level slog.Level) {
	structuredLogger = slog.New(slog.NewJSONHandler(os.Stdout, newHandlerOptions(level)))
	humanReadableLogger = slog.New(slog.NewTextHandler(os.Stderr, newHandlerOptions(level)))
	slog.SetDefault(structuredLogger)
}

// StructuredLogger returns the JSON logger.
func StructuredLogger() *slog.Logger {
	return structuredLogger
}

// HumanReadableLogger returns the text logger.
func HumanReadableLogger() *slog.Logger {
	return humanReadableLogger
}

// Fatal logs a message at the custom FATAL level and exits.
func Fatal(msg string, args ...any) {
	slog.Log(context.TODO(), LevelFatal, msg, args...)
	os.Exit(1)
}

// Trace logs a message at the custom TRACE level.
func Trace(msg string, args ...any) {
	slog.Log(context.TODO(), LevelTrace, msg, args...)
}

// NewFileLogger creates a slog.Logger writing JSON logs to filePath through
// a lumberjack writer for rotation. All records carry a 'service' attribute.
// It returns the logger, a function that closes the underlying writer, and
// an error if setup fails.
func NewFileLogger(filePath, serviceName string, level slog.Leveler) (*slog.Logger, func() error, error) {
	logDir := filepath.Dir(filePath)
	if logDir != "." {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	logWriter := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	fileHandler := slog.NewJSONHandler(logWriter, newHandlerOptions(level))
	logger := slog.New(fileHandler).With("service", serviceName)

	return logger, logWriter.Close, nil
}

// ForService returns a file logger for the named service, falling back to a
// disabled logger when file setup fails so callers never hold a nil logger.
func ForService(serviceName string, level slog.Leveler) (*slog.Logger, func() error) {
	logFilePath := filepath.Join("logs", serviceName+".log")
	logger, closer, err := NewFileLogger(logFilePath, serviceName, level)
	if err != nil {
		slog.Warn("failed to initialize service file logger, service logging disabled",
			"service", serviceName,
			"path", logFilePath,
			"error", err)
		handler := slog.NewJSONHandler(io.Discard, newHandlerOptions(level))
		return slog.New(handler).With("service", serviceName), func() error { return nil }
	}
	return logger, closer
}

// Package logging provides the structured logger shared by the pipeline.
// It wraps log/slog; the parser and enhancement components receive a
// logger by injection rather than reaching for a package-level global.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level  LogLevel `json:"level"`
	Format string   `json:"format"` // "json" or "text"
	Output string   `json:"output"` // "stdout", "stderr" or "discard"
}

// ParseLevel maps a level name to a LogLevel. Unknown names fall back to
// info.
func ParseLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// DefaultLogConfig returns sensible default logging configuration
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  LevelInfo,
		Format: "text",
		Output: "stdout",
	}
}

// Logger provides structured logging for the pipeline components.
type Logger struct {
	config  LogConfig
	slogger *slog.Logger
}

// NewLogger creates a new structured logger
func NewLogger(config LogConfig) *Logger {
	var writer io.Writer
	switch config.Output {
	case "stderr":
		writer = os.Stderr
	case "discard":
		writer = io.Discard
	default:
		writer = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: slogLevel(config.Level)}
	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	return &Logger{config: config, slogger: slog.New(handler)}
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *Logger {
	return NewLogger(LogConfig{Level: LevelError, Format: "text", Output: "discard"})
}

// WithComponent returns a logger tagged with component information
func (l *Logger) WithComponent(component string) *ComponentLogger {
	return &ComponentLogger{logger: l, component: component}
}

// Debug logs at debug level
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(LevelDebug, msg, nil, fields)
}

// Info logs at info level
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, nil, fields)
}

// Warn logs at warning level
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, nil, fields)
}

// Error logs at error level
func (l *Logger) Error(msg string, err error, fields ...Field) {
	l.log(LevelError, msg, err, fields)
}

// Fatal logs at error level and exits
func (l *Logger) Fatal(msg string, err error, fields ...Field) {
	l.log(LevelFatal, msg, err, fields)
	os.Exit(1)
}

// ComponentLogger provides component-specific logging
type ComponentLogger struct {
	logger    *Logger
	component string
}

func (cl *ComponentLogger) Debug(msg string, fields ...Field) {
	cl.logger.log(LevelDebug, msg, nil, cl.tagged(fields))
}

func (cl *ComponentLogger) Info(msg string, fields ...Field) {
	cl.logger.log(LevelInfo, msg, nil, cl.tagged(fields))
}

func (cl *ComponentLogger) Warn(msg string, fields ...Field) {
	cl.logger.log(LevelWarn, msg, nil, cl.tagged(fields))
}

func (cl *ComponentLogger) Error(msg string, err error, fields ...Field) {
	cl.logger.log(LevelError, msg, err, cl.tagged(fields))
}

func (cl *ComponentLogger) tagged(fields []Field) []Field {
	return append(fields, String("component", cl.component))
}

func (l *Logger) log(level LogLevel, msg string, err error, fields []Field) {
	if level < l.config.Level {
		return
	}
	attrs := make([]any, 0, len(fields)*2+2)
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	for _, f := range fields {
		attrs = append(attrs, f.Key, f.Value)
	}
	l.slogger.Log(context.Background(), slogLevel(level), msg, attrs...)
}

func slogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError, LevelFatal:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// Field constructors
func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value.String()} }

func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }

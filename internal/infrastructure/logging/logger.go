// Package logging provides structured logging infrastructure for gtc.
// It wraps Go's standard log/slog package with context-aware logging,
// correlation IDs, and counting-specific log attributes.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// contextKey is used for storing logger-related values in context.
type contextKey string

const (
	// CorrelationIDKey is the context key for correlation IDs.
	CorrelationIDKey contextKey = "correlation_id"
	// ToolKey is the context key for the MCP tool being served.
	ToolKey contextKey = "tool"
	// EncodingKey is the context key for the resolved encoding.
	EncodingKey contextKey = "encoding"
)

// Level represents log levels.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format represents log output formats.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds logging configuration.
type Config struct {
	Level      Level
	Format     Format
	Output     io.Writer
	AddSource  bool
	TimeFormat string
}

// DefaultConfig returns the default logging configuration. A CLI keeps
// stderr quiet unless something goes wrong, so the default level is warn.
func DefaultConfig() Config {
	return Config{
		Level:      LevelWarn,
		Format:     FormatText,
		Output:     os.Stderr,
		AddSource:  false,
		TimeFormat: time.RFC3339,
	}
}

// Logger wraps slog.Logger with additional functionality for gtc.
type Logger struct {
	slogger *slog.Logger
	level   *slog.LevelVar
}

var (
	defaultLogger *Logger
	defaultOnce   sync.Once
)

// Default returns a shared logger built from DefaultConfig.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(DefaultConfig())
	})
	return defaultLogger
}

// New creates a new Logger with the provided configuration.
func New(cfg Config) *Logger {
	level := new(slog.LevelVar)
	level.Set(ParseLevel(cfg.Level))

	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && cfg.TimeFormat != "" {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.Format(cfg.TimeFormat))
				}
			}
			return a
		},
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{
		slogger: slog.New(handler),
		level:   level,
	}
}

// ParseLevel converts a Level to slog.Level. Unknown levels map to info.
func ParseLevel(l Level) slog.Level {
	switch Level(strings.ToLower(string(l))) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel dynamically changes the log level.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(ParseLevel(level))
}

// With returns a new Logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slogger: l.slogger.With(args...),
		level:   l.level,
	}
}

// DebugContext logs at debug level with context.
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.slogger.DebugContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// InfoContext logs at info level with context.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slogger.InfoContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// WarnContext logs at warn level with context.
func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.slogger.WarnContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// ErrorContext logs at error level with context.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slogger.ErrorContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// enrichArgs extracts context values and adds them as log attributes.
func (l *Logger) enrichArgs(ctx context.Context, args []any) []any {
	enriched := make([]any, 0, len(args)+6)

	if v := ctx.Value(CorrelationIDKey); v != nil {
		enriched = append(enriched, "correlation_id", v)
	}
	if v := ctx.Value(ToolKey); v != nil {
		enriched = append(enriched, "tool", v)
	}
	if v := ctx.Value(EncodingKey); v != nil {
		enriched = append(enriched, "encoding", v)
	}

	enriched = append(enriched, args...)
	return enriched
}

// Underlying returns the underlying slog.Logger.
func (l *Logger) Underlying() *slog.Logger {
	return l.slogger
}

// --- Context helpers ---

// WithCorrelationID adds a correlation ID to the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// WithTool adds an MCP tool name to the context.
func WithTool(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ToolKey, name)
}

// WithEncoding adds the resolved encoding to the context.
func WithEncoding(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, EncodingKey, name)
}

// --- Domain-specific logging helpers ---

// LogCountStart logs the start of a count over a resolved file list.
func LogCountStart(ctx context.Context, logger *Logger, encoding string, files int) {
	logger.DebugContext(ctx, "count started",
		"encoding", encoding,
		"files", files,
	)
}

// LogCountComplete logs the completion of a count.
func LogCountComplete(ctx context.Context, logger *Logger, totalTokens, failed int, duration time.Duration) {
	logger.InfoContext(ctx, "count completed",
		"total_tokens", totalTokens,
		"failed_files", failed,
		"duration_ms", duration.Milliseconds(),
	)
}

// LogFileCounted logs a single counted file.
func LogFileCounted(ctx context.Context, logger *Logger, path string, tokens int) {
	logger.DebugContext(ctx, "file counted",
		"path", path,
		"tokens", tokens,
	)
}

// LogFileFailed logs a file that could not be counted.
func LogFileFailed(ctx context.Context, logger *Logger, path string, err error) {
	logger.WarnContext(ctx, "file not counted",
		"path", path,
		"error", err.Error(),
	)
}

// LogToolCall logs an MCP tool invocation.
func LogToolCall(ctx context.Context, logger *Logger, tool string, duration time.Duration, isError bool) {
	args := []any{"duration_ms", duration.Milliseconds(), "is_error", isError}
	if ctx.Value(ToolKey) == nil {
		args = append(args, "tool", tool)
	}
	logger.InfoContext(ctx, "tool call", args...)
}

package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dshills/postforge/internal/config"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Slog returns the matching slog level.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown names are info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Level is the minimum log level to output.
	Level LogLevel
	// Format is "text" or "json".
	Format string
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// App is attached to every record as the "app" attribute when set.
	App string
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  LogLevelInfo,
		Format: config.FormatText,
		Output: os.Stderr,
	}
}

// LoggerConfigFrom builds a LoggerConfig from the logging section.
func LoggerConfigFrom(c config.LoggingConfig) LoggerConfig {
	cfg := DefaultLoggerConfig()
	cfg.Level = ParseLogLevel(c.Level)
	if c.Format != "" {
		cfg.Format = c.Format
	}
	return cfg
}

// Logger is a slog.Logger whose level can change at runtime.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg LoggerConfig) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	level := new(slog.LevelVar)
	level.Set(cfg.Level.Slog())
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.Format == config.FormatJSON {
		h = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		h = slog.NewTextHandler(cfg.Output, opts)
	}

	l := slog.New(h)
	if cfg.App != "" {
		l = l.With("app", cfg.App)
	}
	return &Logger{Logger: l, level: level}
}

// NullLogger discards all output.
func NullLogger() *Logger {
	level := new(slog.LevelVar)
	return &Logger{Logger: slog.New(slog.DiscardHandler), level: level}
}

// WithComponent returns a logger with the component attribute set.
func (l *Logger) WithComponent(component string) *slog.Logger {
	return l.With("component", component)
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.level.Set(level.Slog())
}

// Level returns the minimum log level.
func (l *Logger) Level() LogLevel {
	switch lv := l.level.Level(); {
	case lv <= slog.LevelDebug:
		return LogLevelDebug
	case lv <= slog.LevelInfo:
		return LogLevelInfo
	case lv <= slog.LevelWarn:
		return LogLevelWarn
	default:
		return LogLevelError
	}
}

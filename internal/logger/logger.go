// Package logger provides structured logging for the TravelTodo backend.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog with service specific helpers.
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool
	Output     io.Writer
	WithCaller bool
}

// New creates a structured logger.
func New(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "traveltodo").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}
	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything. Used by tests and as the
// fallback when a component is built without one.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Zerolog returns the underlying zerolog logger
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.get().zlog
}

func (l *Logger) get() *Logger {
	if l == nil {
		return nopLogger
	}
	return l
}

var nopLogger = Nop()

func (l *Logger) Info() *zerolog.Event  { return l.get().zlog.Info() }
func (l *Logger) Debug() *zerolog.Event { return l.get().zlog.Debug() }
func (l *Logger) Warn() *zerolog.Event  { return l.get().zlog.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.get().zlog.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.get().zlog.Fatal() }

// With returns a child logger carrying one extra field.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{zlog: l.get().zlog.With().Interface(key, value).Logger()}
}

// HTTPLogger returns a logger for the HTTP layer.
func (l *Logger) HTTPLogger() *Logger {
	return &Logger{zlog: l.get().zlog.With().Str("component", "http").Logger()}
}

// DbLogger returns a logger for database operations
func (l *Logger) DbLogger(operation string) *Logger {
	return &Logger{
		zlog: l.get().zlog.With().
			Str("component", "database").
			Str("operation", operation).
			Logger(),
	}
}

// ChatLogger returns a logger scoped to one conversation.
func (l *Logger) ChatLogger(sessionID string) *Logger {
	return &Logger{
		zlog: l.get().zlog.With().
			Str("component", "chatbot").
			Str("session_id", sessionID).
			Logger(),
	}
}

// LogRequest logs a finished HTTP request.
func (l *Logger) LogRequest(method, route string, status int, duration time.Duration, clientIP string) {
	zl := l.get().zlog
	event := zl.Info()
	switch {
	case status >= 500:
		event = zl.Error()
	case status >= 400:
		event = zl.Warn()
	}
	event.
		Str("component", "http").
		Str("method", method).
		Str("route", route).
		Int("status", status).
		Dur("duration_ms", duration).
		Str("client_ip", clientIP).
		Msg("request completed")
}

// LogGeneratorCall logs one call to the external reply generator.
func (l *Logger) LogGeneratorCall(provider string, duration time.Duration, err error) {
	zl := l.get().zlog
	if err != nil {
		zl.Warn().
			Str("component", "llm").
			Str("provider", provider).
			Dur("duration_ms", duration).
			Err(err).
			Msg("generator call failed, using template reply")
		return
	}
	zl.Debug().
		Str("component", "llm").
		Str("provider", provider).
		Dur("duration_ms", duration).
		Msg("generator call completed")
}

// LogServerStart logs server startup
func (l *Logger) LogServerStart(addr, driver, provider string) {
	l.get().zlog.Info().
		Str("event", "server_start").
		Str("addr", addr).
		Str("database", driver).
		Str("provider", provider).
		Msg("TravelTodo backend starting")
}

// InitGlobal installs the logger as the zerolog global logger.
func InitGlobal(cfg Config) *Logger {
	l := New(cfg)
	log.Logger = l.zlog
	return l
}

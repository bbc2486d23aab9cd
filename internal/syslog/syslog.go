package syslog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/kardianos/service"
	"github.com/rs/zerolog"
)

// Logger is a zerolog logger that can be redirected to a service logger
// (the Windows Event Log when running as a Windows service).
type Logger struct {
	mu   sync.RWMutex
	zlog zerolog.Logger
}

// LogEntry represents a single log entry with additional context.
type LogEntry struct {
	Level   string
	Message string
	Err     error
	Fields  map[string]interface{}
	logger  *Logger
}

// Global logger instance.
var L *Logger

func init() {
	L = newLogger(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
		w.TimeFormat = time.RFC3339
	}))
}

func newLogger(w io.Writer) *Logger {
	return &Logger{
		zlog: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// SetServiceLogger sends every following entry to the logger of s as a
// JSON line.
func (l *Logger) SetServiceLogger(s service.Service) error {
	logger, err := s.Logger(nil)
	if err != nil {
		return fmt.Errorf("failed to set service logger: %w", err)
	}

	l.mu.Lock()
	l.zlog = zerolog.New(&LogWriter{logger: logger}).With().Timestamp().Logger()
	l.mu.Unlock()

	l.Info().WithMessage("service logger attached").Write()
	return nil
}

// Error starts a new log entry for an error.
func (l *Logger) Error(err error) *LogEntry {
	return &LogEntry{
		Level:  "error",
		Err:    err,
		Fields: make(map[string]interface{}),
		logger: l,
	}
}

// Warn starts a new log entry for a warning.
func (l *Logger) Warn() *LogEntry {
	return &LogEntry{
		Level:  "warn",
		Fields: make(map[string]interface{}),
		logger: l,
	}
}

// Info starts a new log entry for informational messages.
func (l *Logger) Info() *LogEntry {
	return &LogEntry{
		Level:  "info",
		Fields: make(map[string]interface{}),
		logger: l,
	}
}

// WithMessage adds a message to the log entry.
func (e *LogEntry) WithMessage(msg string) *LogEntry {
	e.Message = msg
	return e
}

// WithField adds a single key-value pair to the log entry.
func (e *LogEntry) WithField(key string, value interface{}) *LogEntry {
	e.Fields[key] = value
	return e
}

// WithFields adds multiple key-value pairs to the log entry.
func (e *LogEntry) WithFields(fields map[string]interface{}) *LogEntry {
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e
}

// Write finalizes the log entry.
func (e *LogEntry) Write() {
	e.logger.mu.RLock()
	defer e.logger.mu.RUnlock()

	var event *zerolog.Event
	switch e.Level {
	case "warn":
		event = e.logger.zlog.Warn()
	case "error":
		event = e.logger.zlog.Error()
	default:
		event = e.logger.zlog.Info()
	}

	if e.Err != nil {
		event = event.Err(e.Err)
	}
	event.Fields(e.Fields).Msg(e.Message)
}

// Package logging writes inboxkit's structured JSON logs.
//
// Each process gets its own file under {state_dir}/logs. Every entry carries
// the app version, pid and command, and values of sensitive keys are
// redacted before they reach the file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/cristianoliveira/inboxkit/internal/colors"
	"github.com/cristianoliveira/inboxkit/internal/version"
)

// Logger is the structured logging interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a child logger that adds args to every entry.
	With(args ...any) Logger
	// Shutdown closes the log file. Children share it with their parent.
	Shutdown() error
}

// sink is the destination shared by a logger and its children.
type sink struct {
	path      string
	closer    io.Closer
	closeOnce sync.Once
	closeErr  error
}

func (s *sink) close() error {
	if s.closer == nil {
		return nil
	}
	s.closeOnce.Do(func() { s.closeErr = s.closer.Close() })
	return s.closeErr
}

type jsonLogger struct {
	clogger  *clog.Logger
	redactor *redactor
	sink     *sink
}

// Init opens a log file for cfg. A disabled config yields a logger that
// discards everything.
func Init(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return noopLogger{}, nil
	}
	dir, err := LogDir()
	if err != nil {
		return nil, fmt.Errorf("log directory: %w", err)
	}
	if err := rotate(dir, cfg.MaxFiles); err != nil {
		fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
	}

	path := filepath.Join(dir, logFileName(time.Now(), cfg.PID, cfg.Command))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := newJSONLogger(f, cfg.Level, &sink{path: path, closer: f})
	return l.With("app", appName, "version", version.String(), "pid", cfg.PID, "command", cfg.Command), nil
}

// NewWriterLogger returns a logger writing JSON lines to w.
func NewWriterLogger(w io.Writer, level string) Logger {
	return newJSONLogger(w, level, &sink{})
}

func newJSONLogger(w io.Writer, level string, s *sink) *jsonLogger {
	clogger := clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           parseLevel(level),
		Formatter:       clog.JSONFormatter,
	})
	return &jsonLogger{clogger: clogger, redactor: newRedactor(), sink: s}
}

// parseLevel maps a configured level to clog's, defaulting to info.
func parseLevel(level string) clog.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := clog.ParseLevel(name)
	if err != nil || lvl == clog.FatalLevel {
		return clog.InfoLevel
	}
	return lvl
}

func (l *jsonLogger) Debug(msg string, args ...any) {
	l.clogger.Debug(msg, l.redactor.redact(args)...)
}

func (l *jsonLogger) Info(msg string, args ...any) {
	l.clogger.Info(msg, l.redactor.redact(args)...)
}

func (l *jsonLogger) Warn(msg string, args ...any) {
	l.clogger.Warn(msg, l.redactor.redact(args)...)
}

func (l *jsonLogger) Error(msg string, args ...any) {
	l.clogger.Error(msg, l.redactor.redact(args)...)
}

func (l *jsonLogger) With(args ...any) Logger {
	return &jsonLogger{
		clogger:  l.clogger.With(l.redactor.redact(args)...),
		redactor: l.redactor,
		sink:     l.sink,
	}
}

func (l *jsonLogger) Shutdown() error {
	return l.sink.close()
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any)  {}
func (noopLogger) Info(string, ...any)   {}
func (noopLogger) Warn(string, ...any)   {}
func (noopLogger) Error(string, ...any)  {}
func (n noopLogger) With(...any) Logger { return n }
func (noopLogger) Shutdown() error       { return nil }

var (
	globalMu sync.RWMutex
	global   Logger
)

// InitGlobal installs the process logger from the loaded configuration and
// mirrors console output into it. Later calls are no-ops.
func InitGlobal() error {
	globalMu.Lock()
	if global != nil {
		globalMu.Unlock()
		return nil
	}
	l, err := Init(FromGlobalConfig())
	if err != nil {
		globalMu.Unlock()
		return err
	}
	global = l
	globalMu.Unlock()

	colors.SetLogger(l)
	if path := CurrentLogFile(); path != "" {
		colors.Debug("Logging to file:", path)
	}
	return nil
}

// GetGlobal returns the process logger, or one that discards everything.
func GetGlobal() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if global == nil {
		return noopLogger{}
	}
	return global
}

// Debug logs with the process logger.
func Debug(msg string, args ...any) { GetGlobal().Debug(msg, args...) }

// Info logs with the process logger.
func Info(msg string, args ...any) { GetGlobal().Info(msg, args...) }

// Warn logs with the process logger.
func Warn(msg string, args ...any) { GetGlobal().Warn(msg, args...) }

// Error logs with the process logger.
func Error(msg string, args ...any) { GetGlobal().Error(msg, args...) }

// With returns a child of the process logger.
func With(args ...any) Logger { return GetGlobal().With(args...) }

// ShutdownGlobal closes the process log file.
func ShutdownGlobal() error {
	return GetGlobal().Shutdown()
}

// CurrentLogFile returns the file the process logger writes to, or "".
func CurrentLogFile() string {
	if l, ok := GetGlobal().(*jsonLogger); ok {
		return l.sink.path
	}
	return ""
}

// Package simplelogger builds the process-wide slog logger.
//
// Logging is off unless DIFFY_LOG_FILE names a file; log lines are then appended to it in slog's text format.
package simplelogger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// EnvLogFile names the environment variable holding the log file path.
const EnvLogFile = "DIFFY_LOG_FILE"

// ParseLevel parses "debug", "info", "warn", or "error" (case-insensitive). Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	s = strings.TrimSpace(s)
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// Logger is a *slog.Logger plus the file it writes to, if any.
type Logger struct {
	*slog.Logger

	mu sync.Mutex
	f  *os.File
}

// New returns a logger at level that appends to the file named by DIFFY_LOG_FILE. If the variable is unset or the file can't be opened, the logger discards
// everything.
func New(level slog.Level) *Logger {
	path := os.Getenv(EnvLogFile)
	if path == "" {
		return &Logger{Logger: discard()}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &Logger{Logger: discard()}
	}

	return &Logger{
		Logger: slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})),
		f:      f,
	}
}

// Close closes the log file. It is safe to call more than once.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

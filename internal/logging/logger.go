// Package logging provides a leveled logger with optional file sink.
// ANSI colors are managed by [term.Configure]; the logger reads them
// from the [term] package at write time.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nvxlabs/mediaplan/internal/config"
	"github.com/nvxlabs/mediaplan/internal/term"
	"github.com/rs/zerolog"
)

// Logger writes leveled messages to stdout/stderr and optionally mirrors
// them as structured records to a log file via zerolog. All write
// operations are serialized under a mutex for safe concurrent use.
type Logger struct {
	mu     sync.Mutex
	file   *os.File
	zl     zerolog.Logger
	hasZl  bool
}

// NewLogger initializes terminal colors via [term.Configure] and opens a
// log file if cfg.LogFile is set. The file sink is a zerolog JSON logger
// (the console path keeps the teacher's colorized line-writer unchanged).
// The caller must call [Logger.Close] when finished.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	l := &Logger{}
	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		l.zl = zerolog.New(f).With().Timestamp().Logger()
		l.hasZl = true
	}
	return l, nil
}

// Close flushes and closes the log file, if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// line writes a single timestamped log entry to the console. ERROR goes to
// stderr; all others go to stdout. When a log file is open, the same
// record is additionally appended there as structured JSON via zerolog.
func (l *Logger) line(level, ansiColor, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	plain := ts + " [" + level + "] " + text + "\n"

	l.mu.Lock()
	defer l.mu.Unlock()

	out := os.Stdout
	if level == "ERROR" {
		out = os.Stderr
	}

	if ansiColor != "" {
		_, _ = io.WriteString(out, ts+" "+ansiColor+"["+level+"]"+term.NC+" "+text+"\n")
	} else {
		_, _ = io.WriteString(out, plain)
	}

	if l.hasZl {
		l.zl.WithLevel(zerologLevel(level)).Msg(text)
	}
}

func zerologLevel(level string) zerolog.Level {
	switch level {
	case "ERROR":
		return zerolog.ErrorLevel
	case "WARN":
		return zerolog.WarnLevel
	case "DEBUG":
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// Fields logs a structured record at info level, with key/value pairs
// appended in order (e.g. job=<id> trigger=<t> state=<s>). Used by the
// workflow driver to log every state transition (§4.8, §4.12).
func (l *Logger) Fields(msg string, kv ...interface{}) {
	l.line("INFO", term.Blue, formatFields(msg, kv))
}

func formatFields(msg string, kv []interface{}) string {
	out := msg
	for i := 0; i+1 < len(kv); i += 2 {
		out += fmt.Sprintf(" %v=%v", kv[i], kv[i+1])
	}
	return out
}

// Info logs an informational message (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", term.Blue, fmt.Sprintf(format, args...))
}

// Success logs a success message (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", term.Green, fmt.Sprintf(format, args...))
}

// Warn logs a warning (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", term.Yellow, fmt.Sprintf(format, args...))
}

// Error logs an error (red) to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Red, fmt.Sprintf(format, args...))
}

// Render logs a render-plan message (magenta).
func (l *Logger) Render(format string, args ...interface{}) {
	l.line("RENDER", term.Magenta, fmt.Sprintf(format, args...))
}

// Outlier logs a bitrate-outlier message (orange).
func (l *Logger) Outlier(format string, args ...interface{}) {
	l.line("OUTLIER", term.Orange, fmt.Sprintf(format, args...))
}

// Debug logs a debug message (cyan) only when verbose is true.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.line("DEBUG", term.Cyan, fmt.Sprintf(format, args...))
}

// Package logging provides the leveled logger used across muxsweep. It is a
// thin layer over logrus: the base logger writes nowhere and every sink is a
// hook, so the console, the log file and metrics counters each see entries
// at their own levels.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/backmassage/muxsweep/internal/config"
	"github.com/backmassage/muxsweep/internal/term"
)

const timestampFormat = "2006-01-02 15:04:05"

// Options selects the sinks of a Logger.
type Options struct {
	LogPath string    // Log file, DEBUG and above, appended. Empty disables it.
	Console bool      // Write INFO and above to Stdout/Stderr.
	Color   bool      // ANSI colors on the console.
	Verbose bool      // Also write DEBUG to the console.
	Stdout  io.Writer // Console sink for non-error levels; os.Stdout when nil.
	Stderr  io.Writer // Console sink for ERROR and above; os.Stderr when nil.
}

// Logger provides leveled logging with console and file sinks.
type Logger struct {
	base *logrus.Logger

	mu   sync.Mutex
	file *os.File
}

// NewLogger configures colors from cfg and builds a Logger for its sinks.
// The console is off when both encoder streams are redirected to files.
// Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	return New(Options{
		LogPath: cfg.LogPath,
		Console: !cfg.ConsoleSuppressed(),
		Color:   term.Enabled(),
		Verbose: cfg.Verbose,
	})
}

// New builds a Logger from explicit options.
func New(opts Options) (*Logger, error) {
	base := logrus.New()
	base.SetOutput(io.Discard)
	base.SetLevel(logrus.DebugLevel)
	l := &Logger{base: base}

	if opts.Console {
		stdout, stderr := opts.Stdout, opts.Stderr
		if stdout == nil {
			stdout = os.Stdout
		}
		if stderr == nil {
			stderr = os.Stderr
		}
		minLevel := logrus.InfoLevel
		if opts.Verbose {
			minLevel = logrus.DebugLevel
		}
		base.AddHook(&writerHook{
			out:    stdout,
			errOut: stderr,
			levels: levelsUpTo(minLevel),
			formatter: &logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: timestampFormat,
				ForceColors:     opts.Color,
				DisableColors:   !opts.Color,
			},
		})
	}

	if opts.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogPath), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		base.AddHook(&writerHook{
			out:    f,
			levels: levelsUpTo(logrus.DebugLevel),
			formatter: &logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: timestampFormat,
				DisableColors:   true,
			},
		})
	}
	return l, nil
}

// Discard returns a Logger with no sinks.
func Discard() *Logger {
	l, _ := New(Options{})
	return l
}

// AddHook attaches an extra logrus hook, e.g. a metrics counter.
func (l *Logger) AddHook(h logrus.Hook) {
	l.base.AddHook(h)
}

// Close closes the log file if one was opened.
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

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.base.Infof(format, args...)
}

// Success logs at INFO level tagged status=success.
func (l *Logger) Success(format string, args ...interface{}) {
	l.base.WithField("status", "success").Infof(format, args...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.base.Warnf(format, args...)
}

// Error logs at ERROR level, on the console's error stream.
func (l *Logger) Error(format string, args ...interface{}) {
	l.base.Errorf(format, args...)
}

// Debug logs at DEBUG level: always to the log file, to the console only
// when verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.base.Debugf(format, args...)
}

// writerHook formats entries and writes them to out, or to errOut for
// ERROR and above when set.
type writerHook struct {
	mu        sync.Mutex
	out       io.Writer
	errOut    io.Writer
	levels    []logrus.Level
	formatter logrus.Formatter
}

func (h *writerHook) Levels() []logrus.Level { return h.levels }

func (h *writerHook) Fire(e *logrus.Entry) error {
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	w := h.out
	if h.errOut != nil && e.Level <= logrus.ErrorLevel {
		w = h.errOut
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = w.Write(b)
	return err
}

// levelsUpTo returns every level from panic down to min, inclusive.
func levelsUpTo(min logrus.Level) []logrus.Level {
	var out []logrus.Level
	for _, lvl := range logrus.AllLevels {
		if lvl <= min {
			out = append(out, lvl)
		}
	}
	return out
}

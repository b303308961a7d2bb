// Package logging builds the zerolog loggers used across wlandoctor.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// AutoFile asks New to create a timestamped session log under LogDir.
const AutoFile = "auto"

// LogDir is where session log files are created.
const LogDir = "logs"

type Config struct {
	Level string
	// Debug forces debug level regardless of Level.
	Debug bool
	// Output is "stderr" (default) or "stdout".
	Output string
	// Writer overrides Output when set.
	Writer io.Writer
	// Console renders human readable lines instead of JSON.
	Console bool
	NoColor bool
	// File additionally writes JSON lines to a file. AutoFile picks
	// logs/troubleshooting-<timestamp>.log.
	File       string
	TimeFormat string
}

// Logger is a configured logger plus the resources behind it.
type Logger struct {
	zerolog.Logger
	// Path is the session log file, empty when none was opened.
	Path string

	file *os.File
}

// Close flushes and closes the session log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// New creates a logger from cfg.
func New(cfg Config) (*Logger, error) {
	return newAt(cfg, time.Now())
}

func newAt(cfg Config, now time.Time) (*Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	} else if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
	}

	var out io.Writer = os.Stderr
	switch {
	case cfg.Writer != nil:
		out = cfg.Writer
	case cfg.Output == "stdout":
		out = os.Stdout
	}
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: cfg.NoColor}
	}

	l := &Logger{}
	if cfg.File != "" {
		path := cfg.File
		if path == AutoFile {
			path = SessionFile(LogDir, now)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		l.Path = path
		out = zerolog.MultiLevelWriter(out, f)
	}

	zerolog.TimeFieldFormat = timeFormat
	l.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return l, nil
}

// SessionFile returns the path of a per-session log file.
func SessionFile(dir string, now time.Time) string {
	return filepath.Join(dir, "troubleshooting-"+now.Format("20060102-150405")+".log")
}

// WithComponent tags log lines with the emitting component.
func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() zerolog.Logger {
	return zerolog.Nop()
}

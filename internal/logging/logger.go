package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"animelibrarian/internal/config"
)

// LogFileName is the name of the run log written under the configured log directory.
const LogFileName = "animelibrarian.log"

// Options describes logger construction parameters.
type Options struct {
	// Level applies to the console handler.
	Level string
	// Format selects the console rendering: "console" or "json".
	Format string
	// Console receives human-facing log lines. Defaults to stderr so command
	// output on stdout stays machine readable.
	Console io.Writer
	// FilePath, when set, receives JSON lines at Level or info, whichever is lower.
	FilePath    string
	Development bool
}

// Logger wraps slog.Logger with the file it owns.
type Logger struct {
	*slog.Logger
	file *os.File
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// New constructs a logger using the provided options.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	addSource := opts.Development || level <= slog.LevelDebug

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var consoleHandler slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		consoleHandler = newPrettyHandler(console, level, addSource)
	case "json":
		consoleHandler = newJSONHandler(console, level, addSource)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	var (
		fileHandler slog.Handler
		file        *os.File
	)
	if path := strings.TrimSpace(opts.FilePath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		fileHandler = newJSONHandler(file, min(level, slog.LevelInfo), addSource)
	}

	return &Logger{Logger: slog.New(newFanoutHandler(consoleHandler, fileHandler)), file: file}, nil
}

// NewFromConfig creates a logger using application config. Verbose forces
// debug output on the console. A nil console writes to stderr.
func NewFromConfig(cfg *config.Config, verbose bool, console io.Writer) (*Logger, error) {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	opts := Options{
		Level:   level,
		Format:  cfg.Logging.Format,
		Console: console,
	}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		opts.FilePath = filepath.Join(dir, LogFileName)
	}
	return New(opts)
}

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log level: unsupported value %q", level)
	}
}

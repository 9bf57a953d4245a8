// Package logging sets up the file logger.
//
// The terminal is owned by the display surface, so nothing is ever logged to
// stdout or stderr while the window is up; records go to a file instead.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// FileName is the default log file name inside the state directory
	FileName = "xarrow.log"

	// MaxLogSize triggers rotation at startup
	MaxLogSize = 10 * 1024 * 1024

	rotateLayout = "20060102-150405"
)

// Config selects whether and where to log
type Config struct {
	Enabled bool
	Path    string // empty selects $XDG_STATE_HOME/xarrow/xarrow.log
	Level   string
}

// DefaultPath returns $XDG_STATE_HOME/xarrow/xarrow.log, falling back to ~/.local/state
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "xarrow", FileName), nil
}

// ParseLevel maps a level name to zerolog, defaulting to info
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup opens the log file and returns a logger writing to it
// When disabled, returns a no-op logger and a nil file; stdlib log output is discarded
func Setup(cfg Config) (zerolog.Logger, *os.File, error) {
	if !cfg.Enabled {
		log.SetOutput(io.Discard)
		return zerolog.Nop(), nil, nil
	}

	path := cfg.Path
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("log path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}

	if err := rotate(path); err != nil {
		return zerolog.Nop(), nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	// Libraries using the standard logger land in the same file
	log.SetOutput(file)

	logger := zerolog.New(file).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return logger, file, nil
}

// rotate moves an oversized log aside with a timestamp suffix
func rotate(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= MaxLogSize {
		return nil
	}
	ext := filepath.Ext(path)
	rotated := strings.TrimSuffix(path, ext) + "-" + time.Now().Format(rotateLayout) + ext
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}

package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LogConfig selects where session records go.
type LogConfig struct {
	// File is appended to. Empty discards all records.
	File string

	// Level is one of debug, info, warn, error. Empty means info.
	Level string
}

// ParseLevel converts a configured level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	if strings.TrimSpace(name) == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", name, err)
	}
	return level, nil
}

// NewLogger returns a text logger tagged with a fresh session id, and the
// closer for its file.
func NewLogger(cfg LogConfig) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if cfg.File == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger, err := newSessionLogger(f, level)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

func newSessionLogger(w io.Writer, level slog.Level) (*slog.Logger, error) {
	session, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("session", session.String()), nil
}

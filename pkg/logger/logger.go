package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidLevel is returned for log levels other than debug, info, warn or error.
var ErrInvalidLevel = errors.New("invalid log level")

// Options configures where log records go.
type Options struct {
	Level string
	// Dir receives info.log and error.log. Empty disables file output.
	Dir string
	// Console defaults to stdout when nil.
	Console io.Writer
}

// New creates a structured slog.Logger that writes text to the console and JSON to
// <dir>/info.log, with errors duplicated into <dir>/error.log.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	consoleHandler := slog.NewTextHandler(console, handlerOpts)

	if opts.Dir == "" {
		return slog.New(NewMultiLevelHandler(level, consoleHandler, nil, nil)), nil
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	infoFile, err := openLogFile(opts.Dir, "info.log")
	if err != nil {
		return nil, err
	}
	errorFile, err := openLogFile(opts.Dir, "error.log")
	if err != nil {
		return nil, err
	}

	handler := NewMultiLevelHandler(
		level,
		consoleHandler,
		slog.NewJSONHandler(infoFile, handlerOpts),
		slog.NewJSONHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	return slog.New(handler), nil
}

func openLogFile(dir, name string) (*os.File, error) {
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

// MultiLevelHandler routes logs to multiple handlers (console + files).
// The file handlers are optional.
type MultiLevelHandler struct {
	consoleHandler   slog.Handler
	infoFileHandler  slog.Handler
	errorFileHandler slog.Handler
	level            slog.Leveler
}

func NewMultiLevelHandler(level slog.Leveler, consoleHandler, infoFileHandler, errorFileHandler slog.Handler) *MultiLevelHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &MultiLevelHandler{
		consoleHandler:   consoleHandler,
		infoFileHandler:  infoFileHandler,
		errorFileHandler: errorFileHandler,
		level:            level,
	}
}

func (h *MultiLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *MultiLevelHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.consoleHandler.Handle(ctx, r); err != nil {
		return err
	}

	if h.infoFileHandler != nil {
		if err := h.infoFileHandler.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}

	if h.errorFileHandler != nil && r.Level >= slog.LevelError {
		return h.errorFileHandler.Handle(ctx, r.Clone())
	}

	return nil
}

func (h *MultiLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MultiLevelHandler{
		consoleHandler:   h.consoleHandler.WithAttrs(attrs),
		infoFileHandler:  withAttrs(h.infoFileHandler, attrs),
		errorFileHandler: withAttrs(h.errorFileHandler, attrs),
		level:            h.level,
	}
}

func (h *MultiLevelHandler) WithGroup(name string) slog.Handler {
	return &MultiLevelHandler{
		consoleHandler:   h.consoleHandler.WithGroup(name),
		infoFileHandler:  withGroup(h.infoFileHandler, name),
		errorFileHandler: withGroup(h.errorFileHandler, name),
		level:            h.level,
	}
}

func withAttrs(h slog.Handler, attrs []slog.Attr) slog.Handler {
	if h == nil {
		return nil
	}
	return h.WithAttrs(attrs)
}

func withGroup(h slog.Handler, name string) slog.Handler {
	if h == nil {
		return nil
	}
	return h.WithGroup(name)
}

// ParseLevel maps a textual level onto slog.
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
		return slog.LevelError, ErrInvalidLevel
	}
}

// Discard returns a logger that drops everything, handy for tests and CLI commands.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

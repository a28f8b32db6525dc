// Package logging configures the process-wide slog logger
package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/NamashivayamS/Support-Sphere/internal/config"
)

// Logger is the global slog instance for the application
var Logger *slog.Logger = slog.Default()

var logFile *os.File

// Init builds the handler described by cfg, installs it as the slog default
// and redirects the standard log package to the same destination.
func Init(cfg config.LoggingConfig) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return err
		}
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		Close()
		logFile = file
		out = file
	}

	Logger = slog.New(NewHandler(out, cfg.Format, level))
	slog.SetDefault(Logger)

	log.SetOutput(out)
	log.SetFlags(log.LstdFlags)

	return nil
}

// NewHandler returns a JSON handler for format "json" and a text handler
// otherwise
func NewHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel maps debug, info, warn and error to slog levels
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Close releases the log file opened by Init, if any
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
